package domain_test

import (
	"testing"
	"time"

	"github.com/hoangnv/aptcare/internal/domain"
)

func TestNewBooking(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	before := time.Now().UTC()
	b := domain.NewBooking("b-1", "f-7", "a-101", "u-1", "AC broken", date)
	after := time.Now().UTC()

	if b.ID != "b-1" {
		t.Errorf("ID = %q, want %q", b.ID, "b-1")
	}
	if b.FacilityID != "f-7" {
		t.Errorf("FacilityID = %q, want %q", b.FacilityID, "f-7")
	}
	if b.ApartmentID != "a-101" {
		t.Errorf("ApartmentID = %q, want %q", b.ApartmentID, "a-101")
	}
	if b.CreatedBy != "u-1" {
		t.Errorf("CreatedBy = %q, want %q", b.CreatedBy, "u-1")
	}
	if b.Status != domain.BookingTodo {
		t.Errorf("Status = %q, want %q", b.Status, domain.BookingTodo)
	}
	if b.AssignedTo != nil {
		t.Errorf("AssignedTo = %v, want nil on a new booking", *b.AssignedTo)
	}
	if !b.BookingDate.Equal(date) {
		t.Errorf("BookingDate = %v, want %v", b.BookingDate, date)
	}
	if b.CreatedAt.Before(before) || b.CreatedAt.After(after) {
		t.Errorf("CreatedAt = %v, want between %v and %v", b.CreatedAt, before, after)
	}
	if b.UpdatedAt != b.CreatedAt {
		t.Error("UpdatedAt should equal CreatedAt on a new booking")
	}
}

func TestBooking_Open(t *testing.T) {
	cases := []struct {
		status domain.BookingStatus
		want   bool
	}{
		{domain.BookingTodo, true},
		{domain.BookingPending, true},
		{domain.BookingFixed, true},
		{domain.BookingDone, false},
	}

	for _, tc := range cases {
		b := domain.Booking{Status: tc.status}
		if got := b.Open(); got != tc.want {
			t.Errorf("Open() with status %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestTransitions_ValidPaths(t *testing.T) {
	// The full happy path: todo → pending → fixed → done.
	cases := []struct {
		event domain.WorkflowEvent
		src   domain.BookingStatus
		dst   domain.BookingStatus
	}{
		{domain.EventAssign, domain.BookingTodo, domain.BookingPending},
		{domain.EventMarkFixed, domain.BookingPending, domain.BookingFixed},
		{domain.EventMarkDone, domain.BookingFixed, domain.BookingDone},
	}

	for _, tc := range cases {
		found := false
		for _, tr := range domain.Transitions {
			if tr.Event == tc.event && tr.Src == tc.src && tr.Dst == tc.dst {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing transition: %q from %q → %q", tc.event, tc.src, tc.dst)
		}
	}
}

func TestTransitions_NoReverseOrSkippingPaths(t *testing.T) {
	// The workflow is forward-only and one step at a time; none of these
	// edges may exist.
	invalid := []struct {
		event domain.WorkflowEvent
		src   domain.BookingStatus
	}{
		{domain.EventAssign, domain.BookingPending},
		{domain.EventAssign, domain.BookingFixed},
		{domain.EventAssign, domain.BookingDone},
		{domain.EventMarkFixed, domain.BookingTodo},
		{domain.EventMarkFixed, domain.BookingFixed},
		{domain.EventMarkFixed, domain.BookingDone},
		{domain.EventMarkDone, domain.BookingTodo},
		{domain.EventMarkDone, domain.BookingPending},
		{domain.EventMarkDone, domain.BookingDone},
	}

	for _, tc := range invalid {
		for _, tr := range domain.Transitions {
			if tr.Event == tc.event && tr.Src == tc.src {
				t.Errorf("unexpected transition: %q from %q should not exist", tc.event, tc.src)
			}
		}
	}
}

func TestTransitions_TerminalDone(t *testing.T) {
	for _, tr := range domain.Transitions {
		if tr.Src == domain.BookingDone {
			t.Errorf("done must be terminal, found outgoing event %q", tr.Event)
		}
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range []domain.Role{domain.RoleAdmin, domain.RoleTechnician, domain.RoleUser} {
		if !r.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", r)
		}
	}
	if domain.Role("manager").IsValid() {
		t.Error(`IsValid("manager") = true, want false`)
	}
	if domain.Role("").IsValid() {
		t.Error(`IsValid("") = true, want false`)
	}
}
