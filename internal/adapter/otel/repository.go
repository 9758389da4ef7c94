package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hoangnv/aptcare/internal/domain"
)

const tracerName = "github.com/hoangnv/aptcare/internal/adapter/otel"

// TracingRepository wraps a domain.BookingRepository with OpenTelemetry tracing.
// Each method creates a span with semantic attributes and records errors.
type TracingRepository struct {
	next   domain.BookingRepository
	tracer trace.Tracer
}

// Compile-time check: TracingRepository implements domain.BookingRepository.
var _ domain.BookingRepository = (*TracingRepository)(nil)

// NewTracingRepository creates a tracing decorator around the given repository.
func NewTracingRepository(next domain.BookingRepository) *TracingRepository {
	return &TracingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingRepository) Create(ctx context.Context, booking domain.Booking) error {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.Create",
		trace.WithAttributes(
			attribute.String("booking.id", booking.ID),
			attribute.String("booking.facility_id", booking.FacilityID),
			attribute.String("booking.apartment_id", booking.ApartmentID),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, booking)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingRepository) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.GetByID",
		trace.WithAttributes(attribute.String("booking.id", id)),
	)
	defer span.End()

	booking, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return booking, err
}

func (r *TracingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.List")
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}
	if filter.ApartmentID != nil {
		span.SetAttributes(attribute.String("filter.apartment_id", *filter.ApartmentID))
	}
	if filter.CreatedBy != nil {
		span.SetAttributes(attribute.String("filter.created_by", *filter.CreatedBy))
	}
	if filter.AssignedTo != nil {
		span.SetAttributes(attribute.String("filter.assigned_to", *filter.AssignedTo))
	}

	bookings, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(bookings)))
	}
	return bookings, err
}

func (r *TracingRepository) UpdateStatus(ctx context.Context, upd domain.StatusUpdate) error {
	ctx, span := r.tracer.Start(ctx, "BookingRepository.UpdateStatus",
		trace.WithAttributes(
			attribute.String("booking.id", upd.ID),
			attribute.String("booking.from", string(upd.From)),
			attribute.String("booking.to", string(upd.To)),
		),
	)
	defer span.End()

	err := r.next.UpdateStatus(ctx, upd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
