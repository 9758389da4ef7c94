package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// TransitionWorker processes booking transition jobs from the River queue.
// For now it logs the transition; future versions will notify the tenant,
// the assigned technician, or external facility systems.
type TransitionWorker struct {
	river.WorkerDefaults[TransitionJobArgs]
}

// Work processes a single transition job.
func (w *TransitionWorker) Work(ctx context.Context, job *river.Job[TransitionJobArgs]) error {
	slog.InfoContext(ctx, "processing booking transition",
		"booking_id", job.Args.BookingID,
		"event", job.Args.Event,
		"from", job.Args.From,
		"to", job.Args.To,
		"actor_id", job.Args.ActorID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
