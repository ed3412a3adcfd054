package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

const DefaultJobDir = ".github/workflows"

// JobFailure records why one reminder's job could not be brought in line.
type JobFailure struct {
	ReminderID string
	Err        error
}

// ReconcileError lists every reminder whose job failed during one sweep.
type ReconcileError struct {
	Failures []JobFailure
}

func (e *ReconcileError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ReminderID)
	}

	return fmt.Sprintf("failed to reconcile jobs for %d reminder(s): %s", len(e.Failures), strings.Join(ids, ", "))
}

func (e *ReconcileError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}

	return errs
}

// FailedReminderIDs returns the reminder ids carried by a *ReconcileError
// anywhere in err's chain.
func FailedReminderIDs(err error) []string {
	var recErr *ReconcileError
	if !errors.As(err, &recErr) {
		return nil
	}

	ids := make([]string, 0, len(recErr.Failures))
	for _, f := range recErr.Failures {
		ids = append(ids, f.ReminderID)
	}

	return ids
}

// Materializer writes one job definition per enabled reminder into a
// document store, at <dir>/reminder-<id>.yml.
type Materializer struct {
	store    domain.DocumentStore
	renderer *Renderer
	dir      string
}

func NewMaterializer(store domain.DocumentStore, renderer *Renderer, dir string) *Materializer {
	if dir == "" {
		dir = DefaultJobDir
	}

	return &Materializer{
		store:    store,
		renderer: renderer,
		dir:      strings.TrimRight(dir, "/"),
	}
}

func (m *Materializer) JobPath(id domain.ReminderID) string {
	return path.Join(m.dir, JobName(id)+".yml")
}

// Reconcile sweeps enabled reminders first, then disabled ones. A failure
// on one reminder does not stop the sweep; all failures are returned
// together as a *ReconcileError.
func (m *Materializer) Reconcile(ctx context.Context, reminders []*domain.Reminder) error {
	slog.DebugContext(ctx, "reconciling reminder jobs",
		"count", len(reminders),
	)

	var failures []JobFailure

	for _, r := range reminders {
		if !r.IsEnabled() {
			continue
		}

		if err := m.upsert(ctx, r); err != nil {
			slog.ErrorContext(ctx, "failed to materialize job",
				"reminder_id", r.ID().String(),
				"error", err,
			)

			failures = append(failures, JobFailure{ReminderID: r.ID().String(), Err: err})
		}
	}

	for _, r := range reminders {
		if r.IsEnabled() {
			continue
		}

		if err := m.Remove(ctx, r); err != nil {
			slog.ErrorContext(ctx, "failed to remove job",
				"reminder_id", r.ID().String(),
				"error", err,
			)

			failures = append(failures, JobFailure{ReminderID: r.ID().String(), Err: err})
		}
	}

	if len(failures) > 0 {
		return &ReconcileError{Failures: failures}
	}

	slog.DebugContext(ctx, "reminder jobs reconciled",
		"count", len(reminders),
	)

	return nil
}

// Remove deletes the reminder's job if there is one.
func (m *Materializer) Remove(ctx context.Context, r *domain.Reminder) error {
	jobPath := m.JobPath(r.ID())

	doc, err := m.store.Get(ctx, jobPath)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil
		}

		return err
	}

	err = m.store.Delete(ctx, jobPath, doc.Revision, "Delete workflow for "+r.Name())
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		return err
	}

	slog.InfoContext(ctx, "job removed",
		"reminder_id", r.ID().String(),
		"path", jobPath,
	)

	return nil
}

func (m *Materializer) upsert(ctx context.Context, r *domain.Reminder) error {
	content, err := m.renderer.Render(r)
	if err != nil {
		return err
	}

	jobPath := m.JobPath(r.ID())

	doc, err := m.store.Get(ctx, jobPath)
	if err != nil {
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			return err
		}

		if _, err := m.store.Put(ctx, jobPath, []byte(content), "", "Create workflow for "+r.Name()); err != nil {
			return err
		}

		slog.InfoContext(ctx, "job created",
			"reminder_id", r.ID().String(),
			"path", jobPath,
		)

		return nil
	}

	if bytes.Equal(doc.Content, []byte(content)) {
		return nil
	}

	if _, err := m.store.Put(ctx, jobPath, []byte(content), doc.Revision, "Update workflow for "+r.Name()); err != nil {
		return err
	}

	slog.InfoContext(ctx, "job updated",
		"reminder_id", r.ID().String(),
		"path", jobPath,
	)

	return nil
}

// NoopMaterializer stands in when reminders are kept on local disk and no
// jobs are materialized.
type NoopMaterializer struct{}

func (NoopMaterializer) Reconcile(ctx context.Context, reminders []*domain.Reminder) error {
	slog.DebugContext(ctx, "job materialization skipped for local storage",
		"count", len(reminders),
	)

	return nil
}

func (NoopMaterializer) Remove(context.Context, *domain.Reminder) error {
	return nil
}

var (
	_ domain.JobMaterializer = (*Materializer)(nil)
	_ domain.JobMaterializer = NoopMaterializer{}
)
