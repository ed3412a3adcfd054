package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/workflow"
	"github.com/KasumiMercury/primind-chat-reminder/internal/testutil"
)

func setupMaterializer(t *testing.T) (*workflow.Materializer, *testutil.MemoryDocumentStore) {
	t.Helper()

	store := testutil.NewMemoryDocumentStore()

	return workflow.NewMaterializer(store, newRenderer(t), ""), store
}

func TestMaterializerJobPath(t *testing.T) {
	m, _ := setupMaterializer(t)
	id, err := domain.ReminderIDFromString("42")
	require.NoError(t, err)

	assert.Equal(t, ".github/workflows/reminder-42.yml", m.JobPath(id))

	custom := workflow.NewMaterializer(testutil.NewMemoryDocumentStore(), newRenderer(t), "jobs/")
	assert.Equal(t, "jobs/reminder-42.yml", custom.JobPath(id))
}

func TestReconcileCreatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	enabled := testutil.NewDailyReminder(t, "enabled", "09:00")
	disabled := testutil.NewDailyReminder(t, "disabled", "10:00")
	disabled.SetEnabled(false)

	store.Seed(m.JobPath(disabled.ID()), []byte("stale job"))

	err := m.Reconcile(ctx, []*domain.Reminder{enabled, disabled})

	require.NoError(t, err)
	assert.Equal(t, []string{m.JobPath(enabled.ID())}, store.Paths())

	commits := store.Commits()
	require.Len(t, commits, 2)
	assert.Equal(t, "create", commits[0].Op)
	assert.Equal(t, "Create workflow for enabled", commits[0].Message)
	assert.Equal(t, "delete", commits[1].Op)
	assert.Equal(t, "Delete workflow for disabled", commits[1].Message)
}

func TestReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	r1 := testutil.NewDailyReminder(t, "r1", "09:00")
	r2 := testutil.NewDailyReminder(t, "r2", "10:00")
	r2.SetEnabled(false)

	list := []*domain.Reminder{r1, r2}

	require.NoError(t, m.Reconcile(ctx, list))

	pathsAfterFirst := store.Paths()
	content, ok := store.Content(m.JobPath(r1.ID()))
	require.True(t, ok)

	require.NoError(t, m.Reconcile(ctx, list))

	assert.Equal(t, pathsAfterFirst, store.Paths())

	again, ok := store.Content(m.JobPath(r1.ID()))
	require.True(t, ok)
	assert.Equal(t, content, again)
	assert.Len(t, store.Commits(), 1)
}

func TestReconcileUpdatesChangedJob(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	r := testutil.NewDailyReminder(t, "r", "09:00")
	require.NoError(t, m.Reconcile(ctx, []*domain.Reminder{r}))

	require.NoError(t, r.ChangeMessage("changed body"))
	require.NoError(t, m.Reconcile(ctx, []*domain.Reminder{r}))

	content, ok := store.Content(m.JobPath(r.ID()))
	require.True(t, ok)
	assert.Contains(t, string(content), "body=changed%20body")

	commits := store.Commits()
	require.Len(t, commits, 2)
	assert.Equal(t, "update", commits[1].Op)
	assert.Equal(t, "Update workflow for r", commits[1].Message)
}

func TestReconcileToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	r := testutil.NewDailyReminder(t, "toggle", "09:00")
	list := []*domain.Reminder{r}

	require.NoError(t, m.Reconcile(ctx, list))
	original, ok := store.Content(m.JobPath(r.ID()))
	require.True(t, ok)

	r.Toggle()
	require.NoError(t, m.Reconcile(ctx, list))

	_, ok = store.Content(m.JobPath(r.ID()))
	assert.False(t, ok)

	r.Toggle()
	require.NoError(t, m.Reconcile(ctx, list))

	recreated, ok := store.Content(m.JobPath(r.ID()))
	require.True(t, ok)
	assert.Equal(t, original, recreated)
}

func TestReconcileContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	broken := testutil.NewDailyReminder(t, "broken", "09:00")
	invalid := domain.ReconstituteReminder(domain.NewReminderID(), "invalid", "1", "m",
		domain.ReconstituteSchedule("hourly", "09:00", 0, 0), true, "", broken.CreatedAt())
	healthy := testutil.NewDailyReminder(t, "healthy", "10:00")

	upstream := errors.New("boom")
	store.PutErrors[m.JobPath(broken.ID())] = upstream

	err := m.Reconcile(ctx, []*domain.Reminder{broken, invalid, healthy})

	require.Error(t, err)

	var recErr *workflow.ReconcileError
	require.ErrorAs(t, err, &recErr)
	assert.Len(t, recErr.Failures, 2)
	assert.ErrorIs(t, err, upstream)
	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
	assert.ElementsMatch(t, []string{broken.ID().String(), invalid.ID().String()}, workflow.FailedReminderIDs(err))

	_, ok := store.Content(m.JobPath(healthy.ID()))
	assert.True(t, ok)
}

func TestReconcileDisabledWithoutJobIsSkipped(t *testing.T) {
	m, store := setupMaterializer(t)

	r := testutil.NewDailyReminder(t, "off", "09:00")
	r.SetEnabled(false)

	err := m.Reconcile(context.Background(), []*domain.Reminder{r})

	assert.NoError(t, err)
	assert.Empty(t, store.Commits())
}

func TestReconcileIgnoresRemindersMissingFromList(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	gone := testutil.NewDailyReminder(t, "gone", "09:00")
	require.NoError(t, m.Reconcile(ctx, []*domain.Reminder{gone}))

	require.NoError(t, m.Reconcile(ctx, nil))

	_, ok := store.Content(m.JobPath(gone.ID()))
	assert.True(t, ok)
}

func TestRemoveSuccess(t *testing.T) {
	ctx := context.Background()
	m, store := setupMaterializer(t)

	r := testutil.NewDailyReminder(t, "r", "09:00")
	require.NoError(t, m.Reconcile(ctx, []*domain.Reminder{r}))

	require.NoError(t, m.Remove(ctx, r))
	assert.Empty(t, store.Paths())

	// absent job
	assert.NoError(t, m.Remove(ctx, r))
}

func TestRemoveError(t *testing.T) {
	m, store := setupMaterializer(t)

	r := testutil.NewDailyReminder(t, "r", "09:00")
	store.Seed(m.JobPath(r.ID()), []byte("job"))
	store.DeleteErrors[m.JobPath(r.ID())] = domain.ErrUpstreamFailure

	err := m.Remove(context.Background(), r)

	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}

func TestNoopMaterializer(t *testing.T) {
	var m workflow.NoopMaterializer

	r := testutil.NewDailyReminder(t, "r", "09:00")

	assert.NoError(t, m.Reconcile(context.Background(), []*domain.Reminder{r}))
	assert.NoError(t, m.Remove(context.Background(), r))
}
