package spacedrep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anki-sentences/anki-sentences/internal/store"
)

// fakeReviewRepo keeps review rows in memory and can be told to fail writes.
type fakeReviewRepo struct {
	rows     map[store.Target]map[int]store.ReviewRecord
	failNext error
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{rows: map[store.Target]map[int]store.ReviewRecord{}}
}

func (f *fakeReviewRepo) FetchReviews(_ context.Context, target store.Target, ids []int) (map[int]store.ReviewRecord, error) {
	out := map[int]store.ReviewRecord{}
	for _, id := range ids {
		if rec, ok := f.rows[target][id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) UpsertReviews(_ context.Context, target store.Target, rows []store.ReviewRecord) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	if f.rows[target] == nil {
		f.rows[target] = map[int]store.ReviewRecord{}
	}
	for _, r := range rows {
		f.rows[target][r.ItemID] = r
	}
	return nil
}

func (f *fakeReviewRepo) CountDue(context.Context, store.Target, time.Time) (int, int, error) {
	return 0, 0, nil
}

var testNow = time.Date(2025, 4, 12, 18, 45, 30, 0, time.UTC)

func TestApply_CreatesStateForNewItems(t *testing.T) {
	repo := newFakeReviewRepo()
	sched := NewScheduler(repo)

	rows, err := sched.Apply(context.Background(), store.TargetWords, []Grade{
		{ItemID: 1, Quality: 2},
		{ItemID: 2, Quality: 1},
	}, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := repo.rows[store.TargetWords][1]
	assert.Equal(t, 1, first.Interval)
	assert.Equal(t, 1, first.Repetitions)
	assert.InDelta(t, 2.5, first.EaseFactor, 1e-9)
	assert.True(t, first.LastReview.Equal(testNow))
	assert.True(t, first.NextReview.Equal(testNow.Add(24*time.Hour)))

	second := repo.rows[store.TargetWords][2]
	assert.Equal(t, 1, second.Interval)
	assert.Equal(t, 0, second.Repetitions)
	assert.InDelta(t, 2.3, second.EaseFactor, 1e-9)
}

func TestApply_ContinuesFromStoredState(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.rows[store.TargetSentences] = map[int]store.ReviewRecord{
		9: {ItemID: 9, Interval: 4, EaseFactor: 2.5, Repetitions: 3},
	}
	sched := NewScheduler(repo)

	_, err := sched.Apply(context.Background(), store.TargetSentences, []Grade{{ItemID: 9, Quality: 3}}, testNow)
	require.NoError(t, err)

	got := repo.rows[store.TargetSentences][9]
	assert.Equal(t, 10, got.Interval)
	assert.Equal(t, 4, got.Repetitions)
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	assert.True(t, got.NextReview.Equal(testNow.Add(10*24*time.Hour)))
}

func TestApply_ClampsCorruptedState(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.rows[store.TargetWords] = map[int]store.ReviewRecord{
		5: {ItemID: 5, Interval: 0, EaseFactor: 0.2, Repetitions: -3},
	}
	sched := NewScheduler(repo)

	_, err := sched.Apply(context.Background(), store.TargetWords, []Grade{{ItemID: 5, Quality: 2}}, testNow)
	require.NoError(t, err)

	got := repo.rows[store.TargetWords][5]
	assert.Equal(t, 1, got.Interval)
	assert.Equal(t, 1, got.Repetitions)
	assert.GreaterOrEqual(t, got.EaseFactor, MinEaseFactor)
}

func TestApply_FailedBatchLeavesStateUntouched(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.rows[store.TargetWords] = map[int]store.ReviewRecord{
		1: {ItemID: 1, Interval: 2, EaseFactor: 2.5, Repetitions: 2},
	}
	boom := errors.New("disk full")
	repo.failNext = boom
	sched := NewScheduler(repo)

	_, err := sched.Apply(context.Background(), store.TargetWords, []Grade{
		{ItemID: 1, Quality: 2},
		{ItemID: 2, Quality: 2},
	}, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 2, repo.rows[store.TargetWords][1].Interval)
	_, ok := repo.rows[store.TargetWords][2]
	assert.False(t, ok, "no row should be written for a failed batch")
}

func TestApply_EmptyGrades(t *testing.T) {
	sched := NewScheduler(newFakeReviewRepo())
	rows, err := sched.Apply(context.Background(), store.TargetWords, nil, testNow)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPlan_DoesNotWrite(t *testing.T) {
	repo := newFakeReviewRepo()
	sched := NewScheduler(repo)

	rows, err := sched.Plan(context.Background(), store.TargetWords, []Grade{{ItemID: 3, Quality: 2}}, testNow)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, repo.rows[store.TargetWords])
}

func TestApply_WithSQLiteStore(t *testing.T) {
	s, err := store.Open("file:spacedrep_apply?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	ids, err := s.WordRepo().InsertWords(ctx, []store.NewWord{
		{German: "Brot", Spanish: "pan"},
		{German: "Milch", Spanish: "leche"},
	})
	require.NoError(t, err)

	sched := NewScheduler(s.ReviewRepo())
	for day := 0; day < 3; day++ {
		_, err := sched.Apply(ctx, store.TargetWords, []Grade{
			{ItemID: ids[0], Quality: 2},
			{ItemID: ids[1], Quality: 1},
		}, testNow.AddDate(0, 0, day))
		require.NoError(t, err)
	}

	got, err := s.ReviewRepo().FetchReviews(ctx, store.TargetWords, ids)
	require.NoError(t, err)
	assert.Equal(t, 4, got[ids[0]].Interval)
	assert.Equal(t, 3, got[ids[0]].Repetitions)
	assert.Equal(t, 1, got[ids[1]].Interval)
	assert.InDelta(t, 1.9, got[ids[1]].EaseFactor, 1e-9)
}
