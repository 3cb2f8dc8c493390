package usecase

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AndrivA89/memo-editor/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRepository struct {
	memos    map[string]domain.Memo
	putErr   error
	countErr error
	listErr  error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{memos: make(map[string]domain.Memo)}
}

func (r *fakeRepository) Put(_ context.Context, memo *domain.Memo) error {
	if r.putErr != nil {
		return r.putErr
	}
	r.memos[memo.Datetime] = *memo
	return nil
}

func (r *fakeRepository) Count(_ context.Context) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return len(r.memos), nil
}

func (r *fakeRepository) List(_ context.Context, offset, limit int) ([]domain.Memo, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	all := make([]domain.Memo, 0, len(r.memos))
	for _, m := range r.memos {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Datetime > all[j].Datetime })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// stepClock advances one second per call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestSaveUsesClockAsKey(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(func() time.Time { return baseTime }))

	err := uc.Save(ctx, "", "")
	require.NoError(t, err, "Save with empty title and text should succeed")

	memo, ok := repo.memos["2024-03-01T09:00:00.000Z"]
	assert.True(t, ok, "Memo should be keyed by its ISO-8601 datetime")
	assert.Equal(t, "", memo.Title)
	assert.Equal(t, "", memo.Text)
}

func TestSaveSameMillisecondOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(func() time.Time { return baseTime }))

	require.NoError(t, uc.Save(ctx, "first", "a"))
	require.NoError(t, uc.Save(ctx, "second", "b"))

	count, err := uc.PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	page, err := uc.GetPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page, 1, "Colliding keys should leave one record")
	assert.Equal(t, "second", page[0].Title, "Last write should win")
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		saved int
		want  int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{20, 2},
		{25, 3},
		{101, 11},
	}
	for _, tc := range cases {
		ctx := context.Background()
		repo := newFakeRepository()
		uc := NewMemoUseCase(repo, WithClock(stepClock(baseTime)))
		for i := 0; i < tc.saved; i++ {
			require.NoError(t, uc.Save(ctx, "t", "x"))
		}
		got, err := uc.PageCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "PageCount for %d memos", tc.saved)
	}
}

func TestGetPageScenario(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(stepClock(baseTime)))

	count, err := uc.PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Empty store should report one page")

	empty, err := uc.GetPage(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	var keys []string
	for i := 0; i < 25; i++ {
		require.NoError(t, uc.Save(ctx, "memo", "body"))
		keys = append(keys, domain.FormatDatetime(baseTime.Add(time.Duration(i)*time.Second)))
	}

	count, err = uc.PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	first, err := uc.GetPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 10)
	for i, m := range first {
		assert.Equal(t, keys[24-i], m.Datetime, "Page 1 should hold the newest memos")
	}

	last, err := uc.GetPage(ctx, 3)
	require.NoError(t, err)
	require.Len(t, last, 5)
	for i, m := range last {
		assert.Equal(t, keys[4-i], m.Datetime, "Page 3 should hold the oldest memos")
	}

	beyond, err := uc.GetPage(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestGetPageNonPositive(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(stepClock(baseTime)))
	require.NoError(t, uc.Save(ctx, "memo", "body"))

	for _, page := range []int{0, -1} {
		memos, err := uc.GetPage(ctx, page)
		require.NoError(t, err, "GetPage(%d) should not fail", page)
		assert.Empty(t, memos)
	}
}

func TestGetPageHugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(stepClock(baseTime)))
	for i := 0; i < 3; i++ {
		require.NoError(t, uc.Save(ctx, "memo", "body"))
	}

	for _, page := range []int{math.MaxInt/5 + 1, math.MaxInt/domain.PageSize + 1, math.MaxInt} {
		memos, err := uc.GetPage(ctx, page)
		require.NoError(t, err, "GetPage(%d) should not fail", page)
		assert.Empty(t, memos, "GetPage(%d) should be past the last page", page)
	}

	memos, err := uc.GetPage(ctx, math.MaxInt/domain.PageSize)
	require.NoError(t, err, "Largest representable page should reach the store")
	assert.Empty(t, memos)
}

func TestPagesCoverAllMemosInOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(stepClock(baseTime)))
	for i := 0; i < 37; i++ {
		require.NoError(t, uc.Save(ctx, "memo", "body"))
	}

	count, err := uc.PageCount(ctx)
	require.NoError(t, err)

	seen := make(map[string]bool)
	var previous string
	for p := 1; p <= count; p++ {
		page, err := uc.GetPage(ctx, p)
		require.NoError(t, err)
		if p < count {
			assert.Len(t, page, domain.PageSize)
		} else {
			assert.LessOrEqual(t, len(page), domain.PageSize)
		}
		for _, m := range page {
			assert.False(t, seen[m.Datetime], "Memo %s returned twice", m.Datetime)
			seen[m.Datetime] = true
			if previous != "" {
				assert.Less(t, m.Datetime, previous, "Memos should be strictly descending")
			}
			previous = m.Datetime
		}
	}
	assert.Len(t, seen, 37, "Pages should cover every memo")

	again, err := uc.GetPage(ctx, 2)
	require.NoError(t, err)
	repeat, err := uc.GetPage(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, again, repeat, "Reads without writes should be identical")
}

func TestSavedMemoComesFirst(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	uc := NewMemoUseCase(repo, WithClock(stepClock(baseTime)))
	for i := 0; i < 12; i++ {
		require.NoError(t, uc.Save(ctx, "old", "body"))
	}
	require.NoError(t, uc.Save(ctx, "latest", "fresh"))

	page, err := uc.GetPage(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, page)
	assert.Equal(t, "latest", page[0].Title)
	assert.Equal(t, "fresh", page[0].Text)
}

func TestErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	repo := newFakeRepository()
	repo.putErr = boom
	repo.countErr = boom
	repo.listErr = boom
	uc := NewMemoUseCase(repo)

	err := uc.Save(ctx, "title", "text")
	assert.ErrorIs(t, err, boom)

	_, err = uc.PageCount(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = uc.GetPage(ctx, 1)
	assert.ErrorIs(t, err, boom)
}
