package pagination_test

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
)

type record struct {
	ID        int
	Even      bool
	UpdatedAt time.Time
}

func (r record) LastModifiedAt() time.Time { return r.UpdatedAt }

type evenOnly struct{ Only bool }

// sliceStore keeps records in id order and counts calls for assertions.
type sliceStore struct {
	mu       sync.Mutex
	items    []record
	err      error
	finds    int
	staleMod bool // report a lastModified older than the page contents
}

func newSliceStore(n int) *sliceStore {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &sliceStore{}
	for i := 1; i <= n; i++ {
		s.items = append(s.items, record{ID: i, Even: i%2 == 0, UpdatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	return s
}

func (s *sliceStore) match(f evenOnly) []record {
	out := make([]record, 0, len(s.items))
	for _, it := range s.items {
		if f.Only && !it.Even {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (s *sliceStore) Count(_ context.Context, f evenOnly) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.match(f)), nil
}

func (s *sliceStore) Find(_ context.Context, f evenOnly, skip, limit int) ([]record, error) {
	s.mu.Lock()
	s.finds++
	s.mu.Unlock()
	m := s.match(f)
	if skip >= len(m) {
		return nil, nil
	}
	end := skip + limit
	if end > len(m) {
		end = len(m)
	}
	return m[skip:end], nil
}

func (s *sliceStore) LastModified(_ context.Context, f evenOnly) (time.Time, bool, error) {
	m := s.match(f)
	if len(m) == 0 {
		return time.Time{}, false, nil
	}
	newest := m[0].UpdatedAt
	for _, it := range m[1:] {
		if it.UpdatedAt.After(newest) {
			newest = it.UpdatedAt
		}
	}
	if s.staleMod {
		newest = newest.Add(-24 * time.Hour)
	}
	return newest, true, nil
}

func newLister(s *sliceStore) *pagination.Lister[record, evenOnly] {
	return pagination.NewLister[record, evenOnly](s, zerolog.New(io.Discard))
}

func TestList_DefaultRequest(t *testing.T) {
	store := newSliceStore(32)
	res, err := newLister(store).List(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, res.Data, 10)
	assert.Equal(t, 32, res.Total)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 0, res.Skip)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 4, res.Pages)
	require.NotNil(t, res.LastModified)
	assert.Equal(t, store.items[31].UpdatedAt, *res.LastModified)
	assert.True(t, res.HasNext())
}

func TestList_WithOptions(t *testing.T) {
	res, err := newLister(newSliceStore(32)).List(context.Background(), &pagination.Request[evenOnly]{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, res.Data, 20)
	assert.Equal(t, 32, res.Total)
	assert.Equal(t, 20, res.Limit)
	assert.Equal(t, 0, res.Skip)
	assert.Equal(t, 2, res.Pages)
	require.NotNil(t, res.LastModified)
}

func TestList_EmptyStore(t *testing.T) {
	store := newSliceStore(0)
	res, err := newLister(store).List(context.Background(), nil)
	require.NoError(t, err)

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Pages)
	assert.Nil(t, res.LastModified)
	assert.Zero(t, store.finds, "nothing to fetch when total is zero")
}

func TestList_InvalidArguments(t *testing.T) {
	cases := []struct {
		name  string
		req   pagination.Request[evenOnly]
		field string
	}{
		{"page zero", pagination.Request[evenOnly]{Page: 0, Limit: 10}, "page"},
		{"negative page", pagination.Request[evenOnly]{Page: -3, Limit: 10}, "page"},
		{"limit zero", pagination.Request[evenOnly]{Page: 1, Limit: 0}, "limit"},
		{"negative limit", pagination.Request[evenOnly]{Page: 1, Limit: -1}, "limit"},
		{"limit above max", pagination.Request[evenOnly]{Page: 1, Limit: pagination.MaxLimit + 1}, "limit"},
		{"limit max int", pagination.Request[evenOnly]{Page: 1, Limit: math.MaxInt}, "limit"},
		{"skip overflow", pagination.Request[evenOnly]{Page: math.MaxInt, Limit: 2}, "page"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newSliceStore(5)
			res, err := newLister(store).List(context.Background(), &tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, pagination.ErrInvalidArgument)

			var argErr *pagination.ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tc.field, argErr.Field)
			assert.Nil(t, res.Data)
			assert.Zero(t, store.finds)
		})
	}
}

func TestList_StoreFailureIsUnavailable(t *testing.T) {
	cause := errors.New("connection refused")
	store := newSliceStore(3)
	store.err = cause

	res, err := newLister(store).List(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pagination.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, pagination.Result[record]{}, res)
}

func TestList_CanceledContextPassesThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newSliceStore(3)
	store.err = ctx.Err()

	_, err := newLister(store).List(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, pagination.ErrStoreUnavailable)
}

func TestList_PageBeyondEndSkipsFetch(t *testing.T) {
	store := newSliceStore(32)
	res, err := newLister(store).List(context.Background(), &pagination.Request[evenOnly]{Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, 40, res.Skip)
	assert.Equal(t, 4, res.Pages)
	assert.NotNil(t, res.LastModified, "lastModified covers all matches, not just the page")
	assert.Zero(t, store.finds)
}

func TestList_PagesAreDisjointAndComplete(t *testing.T) {
	store := newSliceStore(23)
	lister := newLister(store)
	seen := map[int]bool{}
	last := 0
	for page := 1; page <= 3; page++ {
		res, err := lister.List(context.Background(), &pagination.Request[evenOnly]{Page: page, Limit: 10})
		require.NoError(t, err)
		for _, r := range res.Data {
			assert.False(t, seen[r.ID], "record %d returned twice", r.ID)
			assert.Greater(t, r.ID, last)
			seen[r.ID] = true
			last = r.ID
		}
	}
	assert.Len(t, seen, 23)
}

func TestList_FilterApplies(t *testing.T) {
	res, err := newLister(newSliceStore(32)).List(context.Background(), pagination.NewRequest(evenOnly{Only: true}))
	require.NoError(t, err)
	assert.Equal(t, 16, res.Total)
	assert.Equal(t, 2, res.Pages)
	for _, r := range res.Data {
		assert.True(t, r.Even)
	}
}

func TestList_LastModifiedNeverBelowPage(t *testing.T) {
	store := newSliceStore(12)
	store.staleMod = true
	res, err := newLister(store).List(context.Background(), &pagination.Request[evenOnly]{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, res.LastModified)
	assert.Equal(t, store.items[11].UpdatedAt, *res.LastModified)
}

func TestList_Idempotent(t *testing.T) {
	lister := newLister(newSliceStore(17))
	req := &pagination.Request[evenOnly]{Page: 2, Limit: 5}
	first, err := lister.List(context.Background(), req)
	require.NoError(t, err)
	second, err := lister.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestList_DataLengthProperty(t *testing.T) {
	for total := 0; total <= 25; total++ {
		store := newSliceStore(total)
		lister := newLister(store)
		for limit := 1; limit <= 7; limit++ {
			for page := 1; page <= 6; page++ {
				res, err := lister.List(context.Background(), &pagination.Request[evenOnly]{Page: page, Limit: limit})
				require.NoError(t, err)
				want := min(limit, max(0, total-(page-1)*limit))
				assert.Len(t, res.Data, want, "total=%d limit=%d page=%d", total, limit, page)
				assert.Equal(t, pagination.PageCount(total, limit), res.Pages)
				assert.Equal(t, total == 0, res.Pages == 0)
			}
		}
	}
}

func TestList_ConcurrentCallers(t *testing.T) {
	lister := newLister(newSliceStore(50))
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			res, err := lister.List(context.Background(), &pagination.Request[evenOnly]{Page: page, Limit: 7})
			assert.NoError(t, err)
			assert.Equal(t, page, res.Page)
			assert.Equal(t, 50, res.Total)
		}(i)
	}
	wg.Wait()
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pagination.PageCount(0, 10))
	assert.Equal(t, 1, pagination.PageCount(1, 10))
	assert.Equal(t, 1, pagination.PageCount(10, 10))
	assert.Equal(t, 2, pagination.PageCount(11, 10))
	assert.Equal(t, 4, pagination.PageCount(32, 10))
	assert.Equal(t, 2, pagination.PageCount(32, 20))
	assert.Equal(t, 1, pagination.PageCount(2, math.MaxInt))
	assert.Equal(t, 1, pagination.PageCount(math.MaxInt, math.MaxInt))
	assert.Equal(t, 2, pagination.PageCount(math.MaxInt, math.MaxInt-1))
	assert.Equal(t, math.MaxInt, pagination.PageCount(math.MaxInt, 1))
}

func TestList_MaxLimitReturnsEverything(t *testing.T) {
	store := newSliceStore(32)
	res, err := newLister(store).List(context.Background(), &pagination.Request[evenOnly]{Page: 1, Limit: pagination.MaxLimit})
	require.NoError(t, err)
	assert.Equal(t, 32, res.Total)
	assert.Equal(t, 1, res.Pages)
	assert.Len(t, res.Data, 32)
}
