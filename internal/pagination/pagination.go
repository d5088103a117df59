// Package pagination implements the paginated "get" accessor shared by every
// listing endpoint: count the matches, fetch one window of them in a stable
// order and report page arithmetic plus the collection's last modification time.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit bounds the page size a caller may request.
	MaxLimit = 1000
)

var (
	// ErrInvalidArgument marks a malformed page or limit.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable marks a failure of the underlying record store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ArgumentError names the offending request field and unwraps to ErrInvalidArgument.
type ArgumentError struct {
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidArgument, e.Field, e.Message)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// Store is the read side a Lister needs from a record collection.
// Find must order matches by a total, stable key so that windows never overlap.
type Store[R any, F any] interface {
	Count(ctx context.Context, filter F) (int, error)
	Find(ctx context.Context, filter F, skip, limit int) ([]R, error)
	// LastModified reports the newest UpdatedAt among all matches; ok is false when nothing matches.
	LastModified(ctx context.Context, filter F) (ts time.Time, ok bool, err error)
}

// Timestamped is implemented by records that expose their modification time.
type Timestamped interface {
	LastModifiedAt() time.Time
}

// Request selects one page of records matching Filter. The zero Filter matches everything.
type Request[F any] struct {
	Page   int
	Limit  int
	Filter F
}

// NewRequest returns the default request (first page of ten) for filter.
func NewRequest[F any](filter F) *Request[F] {
	return &Request[F]{Page: DefaultPage, Limit: DefaultLimit, Filter: filter}
}

// Skip is the number of leading matches excluded before the page.
func (r Request[F]) Skip() int { return (r.Page - 1) * r.Limit }

// Validate checks page and limit bounds, including overflow of the skip offset.
func (r Request[F]) Validate() error {
	if r.Page < 1 {
		return &ArgumentError{Field: "page", Message: "must be >= 1"}
	}
	if r.Limit <= 0 {
		return &ArgumentError{Field: "limit", Message: "must be > 0"}
	}
	if r.Limit > MaxLimit {
		return &ArgumentError{Field: "limit", Message: fmt.Sprintf("must be <= %d", MaxLimit)}
	}
	if r.Page-1 > math.MaxInt/r.Limit {
		return &ArgumentError{Field: "page", Message: "is out of range"}
	}
	return nil
}

// Result is one page of records with its pagination metadata.
type Result[R any] struct {
	Data         []R        `json:"data"`
	Total        int        `json:"total"`
	Limit        int        `json:"limit"`
	Skip         int        `json:"skip"`
	Page         int        `json:"page"`
	Pages        int        `json:"pages"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// HasNext reports whether a page follows this one.
func (r Result[R]) HasNext() bool { return r.Page < r.Pages }

// PageCount returns ceil(total/limit), zero when there is nothing to page.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// Lister runs paginated queries against a Store. It holds no mutable state and
// is safe for concurrent use.
type Lister[R any, F any] struct {
	store Store[R, F]
	log   zerolog.Logger
}

func NewLister[R any, F any](store Store[R, F], logger zerolog.Logger) *Lister[R, F] {
	l := logger.With().Str("module", "pagination").Logger()
	return &Lister[R, F]{store: store, log: l}
}

// List returns the page described by req, or the default page when req is nil.
//
// Count and Find are separate reads, so a concurrent writer may make Total and
// Data disagree momentarily. LastModified is read after Find and never reported
// below the newest record in Data.
func (l *Lister[R, F]) List(ctx context.Context, req *Request[F]) (Result[R], error) {
	if req == nil {
		var zero F
		req = NewRequest(zero)
	}
	if err := req.Validate(); err != nil {
		return Result[R]{}, err
	}
	start := time.Now()

	total, err := l.store.Count(ctx, req.Filter)
	if err != nil {
		return Result[R]{}, l.storeErr(ctx, "count", err)
	}

	res := Result[R]{
		Data:  make([]R, 0),
		Total: total,
		Limit: req.Limit,
		Skip:  req.Skip(),
		Page:  req.Page,
		Pages: PageCount(total, req.Limit),
	}

	if res.Skip < total {
		data, err := l.store.Find(ctx, req.Filter, res.Skip, req.Limit)
		if err != nil {
			return Result[R]{}, l.storeErr(ctx, "find", err)
		}
		if len(data) > req.Limit {
			data = data[:req.Limit]
		}
		if data != nil {
			res.Data = data
		}
	}

	if total > 0 || len(res.Data) > 0 {
		ts, ok, err := l.store.LastModified(ctx, req.Filter)
		if err != nil {
			return Result[R]{}, l.storeErr(ctx, "last_modified", err)
		}
		if newest, found := newestOf(res.Data); found && (!ok || newest.After(ts)) {
			ts, ok = newest, true
		}
		if ok {
			ts = ts.UTC()
			res.LastModified = &ts
		}
	}

	l.log.Debug().
		Int("page", res.Page).
		Int("limit", res.Limit).
		Int("total", res.Total).
		Int("returned", len(res.Data)).
		Dur("took", time.Since(start)).
		Msg("page listed")
	return res, nil
}

func (l *Lister[R, F]) storeErr(ctx context.Context, step string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}
	l.log.Error().Err(err).Str("step", step).Msg("store read failed")
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func newestOf[R any](data []R) (time.Time, bool) {
	var newest time.Time
	found := false
	for _, rec := range data {
		ts, ok := any(rec).(Timestamped)
		if !ok {
			return time.Time{}, false
		}
		if t := ts.LastModifiedAt(); !found || t.After(newest) {
			newest, found = t, true
		}
	}
	return newest, found
}
