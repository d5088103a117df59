package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/service"
	"github.com/maxviazov/stock-adjustment-service/pkg/response"
)

// queryParser collects field errors while reading query parameters.
// Absent parameters keep their defaults; present ones must parse.
type queryParser struct {
	c    *gin.Context
	errs []service.FieldError
}

func (p *queryParser) number(name string, def int) int {
	raw, ok := p.c.GetQuery(name)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, service.FieldError{Field: name, Message: "must be an integer"})
		return def
	}
	return v
}

func (p *queryParser) id(name string) int64 {
	raw, ok := p.c.GetQuery(name)
	if !ok || raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		p.errs = append(p.errs, service.FieldError{Field: name, Message: "must be a positive integer"})
		return 0
	}
	return v
}

func (p *queryParser) str(name string) string { return p.c.Query(name) }

func (p *queryParser) err() error { return service.NewInvalidInputError(p.errs...) }

// pageRequest reads page and limit; a zero or negative value is passed on
// so the lister reports it.
func pageRequest[F any](p *queryParser, filter F) *pagination.Request[F] {
	req := pagination.NewRequest(filter)
	req.Page = p.number("page", pagination.DefaultPage)
	req.Limit = p.number("limit", pagination.DefaultLimit)
	return req
}

// pathID parses the :id path segment.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.NewInvalidInputError(service.FieldError{Field: "id", Message: "must be an integer"})
	}
	return id, nil
}

// writePage sends a page with Last-Modified, or 304 when If-Modified-Since is not older.
func writePage[R any](c *gin.Context, res pagination.Result[R]) {
	if res.LastModified != nil {
		lm := res.LastModified.UTC()
		c.Header("Last-Modified", lm.Format(http.TimeFormat))
		if notModified(c.GetHeader("If-Modified-Since"), lm) {
			c.Status(http.StatusNotModified)
			return
		}
	}
	response.WriteData(c, http.StatusOK, res)
}

// notModified compares at one-second resolution, the precision of HTTP dates.
func notModified(header string, lastModified time.Time) bool {
	if header == "" {
		return false
	}
	since, err := http.ParseTime(header)
	if err != nil {
		return false
	}
	return !lastModified.Truncate(time.Second).After(since)
}
