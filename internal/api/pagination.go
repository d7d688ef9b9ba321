package api

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page is the envelope for paginated listings.
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// pagination reads ?page= and ?limit=. A missing or malformed limit falls
// back to the configured page size; larger limits are capped at maxSize.
type pagination struct {
	page  int
	limit int
}

func parsePagination(c *gin.Context, defaultSize, maxSize int) (pagination, bool) {
	p := pagination{page: 1, limit: defaultSize}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.limit = n
		}
	}
	if maxSize > 0 && p.limit > maxSize {
		p.limit = maxSize
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, false
		}
		p.page = n
	}
	// The offset has to fit an int.
	if p.page-1 > math.MaxInt/p.limit {
		return p, false
	}
	return p, true
}

func (p pagination) offset() int {
	return (p.page - 1) * p.limit
}

// valid reports whether the requested page exists; page 1 always does.
func (p pagination) valid(count int) bool {
	return p.page == 1 || p.page-1 < (count+p.limit-1)/p.limit
}

func (p pagination) envelope(c *gin.Context, count int, results interface{}) Page {
	out := Page{Count: count, Results: results}
	if p.offset()+p.limit < count {
		out.Next = pageLink(c, p.page+1)
	}
	if p.page > 1 {
		out.Previous = pageLink(c, p.page-1)
	}
	return out
}

func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	link := u.RequestURI()
	return &link
}
