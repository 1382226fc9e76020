package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query carries the list parameters shared by every paginated endpoint.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Type     string
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// FromContext reads page, page_size, search, status and type from the
// query string, clamping page values to sane bounds.
func FromContext(c *gin.Context) Query {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if page < 1 {
		page = DefaultPage
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Query{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Type:     strings.ToUpper(strings.TrimSpace(c.Query("type"))),
	}
}
