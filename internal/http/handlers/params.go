package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tolgee/tolgee-backend/internal/data/paging"
	"github.com/tolgee/tolgee-backend/internal/domain/errs"
)

func pathID(c *gin.Context, name, invalidKey string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.Validation("http.params", invalidKey)
	}
	return id, nil
}

// pageableFromQuery reads page, size and repeated sort=prop[,asc|desc]
// parameters. Out of range page and size values are clamped later by
// paging.Pageable.Normalize.
func pageableFromQuery(c *gin.Context) (paging.Pageable, error) {
	var p paging.Pageable
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, errs.Validation("http.params", "invalid_page")
		}
		p.Page = n
	}
	if raw := strings.TrimSpace(c.Query("size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, errs.Validation("http.params", "invalid_size")
		}
		p.Size = n
	}
	p.Sort = paging.ParseSort(c.QueryArray("sort"))
	return p, nil
}
