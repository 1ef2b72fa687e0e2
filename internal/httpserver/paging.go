package httpserver

import (
	"math"
	"strconv"

	"github.com/Skotchmaster/football_store/internal/models"
	"github.com/Skotchmaster/football_store/internal/transport"
)

const (
	DefaultPageSize = 50
	maxPageSize     = 100
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// calculate clamps page so that offset+limit never overflows int.
func calculate(page, size int) (p, offset, limit int) {
	if size < 1 || size > maxPageSize {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * size, size
}

// paginate slices an already ordered product list.
func paginate(items []models.Product, pageParam, sizeParam string) transport.ProductPage {
	page, offset, limit := calculate(parseIntDefault(pageParam, 1), parseIntDefault(sizeParam, DefaultPageSize))
	total := int64(len(items))

	data := []models.Product{}
	if offset < len(items) {
		end := min(offset+limit, len(items))
		data = items[offset:end]
	}

	return transport.ProductPage{
		Data: data,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}
