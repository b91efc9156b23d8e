package search

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrNoPage    = errors.New("no page in that direction")
	ErrBadCursor = errors.New("malformed cursor")
)

// OffsetFromCursor extrae solo `from` del cursor opaco que devuelve la API
// (p.ej. "/dogs/search?size=25&from=25&sort=breed:asc"). Sin `from` => 0.
func OffsetFromCursor(cursor string) (int, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return 0, ErrNoPage
	}

	qs := cursor
	if _, after, ok := strings.Cut(cursor, "?"); ok {
		qs = after
	}
	v, err := url.ParseQuery(qs)
	if err != nil {
		return 0, ErrBadCursor
	}

	raw := v.Get("from")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrBadCursor
	}
	return n, nil
}

// normalizeOffset deja from como múltiplo no negativo de PageSize y,
// si se conoce total, nunca más allá del inicio de la última página.
func normalizeOffset(from, total int) int {
	if from < 0 {
		from = 0
	}
	from -= from % PageSize
	if total <= 0 {
		return 0
	}
	if from >= total {
		from = ((total - 1) / PageSize) * PageSize
	}
	return from
}

// pageInfo calcula página actual (1-based) y total de páginas.
func pageInfo(from, total int) (page, pages int) {
	pages = (total + PageSize - 1) / PageSize
	page = from/PageSize + 1
	if pages == 0 {
		page = 0
	}
	return page, pages
}
