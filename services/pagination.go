package services

import (
	"strconv"
	"strings"
)

const PageSize = 10

type Page struct {
	Number   int
	NumPages int
	Size     int
	Total    int64
}

// Paginate resolves the raw ?page= value against total items. Bad or
// out-of-range values clamp to the nearest valid page; "last" selects the
// final page. An empty result still has one (empty) page.
func Paginate(total int64, pageParam string, size int) Page {
	if size < 1 {
		size = PageSize
	}
	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}

	number := 1
	switch p := strings.TrimSpace(pageParam); {
	case p == "last":
		number = numPages
	default:
		if n, err := strconv.Atoi(p); err == nil {
			number = n
		}
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Page{Number: number, NumPages: numPages, Size: size, Total: total}
}

func (p Page) Offset() int       { return (p.Number - 1) * p.Size }
func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) HasPrevious() bool { return p.Number > 1 }
