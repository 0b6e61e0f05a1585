package inventory

import "math"

// maxOffset límite del OFFSET que se envía a la base.
const maxOffset = math.MaxInt32

// Pagination tamaños de página permitidos.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPagination valores usados si no se configura nada.
var DefaultPagination = Pagination{DefaultSize: 20, MaxSize: 100}

// Page resultado paginado. Total se calcula con el mismo filtro que Rows.
type Page[T any] struct {
	Rows      []T
	Total     int
	Page      int
	PageSize  int
	PageCount int
}

// normalize aplica valores por defecto y límites; devuelve page, pageSize y offset.
func (p Pagination) normalize(page, pageSize int) (int, int, int) {
	if p.DefaultSize <= 0 {
		p = DefaultPagination
	}
	if p.MaxSize < p.DefaultSize {
		p.MaxSize = p.DefaultSize
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = p.DefaultSize
	}
	if pageSize > p.MaxSize {
		pageSize = p.MaxSize
	}
	if page > maxOffset/pageSize+1 {
		page = maxOffset/pageSize + 1
	}
	return page, pageSize, (page - 1) * pageSize
}

func pageCount(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
