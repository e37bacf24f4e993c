package models

// PaginationQuery carries pagination parameters for list endpoints
type PaginationQuery struct {
	PageNum  int  `form:"pageNum" json:"pageNum"`
	PageSize int  `form:"pageSize" json:"pageSize"`
	Desc     bool `form:"desc" json:"desc"`
}

// PaginationResult describes one page of a listing
type PaginationResult struct {
	Total    int `form:"total" json:"total"`
	PageNum  int `form:"pageNum" json:"pageNum"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// NewPaginationResult creates a new pagination result object
func NewPaginationResult(total, pageNum, pageSize int) PaginationResult {
	return PaginationResult{
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
	}
}

// Normalize applies defaults for missing pagination parameters
func (q *PaginationQuery) Normalize() {
	if q.PageNum < 1 {
		q.PageNum = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}
