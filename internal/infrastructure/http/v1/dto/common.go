// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"mngconsole/internal/domain"
)

// ListQuery holds the grid paging parameters sent by the console.
type ListQuery struct {
	Current   int    `form:"current" binding:"omitempty,min=1"`
	RowCount  int    `form:"rowCount" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	OrderBy   string `form:"orderBy"`
	ParentSeq *int64 `form:"parentSeq" binding:"omitempty,min=1"`
}

// ToFilter converts the query into a normalized domain filter.
func (q ListQuery) ToFilter() domain.ListFilter {
	return domain.ListFilter{
		Current:   q.Current,
		RowCount:  q.RowCount,
		Search:    q.Search,
		OrderBy:   q.OrderBy,
		ParentSeq: q.ParentSeq,
	}.Normalize()
}

// CountResponse wraps a bare count.
type CountResponse struct {
	Count int64 `json:"count"`
}
