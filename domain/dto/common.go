package dto

import "github.com/google/uuid"

type PaginationMeta struct {
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

type IDRequest struct {
	ID uuid.UUID `json:"id" validate:"required" param:"id"`
}

// ListRequest pagination query params มาตรฐาน
type ListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize clamp ค่า page/limit ให้อยู่ในช่วงที่ใช้ได้
func (r *ListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// Offset คำนวณ offset จาก page/limit
func (r *ListRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}
