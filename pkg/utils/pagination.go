package utils

import "math"

// Pagination 分页请求参数
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// PageResult 分页响应结果
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// GetPageOffset 计算分页偏移量，页码过大时偏移量封顶为 math.MaxInt
func (p *Pagination) GetPageOffset() (int, int) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt, p.Limit
	}
	return (p.Page - 1) * p.Limit, p.Limit
}

// Paginate 对内存中的切片分页，越界时返回空列表
func Paginate[T any](items []T, p Pagination) PageResult {
	offset, limit := p.GetPageOffset()

	page := []T{}
	if offset >= 0 && offset < len(items) {
		end := min(offset+limit, len(items))
		page = items[offset:end]
	}

	return PageResult{
		List:  page,
		Total: int64(len(items)),
		Page:  p.Page,
		Limit: p.Limit,
	}
}
