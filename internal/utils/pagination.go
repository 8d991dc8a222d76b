package utils

// PageSize 每页条数
const PageSize = 12

// TotalPages 总页数，至少为 1
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate 取第 page 页（从 1 开始），越界返回空切片
// 返回的是新切片，不与 items 共享底层数组
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
