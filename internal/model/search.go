package model

// Source 结果来源
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// SearchResult 单页搜索结果（派生数据，不持久化）
type SearchResult struct {
	Items      []Movie `json:"items"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	TotalCount int     `json:"total_count"`
	Source     Source  `json:"source"`
	Advisory   string  `json:"advisory,omitempty"`
}

// SourceIsFallback 是否来自演示数据
func (r *SearchResult) SourceIsFallback() bool {
	return r != nil && r.Source == SourceFallback
}
