package model

import (
	"time"
)

// SearchLog 搜索日志
type SearchLog struct {
	ID        int       `json:"id" db:"id" gorm:"primaryKey"`
	Keyword   string    `json:"keyword" db:"keyword" gorm:"index"`
	Source    Source    `json:"source" db:"source"`
	IPHash    string    `json:"ip_hash" db:"ip_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"index"`
}

// TrendingKeyword 热搜关键词
type TrendingKeyword struct {
	Keyword        string    `json:"keyword" db:"keyword" gorm:"primaryKey"`
	Count          int       `json:"count" db:"count"`
	LastSearchedAt time.Time `json:"last_searched_at" db:"last_searched_at"`
}
