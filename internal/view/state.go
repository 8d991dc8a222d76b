// Package view 搜索页面的状态模型
//
// 每次发起搜索（提交或翻页）都会领取一个递增序号的 Ticket，
// 结果只有在其序号等于最近一次发出的序号时才会写入状态：
// 按发出顺序而不是完成顺序决定胜者，慢的旧请求不会覆盖新结果。
package view

import (
	"strings"

	"github.com/user/streamfinder/internal/model"
)

// State 单个页面实例的状态
type State struct {
	Query    string
	Page     int
	Result   *model.SearchResult
	Loading  bool   // 发出请求到结果写入之间为 true
	Advisory string // 来自结果的提示文案
	Issued   uint64 // 最近发出的序号
	Applied  uint64 // 最近写入的序号
}

// Ticket 一次已发出的搜索
type Ticket struct {
	Seq   uint64
	Query string
	Page  int
}

// TotalPages 当前结果总页数，无结果时为 1
func (s State) TotalPages() int {
	if s.Result == nil || s.Result.TotalPages < 1 {
		return 1
	}
	return s.Result.TotalPages
}

// HasQuery 是否已有查询
func (s State) HasQuery() bool {
	return strings.TrimSpace(s.Query) != ""
}

// Begin 发出一次搜索，返回新状态与 Ticket
func Begin(s State, query string, page int) (State, Ticket) {
	if page < 1 {
		page = 1
	}
	s.Issued++
	s.Query = query
	s.Page = page
	s.Loading = true
	return s, Ticket{Seq: s.Issued, Query: query, Page: page}
}

// Reconcile 写入结果；Ticket 不是最近发出的则丢弃，返回 false
func Reconcile(s State, t Ticket, result *model.SearchResult) (State, bool) {
	if t.Seq != s.Issued {
		return s, false
	}
	s.Result = result
	s.Applied = t.Seq
	s.Loading = false
	s.Advisory = ""
	if result != nil {
		s.Advisory = result.Advisory
	}
	return s, true
}

// Fail 请求本身出错（参数错误）时结束加载；同样遵守序号规则
func Fail(s State, t Ticket, message string) (State, bool) {
	if t.Seq != s.Issued {
		return s, false
	}
	s.Applied = t.Seq
	s.Loading = false
	s.Advisory = message
	return s, true
}
