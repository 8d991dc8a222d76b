package view

import (
	"errors"
	"sync"

	"github.com/user/streamfinder/internal/model"
)

var (
	// ErrNoQuery 没有查询时不能翻页
	ErrNoQuery = errors.New("no active query")
	// ErrPageOutOfRange 页码不在 [1, TotalPages]
	ErrPageOutOfRange = errors.New("page out of range")
)

// Controller 持有一个页面的 State，并发安全
type Controller struct {
	mu    sync.Mutex
	state State
}

// NewController 创建控制器
func NewController() *Controller {
	return &Controller{state: State{Page: 1}}
}

// Submit 新搜索，页码重置为 1
func (c *Controller) Submit(query string) Ticket {
	return c.begin(query, 1)
}

// Navigate 直接访问某页（例如链接或刷新），不检查页码范围
func (c *Controller) Navigate(query string, page int) Ticket {
	return c.begin(query, page)
}

// ChangePage 翻页，沿用当前查询；越界时拒绝
func (c *Controller) ChangePage(page int) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.HasQuery() {
		return Ticket{}, ErrNoQuery
	}
	if page < 1 || page > c.state.TotalPages() {
		return Ticket{}, ErrPageOutOfRange
	}
	var t Ticket
	c.state, t = Begin(c.state, c.state.Query, page)
	return t, nil
}

func (c *Controller) begin(query string, page int) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	var t Ticket
	c.state, t = Begin(c.state, query, page)
	return t
}

// Complete 写入结果，过期的 Ticket 返回 false
func (c *Controller) Complete(t Ticket, result *model.SearchResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var applied bool
	c.state, applied = Reconcile(c.state, t, result)
	return applied
}

// Fail 以提示文案结束一次请求
func (c *Controller) Fail(t Ticket, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var applied bool
	c.state, applied = Fail(c.state, t, message)
	return applied
}

// Snapshot 当前状态副本
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
