package view

import (
	"time"

	"github.com/user/streamfinder/internal/utils"
)

// Store 按访客会话保存 Controller，超出容量或空闲超时后丢弃
type Store struct {
	controllers *utils.TTLCache[*Controller]
}

// NewStore 创建状态存储
func NewStore(size int, idle time.Duration) *Store {
	return &Store{controllers: utils.NewTTLCache[*Controller](size, idle)}
}

// Get 获取会话的 Controller，不存在则新建
func (s *Store) Get(sessionID string) *Controller {
	return s.controllers.GetOrCreate(sessionID, NewController)
}

// Purge 清理空闲会话
func (s *Store) Purge() int {
	return s.controllers.Purge()
}

// Len 当前会话数
func (s *Store) Len() int {
	return s.controllers.Len()
}
