package service

import (
	"context"
	"log"
	"time"
)

// logCleaner 搜索日志清理
type logCleaner interface {
	DeleteOldLogs(days int) (int64, error)
	DeleteOldKeywords(days int) (int64, error)
}

// sessionPurger 空闲会话清理
type sessionPurger interface {
	Purge() int
}

// CleanupService 清理服务
type CleanupService struct {
	logs            logCleaner // 可为 nil（未启用搜索日志）
	sessions        sessionPurger
	retentionDays   int
	logInterval     time.Duration
	sessionInterval time.Duration
}

// NewCleanupService 创建清理服务
func NewCleanupService(logs logCleaner, sessions sessionPurger) *CleanupService {
	return &CleanupService{
		logs:            logs,
		sessions:        sessions,
		retentionDays:   30,
		logInterval:     24 * time.Hour,
		sessionInterval: 10 * time.Minute,
	}
}

// Start 启动定时清理任务，ctx 取消后退出
func (s *CleanupService) Start(ctx context.Context) {
	logTicker := time.NewTicker(s.logInterval)
	sessionTicker := time.NewTicker(s.sessionInterval)

	// 启动时先运行一次
	go s.cleanLogs()

	go func() {
		defer logTicker.Stop()
		defer sessionTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-logTicker.C:
				s.cleanLogs()
			case <-sessionTicker.C:
				s.purgeSessions()
			}
		}
	}()
}

func (s *CleanupService) cleanLogs() {
	if s.logs == nil {
		return
	}
	log.Println("[CleanupService] 开始清理过期搜索日志...")

	affected, err := s.logs.DeleteOldLogs(s.retentionDays)
	if err != nil {
		log.Printf("[CleanupService] 清理搜索日志失败: %v", err)
	} else {
		log.Printf("[CleanupService] 已清理 %d 条过期搜索日志", affected)
	}

	cleanedKeywords, err := s.logs.DeleteOldKeywords(s.retentionDays)
	if err != nil {
		log.Printf("[CleanupService] 清理旧热搜关键词失败: %v", err)
	} else if cleanedKeywords > 0 {
		log.Printf("[CleanupService] 已清理 %d 条超过 %d 天未搜索的热搜关键词", cleanedKeywords, s.retentionDays)
	}
}

func (s *CleanupService) purgeSessions() {
	if s.sessions == nil {
		return
	}
	if n := s.sessions.Purge(); n > 0 {
		log.Printf("[CleanupService] 已清理 %d 个空闲会话", n)
	}
}
