package repository

import (
	"fmt"
	"time"

	"github.com/user/streamfinder/internal/model"
	"github.com/user/streamfinder/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// trendingTTL 热搜缓存时间
const trendingTTL = 5 * time.Minute

// SearchLogRepository 搜索日志与热搜统计
type SearchLogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSearchLogRepository(db *gorm.DB) *SearchLogRepository {
	return &SearchLogRepository{db: db, now: time.Now}
}

// countsTowardTrending 只有真实接口的结果计入热搜，演示数据命中不计
func countsTowardTrending(source model.Source) bool {
	return source == model.SourcePrimary
}

// Log 记录一次搜索；原始日志保留来源，热搜表只累计真实结果
func (r *SearchLogRepository) Log(keyword string, source model.Source, ipHash string) error {
	now := r.now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		entry := &model.SearchLog{
			Keyword:   keyword,
			Source:    source,
			IPHash:    ipHash,
			CreatedAt: now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("写入搜索日志失败: %w", err)
		}
		if !countsTowardTrending(source) {
			return nil
		}

		updates := clause.Assignments(map[string]interface{}{
			"count":            gorm.Expr("trending_keywords.count + 1"),
			"last_searched_at": now,
		})
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "keyword"}},
			DoUpdates: updates,
		}).Create(&model.TrendingKeyword{Keyword: keyword, Count: 1, LastSearchedAt: now}).Error
	})
}

// GetTrending 热搜关键词
// hours > 0 时从最近 hours 小时的真实搜索实时统计，否则读累计表
func (r *SearchLogRepository) GetTrending(hours, limit int) ([]*model.TrendingKeyword, error) {
	cacheKey := fmt.Sprintf("trending:%d:%d", hours, limit)
	if cached, found := utils.CacheGet(cacheKey); found {
		if keywords, ok := cached.([]*model.TrendingKeyword); ok {
			return keywords, nil
		}
	}

	var keywords []*model.TrendingKeyword
	var err error
	if hours > 0 {
		since := r.now().Add(-time.Duration(hours) * time.Hour)
		err = r.db.Model(&model.SearchLog{}).
			Select("keyword, COUNT(*) AS count, MAX(created_at) AS last_searched_at").
			Where("created_at > ? AND source = ?", since, model.SourcePrimary).
			Group("keyword").
			Order("count DESC").
			Limit(limit).
			Scan(&keywords).Error
	} else {
		err = r.db.Model(&model.TrendingKeyword{}).
			Order("count DESC").
			Limit(limit).
			Find(&keywords).Error
	}
	if err != nil {
		return nil, err
	}

	utils.CacheSet(cacheKey, keywords, trendingTTL)
	return keywords, nil
}

// retentionCutoff 保留 days 天时的截止时间
func (r *SearchLogRepository) retentionCutoff(days int) time.Time {
	return r.now().AddDate(0, 0, -days)
}

// DeleteOldKeywords 清理超过 days 天未搜索的关键词
func (r *SearchLogRepository) DeleteOldKeywords(days int) (int64, error) {
	result := r.db.Where("last_searched_at < ?", r.retentionCutoff(days)).Delete(&model.TrendingKeyword{})
	return result.RowsAffected, result.Error
}

// DeleteOldLogs 清理超过 days 天的原始搜索日志
func (r *SearchLogRepository) DeleteOldLogs(days int) (int64, error) {
	result := r.db.Where("created_at < ?", r.retentionCutoff(days)).Delete(&model.SearchLog{})
	return result.RowsAffected, result.Error
}
