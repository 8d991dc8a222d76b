package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/streamfinder/internal/model"
	"github.com/user/streamfinder/internal/utils"
)

func TestSearchLogRepository_GetTrendingUsesCache(t *testing.T) {
	utils.InitCache()
	want := []*model.TrendingKeyword{
		{Keyword: "dune", Count: 12, LastSearchedAt: time.Now()},
		{Keyword: "heat", Count: 3, LastSearchedAt: time.Now()},
	}
	utils.CacheSet("trending:24:10", want, time.Minute)

	// 命中缓存时不会访问数据库
	repo := NewSearchLogRepository(nil)
	got, err := repo.GetTrending(24, 10)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCountsTowardTrending(t *testing.T) {
	assert.True(t, countsTowardTrending(model.SourcePrimary))
	assert.False(t, countsTowardTrending(model.SourceFallback))
	assert.False(t, countsTowardTrending(""))
}

func TestSearchLogRepository_RetentionCutoff(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	repo := NewSearchLogRepository(nil)
	repo.now = func() time.Time { return now }

	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), repo.retentionCutoff(30))
}

func TestRepositories_CloseWithoutDB(t *testing.T) {
	var repos *Repositories
	assert.NoError(t, repos.Close())
	assert.NoError(t, NewRepositories(nil).Close())
}
