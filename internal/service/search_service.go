package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/user/streamfinder/internal/model"
	"github.com/user/streamfinder/internal/utils"
	"golang.org/x/sync/singleflight"
)

// 提示文案
const (
	AdvisoryDemoData      = "Using demo data - API key may need subscription to Streaming Availability API"
	AdvisoryDemoDataError = "Using demo data - Please check your RapidAPI subscription for Streaming Availability API"
	AdvisoryNoResults     = "No results found in demo data"
)

// FallbackReason 走演示数据的原因
type FallbackReason string

const (
	ReasonUnauthorized   FallbackReason = "unauthorized"    // 缺少 key 或 401/403
	ReasonUpstreamStatus FallbackReason = "upstream_status" // 其它非 2xx
	ReasonEmpty          FallbackReason = "empty"           // 2xx 但 shows 为空
	ReasonTransport      FallbackReason = "transport"       // 网络、超时、解析失败
)

// ResolutionError 调用方传参错误，Resolve 唯一会返回的错误
type ResolutionError struct {
	Query string
	Page  int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("invalid search request: query=%q page=%d (page must be >= 1)", e.Query, e.Page)
}

// outcome 远程搜索结果：Primary(list) 或 Fallback(reason)，二者互斥
type outcome struct {
	source model.Source
	movies []model.Movie
	reason FallbackReason
}

func primary(movies []model.Movie) outcome {
	return outcome{source: model.SourcePrimary, movies: movies}
}

func fallback(reason FallbackReason) outcome {
	return outcome{source: model.SourceFallback, reason: reason}
}

// SearchService 搜索服务
// 无状态，可并发调用；singleflight 只合并同一时刻的相同请求，不保留结果
type SearchService struct {
	client   StreamingClient
	catalog  *DemoCatalog
	pageSize int
	sf       singleflight.Group
}

// NewSearchService 创建搜索服务
func NewSearchService(client StreamingClient, catalog *DemoCatalog) *SearchService {
	if catalog == nil {
		catalog = NewDemoCatalog()
	}
	return &SearchService{
		client:   client,
		catalog:  catalog,
		pageSize: utils.PageSize,
	}
}

// Resolve 搜索并分页
// 1. 空查询直接返回空结果，不发请求
// 2. 远程搜索成功且非空则使用远程结果
// 3. 否则在演示数据中按标题/类型过滤
// 4. 统一按评分降序（稳定排序）后分页
func (s *SearchService) Resolve(ctx context.Context, query string, page int) (*model.SearchResult, error) {
	keyword := strings.TrimSpace(query)
	if keyword == "" {
		if page < 1 {
			page = 1
		}
		return &model.SearchResult{Items: []model.Movie{}, Page: page, TotalPages: 1}, nil
	}
	if page < 1 {
		return nil, &ResolutionError{Query: query, Page: page}
	}

	out := s.fetchPrimary(ctx, keyword)

	movies := out.movies
	var advisory string
	if out.source == model.SourceFallback {
		movies = s.catalog.Match(keyword)
		advisory = advisoryFor(out.reason, len(movies))
		log.Printf("[SearchService] 使用演示数据: %s, 原因: %s, 命中 %d 条", keyword, out.reason, len(movies))
	}

	sorted := SortByRating(movies)
	return &model.SearchResult{
		Items:      utils.Paginate(sorted, page, s.pageSize),
		Page:       page,
		TotalPages: utils.TotalPages(len(sorted), s.pageSize),
		TotalCount: len(sorted),
		Source:     out.source,
		Advisory:   advisory,
	}, nil
}

// fetchPrimary 请求远程接口，所有失败都转为 Fallback
func (s *SearchService) fetchPrimary(ctx context.Context, keyword string) outcome {
	if s.client == nil {
		return fallback(ReasonUnauthorized)
	}

	// 使用 singleflight 避免并发请求同一个词
	// 共享调用不继承发起者的取消，每个调用方只在下面的 select 里响应自己的 ctx；
	// 上游耗时由 HTTP 客户端超时限制
	// DoChan 中的 panic 会在新 goroutine 里重新抛出，必须在这里兜住
	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(keyword, func() (val interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("streaming client panic: %v", r)
			}
		}()
		return s.client.Search(shared, keyword)
	})

	var (
		val interface{}
		err error
	)
	select {
	case res := <-ch:
		val, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		reason := classify(err)
		log.Printf("[SearchService] 远程搜索失败: %s: %v", keyword, err)
		return fallback(reason)
	}

	movies, _ := val.([]model.Movie)
	if len(movies) == 0 {
		return fallback(ReasonEmpty)
	}
	return primary(movies)
}

// classify 错误归类
func classify(err error) FallbackReason {
	if errors.Is(err, ErrMissingAPIKey) {
		return ReasonUnauthorized
	}
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Unauthorized() {
			return ReasonUnauthorized
		}
		return ReasonUpstreamStatus
	}
	return ReasonTransport
}

// advisoryFor 演示数据提示文案
func advisoryFor(reason FallbackReason, matched int) string {
	if matched == 0 {
		return AdvisoryNoResults
	}
	if reason == ReasonTransport {
		return AdvisoryDemoDataError
	}
	return AdvisoryDemoData
}

// SortByRating 按评分降序稳定排序，缺失评分视为 0；返回新切片
func SortByRating(movies []model.Movie) []model.Movie {
	sorted := make([]model.Movie, len(movies))
	copy(sorted, movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})
	return sorted
}
