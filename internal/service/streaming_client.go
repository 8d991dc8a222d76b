package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/user/streamfinder/internal/config"
	"github.com/user/streamfinder/internal/model"
	"github.com/user/streamfinder/internal/utils"
)

// ErrMissingAPIKey 未配置 API Key，不发请求
var ErrMissingAPIKey = errors.New("streaming api key not configured")

// StreamingClient Streaming Availability 搜索接口
// 只负责单次请求，不做重试与缓存
type StreamingClient interface {
	Search(ctx context.Context, keyword string) ([]model.Movie, error)
}

// RapidAPIClient 通过 RapidAPI 访问 Streaming Availability
type RapidAPIClient struct {
	http    *utils.HTTPClient
	baseURL string
	host    string
	apiKey  string
	country string
}

// NewRapidAPIClient 创建客户端
func NewRapidAPIClient(cfg config.StreamingConfig) *RapidAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	country := cfg.Country
	if country == "" {
		country = "us"
	}
	return &RapidAPIClient{
		http:    utils.NewHTTPClient(timeout),
		baseURL: cfg.BaseURL,
		host:    cfg.Host,
		apiKey:  cfg.APIKey,
		country: country,
	}
}

// showsResponse /shows/search/filters 响应
type showsResponse struct {
	Shows      []model.Movie `json:"shows"`
	HasMore    bool          `json:"hasMore"`
	NextCursor string        `json:"nextCursor"`
}

// SearchURL 构建搜索URL，过滤条件固定
func (c *RapidAPIClient) SearchURL(keyword string) string {
	q := url.Values{}
	q.Set("country", c.country)
	q.Set("series_granularity", "show")
	q.Set("order_direction", "asc")
	q.Set("order_by", "original_title")
	q.Set("genres_relation", "and")
	q.Set("output_language", "en")
	q.Set("show_type", "movie")
	q.Set("keyword", keyword)
	return c.baseURL + "/shows/search/filters?" + q.Encode()
}

// Search 关键词搜索电影
func (c *RapidAPIClient) Search(ctx context.Context, keyword string) ([]model.Movie, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	headers := map[string]string{
		"X-RapidAPI-Key":  c.apiKey,
		"X-RapidAPI-Host": c.host,
	}

	var resp showsResponse
	if err := c.http.GetJSON(ctx, c.SearchURL(keyword), headers, &resp); err != nil {
		return nil, fmt.Errorf("streaming search %q: %w", keyword, err)
	}
	return resp.Shows, nil
}
