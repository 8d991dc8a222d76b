package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Movie 影片（Streaming Availability show 结构的子集）
// 构造后不再修改，排序/分页只操作切片副本
type Movie struct {
	ID               string                      `json:"id"`
	Title            string                      `json:"title"`
	Overview         string                      `json:"overview,omitempty"`
	ReleaseYear      *int                        `json:"releaseYear,omitempty"`
	Runtime          *int                        `json:"runtime,omitempty"` // 分钟
	Rating           *float64                    `json:"rating,omitempty"`  // 0-10
	Genres           []Genre                     `json:"genres,omitempty"`
	ImageSet         *ImageSet                   `json:"imageSet,omitempty"`
	StreamingOptions map[string][]StreamingOffer `json:"streamingOptions,omitempty"`
}

// Genre 类型
type Genre struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
}

// ImageSet 海报集合，按宽度分档（w240/w360/w480/w600/w720）
type ImageSet struct {
	VerticalPoster map[string]string `json:"verticalPoster,omitempty"`
}

// StreamingOffer 播放渠道
type StreamingOffer struct {
	Service StreamingService `json:"service"`
	Type    string           `json:"type"` // subscription/rent/buy/free/addon...
	Link    string           `json:"link"`
}

// StreamingService 流媒体服务
type StreamingService struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Score 排序用评分，缺失视为 0
func (m Movie) Score() float64 {
	if m.Rating == nil {
		return 0
	}
	return *m.Rating
}

// HasRating 是否带评分
func (m Movie) HasRating() bool {
	return m.Rating != nil && *m.Rating > 0
}

// RatingText 评分保留一位小数
func (m Movie) RatingText() string {
	return fmt.Sprintf("%.1f", m.Score())
}

// Year 上映年份，缺失为 0
func (m Movie) Year() int {
	if m.ReleaseYear == nil {
		return 0
	}
	return *m.ReleaseYear
}

// Minutes 片长，缺失为 0
func (m Movie) Minutes() int {
	if m.Runtime == nil {
		return 0
	}
	return *m.Runtime
}

// Poster 按宽度取海报，缺失返回空串
func (m Movie) Poster(width string) string {
	if m.ImageSet == nil {
		return ""
	}
	return m.ImageSet.VerticalPoster[width]
}

// Offers 返回某国家前 limit 个播放渠道
func (m Movie) Offers(country string, limit int) []StreamingOffer {
	offers := m.StreamingOptions[strings.ToLower(country)]
	if limit > 0 && len(offers) > limit {
		offers = offers[:limit]
	}
	return offers
}

// Matches 标题或任一类型名包含 query（忽略大小写）
func (m Movie) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(m.Title), q) {
		return true
	}
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g.Name), q) {
			return true
		}
	}
	return false
}

// FlexString 兼容 JSON 数字与字符串的 ID
type FlexString string

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexString(toString(v))
	return nil
}

// toString 将任意类型转换为string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// JSON数字默认解析为float64
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
