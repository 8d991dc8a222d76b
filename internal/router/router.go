package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/streamfinder/internal/handler"
	"github.com/user/streamfinder/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 公开页面 ====================
	r.GET("/", h.Home)
	r.GET("/search", h.Search)

	// ==================== htmx 片段 ====================
	htmx := r.Group("/htmx")
	{
		htmx.GET("/search", h.SearchHTMX)
		htmx.GET("/page", h.PageHTMX)
		htmx.GET("/state", h.StateHTMX)
	}

	// ==================== JSON API ====================
	api := r.Group("/api")
	api.Use(middleware.CORS())
	{
		api.GET("/search", h.APISearch)
		api.GET("/trending", h.APITrending)
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	r.NoRoute(h.NotFound)
}

// 页面模板，对应 pages/<name>.html
var pages = []string{"home", "search", "404"}

// 片段模板，对应 fragments/<name>.html，供 htmx 局部替换
var fragments = []string{"results"}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}
	if len(layouts) == 0 {
		panic(fmt.Sprintf("no layout templates in %s", templatesDir))
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表，第一个文件是入口
	assemble := func(entry string, rest ...[]string) []string {
		files := []string{entry}
		for _, group := range rest {
			files = append(files, group...)
		}
		return files
	}

	funcMap := FuncMap()

	// 页面：入口是布局
	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(layouts[0], layouts[1:], partials, []string{viewPath})...)
	}

	// 片段：入口是片段文件本身，不套布局
	for _, frag := range fragments {
		fragPath := templatesDir + "/fragments/" + frag + ".html"
		r.AddFromFilesFuncs("fragments/"+frag+".html", funcMap, assemble(fragPath, partials)...)
	}

	return r
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		// truncate 按字符截断，超出部分以 ... 结尾
		"truncate": func(n int, s string) string {
			if utf8.RuneCountInString(s) <= n {
				return s
			}
			runes := []rune(s)
			return strings.TrimSpace(string(runes[:n])) + "..."
		},
	}
}
