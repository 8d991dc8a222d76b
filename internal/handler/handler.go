package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/streamfinder/internal/config"
	"github.com/user/streamfinder/internal/middleware"
	"github.com/user/streamfinder/internal/model"
	"github.com/user/streamfinder/internal/service"
	"github.com/user/streamfinder/internal/utils"
	"github.com/user/streamfinder/internal/view"
)

// 展示给用户的提示
const (
	advisoryInvalidRequest = "Invalid search request"
	advisoryCancelled      = "Search was cancelled"
)

// SearchLogger 搜索日志，未配置数据库时为 nil
type SearchLogger interface {
	Log(keyword string, source model.Source, ipHash string) error
	GetTrending(hours, limit int) ([]*model.TrendingKeyword, error)
}

// Handler HTTP 处理器
type Handler struct {
	Config        *config.Config
	SearchService *service.SearchService
	Views         *view.Store
	SearchLog     SearchLogger
}

// NewHandler 创建处理器
// searchLog 传 nil 表示不记录搜索日志
func NewHandler(cfg *config.Config, search *service.SearchService, views *view.Store, searchLog SearchLogger) *Handler {
	return &Handler{
		Config:        cfg,
		SearchService: search,
		Views:         views,
		SearchLog:     searchLog,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
		"Country":  h.Config.Streaming.Country,
	}
	for k, v := range data {
		res[k] = v
	}
	return res
}

// viewData 结果区域的渲染数据
func (h *Handler) viewData(c *gin.Context, s view.State) gin.H {
	return h.RenderData(c, gin.H{
		"State": s,
		"Pager": view.NewPager(s),
	})
}

// controller 当前访客的页面状态
func (h *Handler) controller(c *gin.Context) *view.Controller {
	id := middleware.GetVisitorID(c)
	if id == "" {
		id = "ip:" + c.ClientIP()
	}
	return h.Views.Get(id)
}

// resolve 执行 Ticket 对应的搜索并写回状态
// 返回 false 表示期间已有更新的请求，结果被丢弃
func (h *Handler) resolve(c *gin.Context, ctrl *view.Controller, t view.Ticket) bool {
	res, err := h.SearchService.Resolve(c.Request.Context(), t.Query, t.Page)
	if err != nil {
		var resErr *service.ResolutionError
		if !errors.As(err, &resErr) {
			log.Printf("[Search] 搜索失败: %v", err)
		}
		return ctrl.Fail(t, advisoryInvalidRequest)
	}

	// 客户端已断开时结果只是演示数据兜底，不能当作可见状态
	if c.Request.Context().Err() != nil {
		log.Printf("[Search] 请求已取消: q=%q page=%d", t.Query, t.Page)
		return ctrl.Fail(t, advisoryCancelled)
	}

	applied := ctrl.Complete(t, res)
	if !applied {
		log.Printf("[Search] 丢弃过期结果: q=%q page=%d seq=%d", t.Query, t.Page, t.Seq)
	}
	h.logSearch(c, t.Query, res)
	return applied
}

// logSearch 有结果时异步记录搜索日志
func (h *Handler) logSearch(c *gin.Context, keyword string, res *model.SearchResult) {
	if h.SearchLog == nil || res == nil || res.TotalCount == 0 || res.Page != 1 {
		return
	}
	ipHash := utils.HashIP(c.ClientIP())
	go func(kw string, source model.Source, ip string) {
		if err := h.SearchLog.Log(kw, source, ip); err != nil {
			log.Printf("[Search] 记录搜索日志失败: %v", err)
		}
	}(keyword, res.Source, ipHash)
}

// trending 热搜关键词，未启用或出错时为空
func (h *Handler) trending() []*model.TrendingKeyword {
	if h.SearchLog == nil {
		return nil
	}
	keywords, err := h.SearchLog.GetTrending(24, 10)
	if err != nil {
		log.Printf("[Home] 获取热搜失败: %v", err)
		return nil
	}
	return keywords
}

// ==================== 页面 ====================

// Home 首页
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title":    h.Config.SiteName + " - Find where to stream movies",
		"Trending": h.trending(),
	}))
}

// Search 搜索结果页（直接访问或刷新）
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.HTML(http.StatusBadRequest, "search.html", h.RenderData(c, gin.H{
			"Title":    "Search - " + h.Config.SiteName,
			"Advisory": advisoryInvalidRequest,
		}))
		return
	}
	if req.keyword() == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ctrl := h.controller(c)
	t := ctrl.Navigate(req.keyword(), req.Page)
	h.resolve(c, ctrl, t)

	data := h.viewData(c, ctrl.Snapshot())
	data["Title"] = req.keyword() + " - " + h.Config.SiteName
	c.HTML(http.StatusOK, "search.html", data)
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": "Page not found - " + h.Config.SiteName,
	}))
}

// ==================== htmx 片段 ====================

// SearchHTMX 提交新搜索，页码重置为 1
func (h *Handler) SearchHTMX(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.renderResults(c, h.controller(c).Snapshot())
		return
	}

	ctrl := h.controller(c)
	t := ctrl.Submit(req.keyword())
	h.resolve(c, ctrl, t)

	// 不论本次结果是否被采用，都渲染最新状态
	h.renderResults(c, ctrl.Snapshot())
}

// PageHTMX 当前查询翻页，越界时保持原状态
func (h *Handler) PageHTMX(c *gin.Context) {
	ctrl := h.controller(c)

	var req pageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.renderResults(c, ctrl.Snapshot())
		return
	}

	t, err := ctrl.ChangePage(req.Page)
	if err != nil {
		log.Printf("[PageHTMX] 拒绝翻页 page=%d: %v", req.Page, err)
		h.renderResults(c, ctrl.Snapshot())
		return
	}

	h.resolve(c, ctrl, t)
	h.renderResults(c, ctrl.Snapshot())
}

// StateHTMX 当前状态（加载中时轮询）
func (h *Handler) StateHTMX(c *gin.Context) {
	h.renderResults(c, h.controller(c).Snapshot())
}

func (h *Handler) renderResults(c *gin.Context, s view.State) {
	c.HTML(http.StatusOK, "fragments/results.html", h.viewData(c, s))
}

// ==================== JSON API ====================

// APISearch 无状态搜索接口
func (h *Handler) APISearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, bindingMessage(err))
		return
	}

	res, err := h.SearchService.Resolve(c.Request.Context(), req.keyword(), req.Page)
	if err != nil {
		var resErr *service.ResolutionError
		if errors.As(err, &resErr) {
			utils.BadRequest(c, resErr.Error())
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	h.logSearch(c, req.keyword(), res)
	utils.Success(c, res)
}

// APITrending 热搜关键词
func (h *Handler) APITrending(c *gin.Context) {
	if h.SearchLog == nil {
		utils.Success(c, []*model.TrendingKeyword{})
		return
	}
	keywords, err := h.SearchLog.GetTrending(24, 10)
	if err != nil {
		log.Printf("[APITrending] 获取热搜失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	if keywords == nil {
		keywords = []*model.TrendingKeyword{}
	}
	utils.Success(c, keywords)
}
