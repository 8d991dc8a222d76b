package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/streamfinder/internal/config"
	"github.com/user/streamfinder/internal/handler"
	"github.com/user/streamfinder/internal/middleware"
	"github.com/user/streamfinder/internal/repository"
	"github.com/user/streamfinder/internal/router"
	"github.com/user/streamfinder/internal/service"
	"github.com/user/streamfinder/internal/utils"
	"github.com/user/streamfinder/internal/view"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// 加载配置（含 .env）
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 日志文件
	if cfg.Log.File != "" {
		logFile := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}
		defer logFile.Close()
		out := io.MultiWriter(os.Stdout, logFile)
		log.SetOutput(out)
		gin.DefaultWriter = out
		gin.DefaultErrorWriter = out
	}

	// 错误上报
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			AttachStacktrace: true,
		}); err != nil {
			log.Printf("Sentry 初始化失败: %v", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	// 初始化缓存
	utils.InitCache()

	// 搜索日志（可选）
	var repos *repository.Repositories
	var searchLog handler.SearchLogger
	if cfg.SearchLogEnabled() {
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("数据库连接失败: %v", err)
		}
		repos = repository.NewRepositories(db)
		defer repos.Close()
		searchLog = repos.SearchLog
	} else {
		log.Println("未配置 DATABASE_URL，不记录搜索日志")
	}

	// 搜索服务与页面状态
	client := service.NewRapidAPIClient(cfg.Streaming)
	searchSvc := service.NewSearchService(client, nil)
	views := view.NewStore(10000, 30*time.Minute)

	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("注册参数校验失败: %v", err)
	}

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	if sentryEnabled {
		r.Use(middleware.Sentry())
	}

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("streamfinder", store))
	r.Use(middleware.Visitor())

	// 加载模板（使用 multitemplate 解决继承问题）
	r.HTMLRender = router.LoadTemplates("./web/templates")

	// 静态文件
	r.Static("/static", "./web/static")

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())

	h := handler.NewHandler(cfg, searchSvc, views, searchLog)

	// 启动定时清理任务
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if repos != nil {
		service.NewCleanupService(repos.SearchLog, views).Start(ctx)
	} else {
		service.NewCleanupService(nil, views).Start(ctx)
	}

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.Streaming.Timeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")
	stop()

	// 5 秒超时上下文用于关闭过程
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
