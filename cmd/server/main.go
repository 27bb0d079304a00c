package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/internal/api/handler"
	"github.com/anubclao/Edueat/internal/api/router"
	"github.com/anubclao/Edueat/internal/repository"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/ai"
	"github.com/anubclao/Edueat/pkg/database"
	"github.com/anubclao/Edueat/pkg/jwt"
	applogger "github.com/anubclao/Edueat/pkg/logger"
	"github.com/anubclao/Edueat/pkg/mailer"
	"github.com/anubclao/Edueat/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log, "server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("school_timezone", cfg.School.Timezone),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与提醒关闭功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 外部依赖：邮件 / AI
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer initCancel()

	mail, err := mailer.New(initCtx, &cfg.Mail, logger)
	if err != nil {
		logger.Fatal("初始化邮件发送器失败", zap.Error(err))
	}

	aiClient, err := ai.NewClient(initCtx, &cfg.AI, logger)
	if err != nil {
		logger.Warn("Gemini 客户端初始化失败，智能助手将使用兜底文案", zap.Error(err))
		aiClient = nil
	}

	// 接口字段只在实现非 nil 时赋值，避免 typed-nil
	ext := service.Externals{Mailer: mail}
	if rdb != nil {
		ext.Tokens = rdb
		ext.Reminders = rdb
	}
	if aiClient != nil {
		ext.AI = aiClient
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, ext, logger)
	h := handler.NewHandler(svc, cfg)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, svc.Auth, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
