package router

import (
	"fmt"
	"strings"

	"github.com/settleflow/internal/cache"
	"github.com/settleflow/internal/config"
	adminhandlers "github.com/settleflow/internal/http/handlers/admin"
	"github.com/settleflow/internal/logger"
	"github.com/settleflow/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sf"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword) // 修改密码

				// 收款人管理
				authorized.GET("/recipients", adminHandler.GetAdminRecipients)
				authorized.POST("/recipients", adminHandler.CreateRecipient)
				authorized.GET("/recipients/:id", adminHandler.GetAdminRecipient)
				authorized.PUT("/recipients/:id", adminHandler.UpdateRecipient)
				authorized.PATCH("/recipients/:id/status", adminHandler.UpdateRecipientStatus)
				authorized.GET("/recipients/:id/stats", adminHandler.GetRecipientPayoutStats)

				// 佣金台账
				authorized.GET("/commissions", adminHandler.GetAdminCommissions)
				authorized.POST("/commissions", adminHandler.CreateCommission)
				authorized.GET("/commissions/:id", adminHandler.GetAdminCommission)

				// 结算单生命周期
				authorized.GET("/payouts", adminHandler.GetAdminPayouts)
				authorized.POST("/payouts/create", adminHandler.CreatePayout)
				authorized.POST("/payouts/preview", adminHandler.PreviewPayout)
				authorized.GET("/payouts/pending", adminHandler.GetPendingPayouts)
				authorized.GET("/payouts/overdue", adminHandler.GetOverduePayouts)
				authorized.GET("/payouts/summary/monthly", adminHandler.GetPayoutMonthlySummary)
				authorized.GET("/payouts/user/:id/stats", adminHandler.GetRecipientPayoutStats)
				authorized.GET("/payouts/:id", adminHandler.GetAdminPayout)
				authorized.PATCH("/payouts/:id", adminHandler.UpdatePayout)
				authorized.PATCH("/payouts/:id/process", adminHandler.MarkPayoutProcessing)
				authorized.PATCH("/payouts/:id/complete", adminHandler.MarkPayoutDone)
				authorized.PATCH("/payouts/:id/fail", adminHandler.MarkPayoutFailed)
				authorized.DELETE("/payouts/:id", adminHandler.CancelPayout)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
