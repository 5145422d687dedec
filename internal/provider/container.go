package provider

import (
	"github.com/settleflow/internal/cache"
	"github.com/settleflow/internal/config"
	"github.com/settleflow/internal/logger"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/queue"
	"github.com/settleflow/internal/repository"
	"github.com/settleflow/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	RecipientRepo  repository.RecipientRepository
	CommissionRepo repository.CommissionRepository
	PayoutRepo     repository.PayoutRepository

	// Services
	AuthService       *service.AuthService
	RecipientService  *service.RecipientService
	CommissionService *service.CommissionService
	PayoutService     *service.PayoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.RecipientRepo = repository.NewRecipientRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.PayoutRepo = repository.NewPayoutRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.RecipientService = service.NewRecipientService(c.RecipientRepo)
	c.CommissionService = service.NewCommissionService(c.CommissionRepo, c.RecipientRepo)
	c.PayoutService = service.NewPayoutService(c.PayoutRepo, c.CommissionRepo, c.RecipientRepo, c.QueueClient)
}
