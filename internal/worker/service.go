package worker

import (
	"context"
	"errors"
	"time"

	"github.com/settleflow/internal/config"
	"github.com/settleflow/internal/logger"
	"github.com/settleflow/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.PayoutRepo != nil {
		go s.runOverdueScanLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runOverdueScanLoop 定期巡检逾期结算单并投递摘要任务
func (s *Service) runOverdueScanLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.Config == nil {
		return
	}
	cfg := s.consumer.Config.Payout
	interval := time.Duration(cfg.OverdueScanMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	batchSize := cfg.OverdueScanBatchSize
	if batchSize <= 0 {
		batchSize = 200
	}

	runOnce := func() {
		s.scanOverdueOnce(time.Now(), batchSize)
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) scanOverdueOnce(asOf time.Time, batchSize int) {
	payouts, err := s.consumer.PayoutRepo.ListOverdue(asOf, batchSize)
	if err != nil {
		logger.Warnw("worker_overdue_scan_failed", "error", err)
		return
	}
	if len(payouts) == 0 {
		return
	}

	ids := make([]uint, 0, len(payouts))
	for _, p := range payouts {
		ids = append(ids, p.ID)
		logger.Warnw("payout_overdue",
			"payout_id", p.ID,
			"payout_no", p.PayoutNo,
			"recipient_id", p.Recipient.RecipientID,
			"scheduled_date", p.ScheduledDate.Format("2006-01-02"),
			"net_amount", p.NetAmount.String(),
		)
	}
	if s.consumer.QueueClient != nil {
		if err := s.consumer.QueueClient.EnqueueOverdueDigest(queue.OverdueDigestPayload{PayoutIDs: ids}); err != nil {
			logger.Warnw("worker_overdue_digest_enqueue_failed", "count", len(ids), "error", err)
		}
	}
}
