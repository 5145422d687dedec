package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settleflow/internal/logger"
	"github.com/settleflow/internal/provider"
	"github.com/settleflow/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPayoutNotify, c.handlePayoutNotify)
	mux.HandleFunc(queue.TaskOverdueDigest, c.handleOverdueDigest)
}

// handlePayoutNotify 结算终态结果通知。
// 当前实现落结构化日志并标记通知已发出，后续可接入邮件或 webhook。
func (c *Consumer) handlePayoutNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payout_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PayoutNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payout_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.PayoutID == 0 {
		logger.Debugw("worker_payout_notify_skip_invalid_payload", "payout_id", payload.PayoutID)
		return nil
	}
	payout, err := c.PayoutRepo.GetByID(payload.PayoutID)
	if err != nil {
		logger.Warnw("worker_payout_notify_fetch_failed", "payout_id", payload.PayoutID, "error", err)
		return err
	}
	if payout == nil {
		logger.Debugw("worker_payout_notify_skip_not_found", "payout_id", payload.PayoutID)
		return nil
	}
	if payout.NotificationSent {
		logger.Debugw("worker_payout_notify_skip_already_sent", "payout_id", payout.ID, "payout_no", payout.PayoutNo)
		return nil
	}

	logger.Infow("payout_result_notification",
		"payout_id", payout.ID,
		"payout_no", payout.PayoutNo,
		"event", payload.Event,
		"recipient_email", payout.Recipient.Email,
		"net_amount", payout.NetAmount.String(),
		"currency", payout.Currency,
	)
	if err := c.PayoutRepo.MarkNotificationSent(payout.ID, time.Now()); err != nil {
		logger.Warnw("worker_payout_notify_mark_sent_failed", "payout_id", payout.ID, "error", err)
		return err
	}
	return nil
}

// handleOverdueDigest 逾期巡检摘要，只读观测不改状态
func (c *Consumer) handleOverdueDigest(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_overdue_digest_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OverdueDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_overdue_digest_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.PayoutIDs) == 0 {
		logger.Debugw("worker_overdue_digest_skip_empty")
		return nil
	}
	logger.Warnw("payout_overdue_digest",
		"count", len(payload.PayoutIDs),
		"payout_ids", payload.PayoutIDs,
	)
	return nil
}
