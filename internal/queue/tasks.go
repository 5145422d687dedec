package queue

import (
	"encoding/json"

	"github.com/settleflow/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPayoutNotify 结算结果通知任务
	TaskPayoutNotify = constants.TaskPayoutNotify
	// TaskOverdueDigest 逾期结算单摘要任务
	TaskOverdueDigest = constants.TaskOverdueDigest
)

// PayoutNotifyPayload 结算结果通知任务载荷
type PayoutNotifyPayload struct {
	PayoutID uint   `json:"payout_id"`
	Event    string `json:"event"`
}

// OverdueDigestPayload 逾期摘要任务载荷
type OverdueDigestPayload struct {
	PayoutIDs []uint `json:"payout_ids"`
}

// NewPayoutNotifyTask 创建结算结果通知任务
func NewPayoutNotifyTask(payload PayoutNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayoutNotify, body), nil
}

// NewOverdueDigestTask 创建逾期摘要任务
func NewOverdueDigestTask(payload OverdueDigestPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueDigest, body), nil
}
