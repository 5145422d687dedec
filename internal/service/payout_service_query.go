package service

import (
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/repository"
)

// PayoutStatusBucket 单一状态的结算分桶
type PayoutStatusBucket struct {
	Amount models.Money `json:"amount"`
	Count  int64        `json:"count"`
}

// RecipientSettlementStats 收款人结算统计（按状态分桶 + 未结算池）
type RecipientSettlementStats struct {
	Recipient       *models.Recipient  `json:"recipient"`
	Pending         PayoutStatusBucket `json:"pending"`
	Done            PayoutStatusBucket `json:"done"`
	Failed          PayoutStatusBucket `json:"failed"`
	PayoutCount     int64              `json:"payout_count"`
	TotalPaid       models.Money       `json:"total_paid"`
	UnsettledAmount models.Money       `json:"unsettled_amount"`
	UnsettledCount  int64              `json:"unsettled_count"`
	LastPaidDate    *time.Time         `json:"last_paid_date,omitempty"`
}

// GetPayout 查询结算单详情
func (s *PayoutService) GetPayout(id uint) (*models.Payout, error) {
	payout, err := s.payoutRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, ErrNotFound
	}
	return payout, nil
}

// ListPayouts 查询结算单列表
func (s *PayoutService) ListPayouts(filter repository.PayoutListFilter) ([]models.Payout, int64, error) {
	return s.payoutRepo.List(filter)
}

// ListOverduePayouts 查询逾期未处理的结算单（只读观测，不改变状态）
func (s *PayoutService) ListOverduePayouts(page, pageSize int) ([]models.Payout, int64, error) {
	now := time.Now()
	return s.payoutRepo.List(repository.PayoutListFilter{
		Page:        page,
		PageSize:    pageSize,
		OverdueAsOf: &now,
	})
}

// PayoutOverdue 判断结算单是否逾期（pending 且已过计划打款日期）
func PayoutOverdue(p *models.Payout, now time.Time) bool {
	if p == nil {
		return false
	}
	return p.Status == constants.PayoutStatusPending && p.ScheduledDate.Before(now)
}

// MonthlySummary 按计划打款月份汇总结算统计
func (s *PayoutService) MonthlySummary(year, month int) (repository.PayoutMonthlySummary, error) {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return repository.PayoutMonthlySummary{}, ErrPeriodInvalid
	}
	return s.payoutRepo.SummarizeByMonth(year, time.Month(month))
}

// RecipientStats 汇总收款人的结算统计
func (s *PayoutService) RecipientStats(recipientID uint) (*RecipientSettlementStats, error) {
	recipient, err := s.recipientRepo.GetByID(recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrNotFound
	}

	payoutStats, err := s.payoutRepo.StatsForRecipient(recipientID)
	if err != nil {
		return nil, err
	}
	unsettled, err := s.commissionRepo.SumUnsettledByRecipient(recipientID)
	if err != nil {
		return nil, err
	}

	bucket := func(status string) PayoutStatusBucket {
		agg := payoutStats.ByStatus[status]
		return PayoutStatusBucket{
			Amount: models.NewMoneyFromDecimal(agg.TotalAmount),
			Count:  agg.Count,
		}
	}
	return &RecipientSettlementStats{
		Recipient:       recipient,
		Pending:         bucket(constants.PayoutStatusPending),
		Done:            bucket(constants.PayoutStatusDone),
		Failed:          bucket(constants.PayoutStatusFailed),
		PayoutCount:     payoutStats.PayoutCount,
		TotalPaid:       models.NewMoneyFromDecimal(payoutStats.TotalPaid),
		UnsettledAmount: unsettled.Total,
		UnsettledCount:  unsettled.Count,
		LastPaidDate:    payoutStats.LastPaidDate,
	}, nil
}
