package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipientListFilter 查询收款人列表的过滤条件
type RecipientListFilter struct {
	Page        int
	PageSize    int
	Role        string
	Status      string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CommissionListFilter 查询佣金列表的过滤条件
type CommissionListFilter struct {
	Page               int
	PageSize           int
	RecipientID        uint
	RecipientRole      string
	MembershipCategory string
	PayoutID           uint
	UnsettledOnly      bool
	EarnedFrom         *time.Time
	EarnedTo           *time.Time
}

// PayoutListFilter 查询结算单列表的过滤条件
type PayoutListFilter struct {
	Page          int
	PageSize      int
	RecipientID   uint
	RecipientRole string
	Status        string
	PayoutNo      string
	Keyword       string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	OverdueAsOf   *time.Time // 非空时仅返回逾期单（pending 且计划日期早于该时刻）
}

// PayoutStatusAggregate 单一状态下的结算汇总
type PayoutStatusAggregate struct {
	Count       int64
	TotalAmount decimal.Decimal
	TotalNet    decimal.Decimal
}

// PayoutMonthlySummary 按月汇总的结算统计
type PayoutMonthlySummary struct {
	Year        int
	Month       int
	Count       int64
	TotalAmount decimal.Decimal
	TotalTDS    decimal.Decimal
	TotalNet    decimal.Decimal
	ByStatus    map[string]PayoutStatusAggregate
}

// RecipientPayoutStats 单个收款人的结算统计，按状态分桶
type RecipientPayoutStats struct {
	RecipientID  uint
	PayoutCount  int64
	ByStatus     map[string]PayoutStatusAggregate
	TotalPaid    decimal.Decimal // done 状态的净额合计
	LastPaidDate *time.Time
}
