package models

import (
	"time"

	"gorm.io/gorm"
)

// RecipientSnapshot 结算单内嵌的收款人快照（创建时定格，不随档案变更）
type RecipientSnapshot struct {
	RecipientID      uint   `gorm:"column:recipient_id;not null;index" json:"recipient_id"` // 收款人ID
	Name             string `gorm:"column:recipient_name;type:varchar(128)" json:"name"`    // 姓名快照
	Email            string `gorm:"column:recipient_email;type:varchar(255)" json:"email"`  // 邮箱快照
	Phone            string `gorm:"column:recipient_phone;type:varchar(32)" json:"phone"`   // 手机号快照
	BusinessCategory string `gorm:"column:recipient_business_category;type:varchar(32)" json:"business_category"` // 业务类别快照
}

// Payout 结算单表（一次佣金打款的完整生命周期）
type Payout struct {
	ID                    uint              `gorm:"primarykey" json:"id"`                            // 主键
	PayoutNo              string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"payout_no"` // 结算单号
	Recipient             RecipientSnapshot `gorm:"embedded" json:"recipient"`                       // 收款人快照
	RecipientRole         string            `gorm:"type:varchar(32);not null;index" json:"recipient_role"` // 收款人角色
	Amount                Money             `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`   // 应付总额（税前）
	Currency              string            `gorm:"type:varchar(8);not null" json:"currency"`        // 币种
	PeriodStart           time.Time         `gorm:"not null;index" json:"period_start"`              // 结算周期起
	PeriodEnd             time.Time         `gorm:"not null" json:"period_end"`                      // 结算周期止
	Status                string            `gorm:"type:varchar(16);not null;index" json:"status"`   // 状态
	CommissionCount       int               `gorm:"not null;default:0" json:"commission_count"`      // 佣金条数
	Breakdown             PayoutBreakdown   `gorm:"type:text" json:"breakdown"`                      // 按类别拆分汇总
	TDSPercentage         Money             `gorm:"type:decimal(10,2);not null;default:0" json:"tds_percentage"` // TDS 税率（百分比）
	TDSAmount             Money             `gorm:"type:decimal(20,2);not null;default:0" json:"tds_amount"`     // TDS 扣税金额
	NetAmount             Money             `gorm:"type:decimal(20,2);not null;default:0" json:"net_amount"`     // 税后实付金额
	PaymentDetails        *PaymentDetails   `gorm:"type:text" json:"payment_details,omitempty"`      // 打款凭证
	ScheduledDate         time.Time         `gorm:"not null;index" json:"scheduled_date"`            // 计划打款日期
	PaidDate              *time.Time        `json:"paid_date,omitempty"`                             // 实际打款日期
	ProcessingStartedAt   *time.Time        `json:"processing_started_at,omitempty"`                 // 进入处理时间
	ProcessingCompletedAt *time.Time        `json:"processing_completed_at,omitempty"`               // 处理结束时间
	InitiatedBy           uint              `gorm:"not null" json:"initiated_by"`                    // 创建人（管理员ID）
	ApprovedBy            *uint             `json:"approved_by,omitempty"`                           // 首次批准处理人
	ProcessedBy           *uint             `json:"processed_by,omitempty"`                          // 终态操作人
	FailureReason         string            `gorm:"type:varchar(255)" json:"failure_reason"`         // 失败原因
	RetryCount            int               `gorm:"not null;default:0" json:"retry_count"`           // 失败重试次数
	NotificationSent      bool              `gorm:"not null;default:false" json:"notification_sent"` // 结果通知是否已发出
	Notes                 string            `gorm:"type:varchar(500)" json:"notes"`                  // 备注
	CreatedAt             time.Time         `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt             time.Time         `json:"updated_at"`                                      // 更新时间
	DeletedAt             gorm.DeletedAt    `gorm:"index" json:"-"`                                  // 软删除时间

	Commissions []Commission `gorm:"foreignKey:PayoutID" json:"commissions,omitempty"` // 纳入本单的佣金明细
}

// TableName 指定表名
func (Payout) TableName() string {
	return "payouts"
}

// Terminal 是否处于终态（done / cancelled）
func (p *Payout) Terminal() bool {
	return p.Status == "done" || p.Status == "cancelled"
}
