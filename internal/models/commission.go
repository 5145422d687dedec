package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 佣金记录（结算前的应付明细）
type Commission struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                      // 主键
	RecipientID        uint           `gorm:"not null;index" json:"recipient_id"`                        // 收款人ID
	RecipientRole      string         `gorm:"type:varchar(32);not null;index" json:"recipient_role"`     // 产生佣金时的角色快照
	MembershipCategory string         `gorm:"type:varchar(32);not null;index" json:"membership_category"` // 会籍类别
	Amount             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`       // 佣金金额
	SaleRef            string         `gorm:"type:varchar(64);index" json:"sale_ref"`                    // 业务来源单号
	EarnedAt           time.Time      `gorm:"not null;index" json:"earned_at"`                           // 产生时间
	PayoutID           *uint          `gorm:"index" json:"payout_id,omitempty"`                          // 关联结算单（NULL 表示未结算）
	SettledAt          *time.Time     `json:"settled_at,omitempty"`                                      // 纳入结算时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Recipient Recipient `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"` // 收款人
	Payout    *Payout   `gorm:"foreignKey:PayoutID" json:"payout,omitempty"`       // 结算单
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}

// Settled 是否已纳入某张结算单
func (c *Commission) Settled() bool {
	return c.PayoutID != nil
}
