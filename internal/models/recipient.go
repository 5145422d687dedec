package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipient 收款人表（加盟商 / 合作方档案）
type Recipient struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                    // 主键
	Name             string         `gorm:"type:varchar(128);not null" json:"name"`                  // 姓名
	Email            string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`     // 邮箱
	Phone            string         `gorm:"type:varchar(32)" json:"phone"`                           // 手机号
	Role             string         `gorm:"type:varchar(32);not null;index" json:"role"`             // 角色
	BusinessCategory string         `gorm:"type:varchar(32)" json:"business_category"`               // 业务类别
	Status           string         `gorm:"type:varchar(16);not null;default:'active'" json:"status"` // 状态
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (Recipient) TableName() string {
	return "recipients"
}
