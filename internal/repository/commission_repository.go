package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/settleflow/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommissionRepository 佣金数据访问接口
type CommissionRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CommissionRepository

	Create(commission *models.Commission) error
	GetByID(id uint) (*models.Commission, error)
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	ListUnsettledByPeriod(recipientID uint, start, end time.Time) ([]models.Commission, error)
	ListUnsettledByPeriodForUpdate(recipientID uint, start, end time.Time) ([]models.Commission, error)
	ListByPayoutID(payoutID uint) ([]models.Commission, error)
	LinkToPayout(ids []uint, payoutID uint, now time.Time) (int64, error)
	UnlinkByPayout(payoutID uint, now time.Time) (int64, error)
	SumUnsettledByRecipient(recipientID uint) (UnsettledAggregate, error)
}

// UnsettledAggregate 未结算佣金汇总
type UnsettledAggregate struct {
	Count int64
	Total models.Money
}

// GormCommissionRepository GORM 佣金仓储
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金仓储
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCommissionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// GetByID 按ID获取佣金记录
func (r *GormCommissionRepository) GetByID(id uint) (*models.Commission, error) {
	if id == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Preload("Recipient").First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// List 查询佣金列表
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{}).Preload("Recipient")
	if filter.RecipientID != 0 {
		query = query.Where("recipient_id = ?", filter.RecipientID)
	}
	if role := strings.TrimSpace(filter.RecipientRole); role != "" {
		query = query.Where("recipient_role = ?", role)
	}
	if category := strings.TrimSpace(filter.MembershipCategory); category != "" {
		query = query.Where("membership_category = ?", category)
	}
	if filter.PayoutID != 0 {
		query = query.Where("payout_id = ?", filter.PayoutID)
	}
	if filter.UnsettledOnly {
		query = query.Where("payout_id IS NULL")
	}
	query = applyTimeRange(query, "earned_at", filter.EarnedFrom, filter.EarnedTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Commission
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListUnsettledByPeriod 查询周期内未结算的佣金
func (r *GormCommissionRepository) ListUnsettledByPeriod(recipientID uint, start, end time.Time) ([]models.Commission, error) {
	if recipientID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Where("recipient_id = ? AND payout_id IS NULL AND earned_at >= ? AND earned_at <= ?",
		recipientID, start, end).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListUnsettledByPeriodForUpdate 查询并锁定周期内未结算的佣金
func (r *GormCommissionRepository) ListUnsettledByPeriodForUpdate(recipientID uint, start, end time.Time) ([]models.Commission, error) {
	if recipientID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("recipient_id = ? AND payout_id IS NULL AND earned_at >= ? AND earned_at <= ?",
			recipientID, start, end).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByPayoutID 查询结算单下的佣金明细
func (r *GormCommissionRepository) ListByPayoutID(payoutID uint) ([]models.Commission, error) {
	if payoutID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Where("payout_id = ?", payoutID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LinkToPayout 将未结算佣金批量挂到结算单（条件更新，借 payout_id IS NULL 防并发重复结算）
func (r *GormCommissionRepository) LinkToPayout(ids []uint, payoutID uint, now time.Time) (int64, error) {
	if len(ids) == 0 || payoutID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Commission{}).
		Where("id IN ? AND payout_id IS NULL", ids).
		Updates(map[string]interface{}{
			"payout_id":  payoutID,
			"settled_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UnlinkByPayout 解除结算单下全部佣金的关联（取消结算时回池）
func (r *GormCommissionRepository) UnlinkByPayout(payoutID uint, now time.Time) (int64, error) {
	if payoutID == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Commission{}).
		Where("payout_id = ?", payoutID).
		Updates(map[string]interface{}{
			"payout_id":  nil,
			"settled_at": nil,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SumUnsettledByRecipient 汇总收款人未结算佣金
func (r *GormCommissionRepository) SumUnsettledByRecipient(recipientID uint) (UnsettledAggregate, error) {
	var agg UnsettledAggregate
	if recipientID == 0 {
		return agg, nil
	}
	var row struct {
		Total models.Money `gorm:"column:total"`
		Count int64        `gorm:"column:cnt"`
	}
	if err := r.db.Model(&models.Commission{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS cnt").
		Where("recipient_id = ? AND payout_id IS NULL", recipientID).
		Scan(&row).Error; err != nil {
		return agg, err
	}
	agg.Count = row.Count
	agg.Total = row.Total
	return agg, nil
}
