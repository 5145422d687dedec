package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/settleflow/internal/models"

	"gorm.io/gorm"
)

// RecipientRepository 收款人数据访问接口
type RecipientRepository interface {
	WithTx(tx *gorm.DB) RecipientRepository

	Create(recipient *models.Recipient) error
	Update(recipient *models.Recipient) error
	GetByID(id uint) (*models.Recipient, error)
	GetByEmail(email string) (*models.Recipient, error)
	UpdateStatus(id uint, status string, updatedAt time.Time) error
	List(filter RecipientListFilter) ([]models.Recipient, int64, error)
}

// GormRecipientRepository GORM 收款人仓储
type GormRecipientRepository struct {
	db *gorm.DB
}

// NewRecipientRepository 创建收款人仓储
func NewRecipientRepository(db *gorm.DB) *GormRecipientRepository {
	return &GormRecipientRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRecipientRepository) WithTx(tx *gorm.DB) RecipientRepository {
	if tx == nil {
		return r
	}
	return &GormRecipientRepository{db: tx}
}

// Create 创建收款人
func (r *GormRecipientRepository) Create(recipient *models.Recipient) error {
	return r.db.Create(recipient).Error
}

// Update 更新收款人
func (r *GormRecipientRepository) Update(recipient *models.Recipient) error {
	return r.db.Save(recipient).Error
}

// GetByID 按ID获取收款人
func (r *GormRecipientRepository) GetByID(id uint) (*models.Recipient, error) {
	if id == 0 {
		return nil, nil
	}
	var recipient models.Recipient
	if err := r.db.First(&recipient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

// GetByEmail 按邮箱获取收款人
func (r *GormRecipientRepository) GetByEmail(email string) (*models.Recipient, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}
	var recipient models.Recipient
	if err := r.db.Where("email = ?", normalized).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

// UpdateStatus 更新收款人状态
func (r *GormRecipientRepository) UpdateStatus(id uint, status string, updatedAt time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Recipient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     strings.TrimSpace(status),
			"updated_at": updatedAt,
		}).Error
}

// List 查询收款人列表
func (r *GormRecipientRepository) List(filter RecipientListFilter) ([]models.Recipient, int64, error) {
	query := r.db.Model(&models.Recipient{})
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"name", "email", "phone"})
		if condition != "" {
			query = query.Where("("+condition+")", repeatLikeArgs(like, argCount)...)
		}
	}
	query = applyTimeRange(query, "created_at", filter.CreatedFrom, filter.CreatedTo)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Recipient
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
