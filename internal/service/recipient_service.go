package service

import (
	"strings"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/repository"
)

// RecipientService 收款人档案业务服务
type RecipientService struct {
	repo repository.RecipientRepository
}

// NewRecipientService 创建收款人服务
func NewRecipientService(repo repository.RecipientRepository) *RecipientService {
	return &RecipientService{repo: repo}
}

// RecipientCreateInput 收款人创建输入
type RecipientCreateInput struct {
	Name             string
	Email            string
	Phone            string
	Role             string
	BusinessCategory string
}

// RecipientUpdateInput 收款人更新输入（nil 表示不修改）
type RecipientUpdateInput struct {
	Name             *string
	Phone            *string
	BusinessCategory *string
}

// CreateRecipient 创建收款人
func (s *RecipientService) CreateRecipient(input RecipientCreateInput) (*models.Recipient, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, ErrRecipientProfileInvalid
	}
	role := strings.TrimSpace(input.Role)
	if !KnownRole(role) {
		return nil, ErrRecipientRoleInvalid
	}
	category := strings.TrimSpace(input.BusinessCategory)
	if category != "" && !KnownMembershipCategory(category) {
		return nil, ErrMembershipCategoryInvalid
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRecipientEmailExists
	}

	recipient := &models.Recipient{
		Name:             name,
		Email:            email,
		Phone:            strings.TrimSpace(input.Phone),
		Role:             role,
		BusinessCategory: category,
		Status:           constants.RecipientStatusActive,
	}
	if err := s.repo.Create(recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// GetRecipient 查询收款人
func (s *RecipientService) GetRecipient(id uint) (*models.Recipient, error) {
	recipient, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrNotFound
	}
	return recipient, nil
}

// UpdateRecipient 更新收款人基础信息
func (s *RecipientService) UpdateRecipient(id uint, input RecipientUpdateInput) (*models.Recipient, error) {
	recipient, err := s.GetRecipient(id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			recipient.Name = name
		}
	}
	if input.Phone != nil {
		recipient.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.BusinessCategory != nil {
		category := strings.TrimSpace(*input.BusinessCategory)
		if category != "" && !KnownMembershipCategory(category) {
			return nil, ErrMembershipCategoryInvalid
		}
		recipient.BusinessCategory = category
	}
	recipient.UpdatedAt = time.Now()
	if err := s.repo.Update(recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// UpdateRecipientStatus 启停收款人
func (s *RecipientService) UpdateRecipientStatus(id uint, rawStatus string) (*models.Recipient, error) {
	status := strings.TrimSpace(rawStatus)
	if status != constants.RecipientStatusActive && status != constants.RecipientStatusDisabled {
		return nil, ErrRecipientStatusInvalid
	}
	recipient, err := s.GetRecipient(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(recipient.ID, status, time.Now()); err != nil {
		return nil, err
	}
	recipient.Status = status
	return recipient, nil
}

// ListRecipients 查询收款人列表
func (s *RecipientService) ListRecipients(filter repository.RecipientListFilter) ([]models.Recipient, int64, error) {
	return s.repo.List(filter)
}
