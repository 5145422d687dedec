package service

import (
	"strings"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/repository"
	"github.com/shopspring/decimal"
)

// CommissionService 佣金台账业务服务
type CommissionService struct {
	repo          repository.CommissionRepository
	recipientRepo repository.RecipientRepository
}

// NewCommissionService 创建佣金服务
func NewCommissionService(repo repository.CommissionRepository, recipientRepo repository.RecipientRepository) *CommissionService {
	return &CommissionService{
		repo:          repo,
		recipientRepo: recipientRepo,
	}
}

// CommissionRecordInput 佣金入账输入
type CommissionRecordInput struct {
	RecipientID        uint
	MembershipCategory string
	Amount             decimal.Decimal
	SaleRef            string
	EarnedAt           time.Time
}

// SettlementDraft 结算预览（聚合周期内未结算佣金，不落库）
type SettlementDraft struct {
	Recipient       *models.Recipient      `json:"recipient"`
	Commissions     []models.Commission    `json:"commissions"`
	CommissionIDs   []uint                 `json:"-"`
	CommissionCount int                    `json:"commission_count"`
	GrossAmount     models.Money           `json:"gross_amount"`
	Breakdown       models.PayoutBreakdown `json:"breakdown"`
}

// RecordCommission 记录一笔应付佣金
func (s *CommissionService) RecordCommission(input CommissionRecordInput) (*models.Commission, error) {
	if s == nil || s.repo == nil {
		return nil, ErrNotFound
	}
	if !input.Amount.IsPositive() {
		return nil, ErrCommissionAmountInvalid
	}
	category := strings.TrimSpace(input.MembershipCategory)
	if !KnownMembershipCategory(category) {
		return nil, ErrMembershipCategoryInvalid
	}

	recipient, err := s.recipientRepo.GetByID(input.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrNotFound
	}
	if recipient.Status != constants.RecipientStatusActive {
		return nil, ErrRecipientDisabled
	}
	if !RoleCan(recipient.Role, constants.RoleActionEarnCommission) {
		return nil, ErrRecipientRoleInvalid
	}

	earnedAt := input.EarnedAt
	if earnedAt.IsZero() {
		earnedAt = time.Now()
	}
	commission := &models.Commission{
		RecipientID:        recipient.ID,
		RecipientRole:      recipient.Role,
		MembershipCategory: category,
		Amount:             models.NewMoneyFromDecimal(input.Amount),
		SaleRef:            strings.TrimSpace(input.SaleRef),
		EarnedAt:           earnedAt,
	}
	if err := s.repo.Create(commission); err != nil {
		return nil, err
	}
	return commission, nil
}

// GetCommission 查询单笔佣金
func (s *CommissionService) GetCommission(id uint) (*models.Commission, error) {
	commission, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if commission == nil {
		return nil, ErrNotFound
	}
	return commission, nil
}

// ListCommissions 查询佣金列表
func (s *CommissionService) ListCommissions(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.repo.List(filter)
}

// PreviewSettlement 预览周期内可结算佣金（只读，不占用佣金）
func (s *CommissionService) PreviewSettlement(recipientID uint, start, end time.Time) (*SettlementDraft, error) {
	if err := validateSettlementPeriod(start, end); err != nil {
		return nil, err
	}
	recipient, err := s.recipientRepo.GetByID(recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrNotFound
	}

	rows, err := s.repo.ListUnsettledByPeriod(recipientID, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoEligibleCommissions
	}
	return buildSettlementDraft(recipient, rows), nil
}

// validateSettlementPeriod 校验结算周期合法，周期只允许结算历史佣金
func validateSettlementPeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return ErrPeriodInvalid
	}
	// 预留一天的时区余量
	if start.After(time.Now().AddDate(0, 0, 1)) {
		return ErrPeriodInvalid
	}
	return nil
}

// buildSettlementDraft 汇总佣金明细生成结算草稿。
// 两类会籍在拆分明细中始终占位，没有佣金的类别记为零。
func buildSettlementDraft(recipient *models.Recipient, rows []models.Commission) *SettlementDraft {
	breakdown := models.PayoutBreakdown{
		constants.MembershipCategoryFlagship: {Amount: models.ZeroMoney()},
		constants.MembershipCategoryDigital:  {Amount: models.ZeroMoney()},
	}
	gross := decimal.Zero
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
		amount := row.Amount.Decimal.Round(2)
		gross = gross.Add(amount)

		entry := breakdown[row.MembershipCategory]
		entry.Amount = entry.Amount.AddMoney(models.NewMoneyFromDecimal(amount))
		entry.Count++
		breakdown[row.MembershipCategory] = entry
	}
	return &SettlementDraft{
		Recipient:       recipient,
		Commissions:     rows,
		CommissionIDs:   ids,
		CommissionCount: len(rows),
		GrossAmount:     models.NewMoneyFromDecimal(gross),
		Breakdown:       breakdown,
	}
}
