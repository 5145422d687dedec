package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/logger"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/queue"
	"github.com/settleflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutService 结算单生命周期业务服务
type PayoutService struct {
	payoutRepo     repository.PayoutRepository
	commissionRepo repository.CommissionRepository
	recipientRepo  repository.RecipientRepository
	queueClient    *queue.Client
}

// NewPayoutService 创建结算单服务
func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	commissionRepo repository.CommissionRepository,
	recipientRepo repository.RecipientRepository,
	queueClient *queue.Client,
) *PayoutService {
	return &PayoutService{
		payoutRepo:     payoutRepo,
		commissionRepo: commissionRepo,
		recipientRepo:  recipientRepo,
		queueClient:    queueClient,
	}
}

// PayoutCreateInput 创建结算单输入
type PayoutCreateInput struct {
	RecipientID   uint
	PeriodStart   time.Time
	PeriodEnd     time.Time
	ScheduledDate time.Time
	TDSPercentage *decimal.Decimal
	Currency      string
	Notes         string
}

// PayoutPaymentInput 打款凭证输入（MarkDone 时提交）
type PayoutPaymentInput struct {
	Method          string
	TransactionID   string
	TransactionDate time.Time
	BankName        string
	AccountNumber   string
	IFSCCode        string
	AccountHolder   string
	UPIID           string
	ChequeNumber    string
	ProofURL        string
}

// PayoutUpdateInput 修改待处理结算单输入（nil 表示不修改）
type PayoutUpdateInput struct {
	ScheduledDate *time.Time
	TDSPercentage *decimal.Decimal
	Notes         *string
}

// CreatePayout 聚合周期内未结算佣金，生成一张待处理结算单。
// 佣金绑定采用条件更新（payout_id IS NULL），并发重复结算时整个事务回滚。
func (s *PayoutService) CreatePayout(adminID uint, input PayoutCreateInput) (*models.Payout, error) {
	if s == nil || s.payoutRepo == nil || s.commissionRepo == nil {
		return nil, ErrNotFound
	}
	if err := validateSettlementPeriod(input.PeriodStart, input.PeriodEnd); err != nil {
		return nil, err
	}
	if input.ScheduledDate.IsZero() {
		return nil, ErrScheduledDateRequired
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
	if !RoleCan(recipient.Role, constants.RoleActionReceivePayout) {
		return nil, ErrRecipientRoleInvalid
	}

	rate := DefaultTDSRate()
	if input.TDSPercentage != nil {
		rate = *input.TDSPercentage
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}

	var createdID uint
	err = s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutTx := s.payoutRepo.WithTx(tx)
		commissionTx := s.commissionRepo.WithTx(tx)

		rows, err := commissionTx.ListUnsettledByPeriodForUpdate(recipient.ID, input.PeriodStart, input.PeriodEnd)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrNoEligibleCommissions
		}
		draft := buildSettlementDraft(recipient, rows)

		tax, err := ComputeTDS(draft.GrossAmount.Decimal, rate)
		if err != nil {
			return err
		}

		now := time.Now()
		payout := &models.Payout{
			PayoutNo: generatePayoutNo(),
			Recipient: models.RecipientSnapshot{
				RecipientID:      recipient.ID,
				Name:             recipient.Name,
				Email:            recipient.Email,
				Phone:            recipient.Phone,
				BusinessCategory: recipient.BusinessCategory,
			},
			RecipientRole:   recipient.Role,
			Amount:          draft.GrossAmount,
			Currency:        currency,
			PeriodStart:     input.PeriodStart,
			PeriodEnd:       input.PeriodEnd,
			Status:          constants.PayoutStatusPending,
			CommissionCount: draft.CommissionCount,
			Breakdown:       draft.Breakdown,
			TDSPercentage:   tax.TDSPercentage,
			TDSAmount:       tax.TDSAmount,
			NetAmount:       tax.NetAmount,
			ScheduledDate:   input.ScheduledDate,
			InitiatedBy:     adminID,
			Notes:           strings.TrimSpace(input.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := payoutTx.Create(payout); err != nil {
			return err
		}

		linked, err := commissionTx.LinkToPayout(draft.CommissionIDs, payout.ID, now)
		if err != nil {
			return err
		}
		// 条目数对不上说明有佣金在锁定间隙被其他结算单占用，放弃本次结算。
		if linked != int64(len(draft.CommissionIDs)) {
			return ErrConcurrentSettlement
		}
		createdID = payout.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(createdID)
}

// MarkProcessing 将结算单推进到处理中（pending / failed 可进入，失败重试累计次数）
func (s *PayoutService) MarkProcessing(adminID, payoutID uint) (*models.Payout, error) {
	err := s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutTx := s.payoutRepo.WithTx(tx)
		payout, err := payoutTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrNotFound
		}

		if err := checkPayoutTransition(payout.Status, constants.PayoutStatusProcessing); err != nil {
			return err
		}
		if payout.Status == constants.PayoutStatusFailed {
			payout.RetryCount++
			payout.FailureReason = ""
		}

		now := time.Now()
		payout.Status = constants.PayoutStatusProcessing
		payout.ProcessingStartedAt = &now
		payout.ProcessingCompletedAt = nil
		if payout.ApprovedBy == nil {
			payout.ApprovedBy = &adminID
		}
		payout.UpdatedAt = now
		return payoutTx.Update(payout)
	})
	if err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(payoutID)
}

// MarkDone 结算完成并记录打款凭证。重复提交同一交易流水号幂等返回原单。
func (s *PayoutService) MarkDone(adminID, payoutID uint, input PayoutPaymentInput) (*models.Payout, error) {
	details, err := buildPaymentDetails(input)
	if err != nil {
		return nil, err
	}

	alreadyDone := false
	err = s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutTx := s.payoutRepo.WithTx(tx)
		payout, err := payoutTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrNotFound
		}

		// 同一交易流水号重复提交视为幂等确认
		if payout.Status == constants.PayoutStatusDone &&
			payout.PaymentDetails != nil && payout.PaymentDetails.TransactionID == details.TransactionID {
			alreadyDone = true
			return nil
		}
		if err := checkPayoutTransition(payout.Status, constants.PayoutStatusDone); err != nil {
			return err
		}

		now := time.Now()
		paidDate := input.TransactionDate
		payout.Status = constants.PayoutStatusDone
		payout.PaymentDetails = details
		payout.PaidDate = &paidDate
		payout.ProcessingCompletedAt = &now
		payout.ProcessedBy = &adminID
		payout.UpdatedAt = now
		return payoutTx.Update(payout)
	})
	if err != nil {
		return nil, err
	}
	if !alreadyDone {
		s.notifyResult(payoutID, constants.PayoutEventDone)
	}
	return s.payoutRepo.GetByID(payoutID)
}

// MarkFailed 打款失败，留在可重试状态
func (s *PayoutService) MarkFailed(adminID, payoutID uint, reason string) (*models.Payout, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrFailureReasonRequired
	}

	err := s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutTx := s.payoutRepo.WithTx(tx)
		payout, err := payoutTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrNotFound
		}

		if err := checkPayoutTransition(payout.Status, constants.PayoutStatusFailed); err != nil {
			return err
		}

		now := time.Now()
		payout.Status = constants.PayoutStatusFailed
		payout.FailureReason = reason
		payout.ProcessingCompletedAt = &now
		payout.ProcessedBy = &adminID
		payout.UpdatedAt = now
		return payoutTx.Update(payout)
	})
	if err != nil {
		return nil, err
	}
	s.notifyResult(payoutID, constants.PayoutEventFailed)
	return s.payoutRepo.GetByID(payoutID)
}

// CancelPayout 取消待处理结算单，佣金全部回池等待下次结算
func (s *PayoutService) CancelPayout(adminID, payoutID uint, reason string) (*models.Payout, error) {
	err := s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutTx := s.payoutRepo.WithTx(tx)
		commissionTx := s.commissionRepo.WithTx(tx)

		payout, err := payoutTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrNotFound
		}

		if err := checkPayoutTransition(payout.Status, constants.PayoutStatusCancelled); err != nil {
			return err
		}

		now := time.Now()
		if _, err := commissionTx.UnlinkByPayout(payout.ID, now); err != nil {
			return err
		}
		payout.Status = constants.PayoutStatusCancelled
		payout.ProcessedBy = &adminID
		if reason = strings.TrimSpace(reason); reason != "" {
			payout.Notes = appendNote(payout.Notes, reason)
		}
		payout.UpdatedAt = now
		return payoutTx.Update(payout)
	})
	if err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(payoutID)
}

// UpdatePayout 修改待处理结算单（计划日期 / 税率 / 备注），改税率时重算税额
func (s *PayoutService) UpdatePayout(payoutID uint, input PayoutUpdateInput) (*models.Payout, error) {
	err := s.payoutRepo.Transaction(func(tx *gorm.DB) error {
		payoutTx := s.payoutRepo.WithTx(tx)
		payout, err := payoutTx.GetByIDForUpdate(payoutID)
		if err != nil {
			return err
		}
		if payout == nil {
			return ErrNotFound
		}

		// 仅 pending 可修改
		if payout.Status != constants.PayoutStatusPending {
			if PayoutTerminal(payout.Status) {
				return ErrAlreadyTerminal
			}
			return ErrInvalidTransition
		}

		if input.ScheduledDate != nil {
			if input.ScheduledDate.IsZero() {
				return ErrScheduledDateRequired
			}
			payout.ScheduledDate = *input.ScheduledDate
		}
		if input.TDSPercentage != nil {
			tax, err := ComputeTDS(payout.Amount.Decimal, *input.TDSPercentage)
			if err != nil {
				return err
			}
			payout.TDSPercentage = tax.TDSPercentage
			payout.TDSAmount = tax.TDSAmount
			payout.NetAmount = tax.NetAmount
		}
		if input.Notes != nil {
			payout.Notes = strings.TrimSpace(*input.Notes)
		}
		payout.UpdatedAt = time.Now()
		return payoutTx.Update(payout)
	})
	if err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(payoutID)
}

// notifyResult 终态结果入队通知，失败仅记录日志不阻塞结算
func (s *PayoutService) notifyResult(payoutID uint, event string) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueuePayoutNotify(queue.PayoutNotifyPayload{
		PayoutID: payoutID,
		Event:    event,
	}); err != nil {
		logger.Warnw("payout_notify_enqueue_failed", "payout_id", payoutID, "event", event, "error", err)
	}
}

// buildPaymentDetails 校验并组装打款凭证，按打款方式要求必填字段
func buildPaymentDetails(input PayoutPaymentInput) (*models.PaymentDetails, error) {
	method := strings.TrimSpace(input.Method)
	transactionID := strings.TrimSpace(input.TransactionID)
	if transactionID == "" || input.TransactionDate.IsZero() {
		return nil, ErrPaymentDetailsMissing
	}

	details := &models.PaymentDetails{
		Method:        method,
		TransactionID: transactionID,
		ProofURL:      strings.TrimSpace(input.ProofURL),
	}
	transactionDate := input.TransactionDate
	details.TransactionDate = &transactionDate

	switch method {
	case constants.PaymentMethodBankTransfer:
		details.BankName = strings.TrimSpace(input.BankName)
		details.AccountNumber = strings.TrimSpace(input.AccountNumber)
		details.IFSCCode = strings.TrimSpace(input.IFSCCode)
		details.AccountHolder = strings.TrimSpace(input.AccountHolder)
		if details.BankName == "" || details.AccountNumber == "" || details.IFSCCode == "" || details.AccountHolder == "" {
			return nil, ErrPaymentDetailsMissing
		}
	case constants.PaymentMethodUPI:
		details.UPIID = strings.TrimSpace(input.UPIID)
		if details.UPIID == "" {
			return nil, ErrPaymentDetailsMissing
		}
	case constants.PaymentMethodCheque:
		details.ChequeNumber = strings.TrimSpace(input.ChequeNumber)
		if details.ChequeNumber == "" {
			return nil, ErrPaymentDetailsMissing
		}
	default:
		return nil, ErrPaymentMethodInvalid
	}
	return details, nil
}

// appendNote 追加备注，保留历史内容
func appendNote(existing, note string) string {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

func generatePayoutNo() string {
	now := time.Now().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("PO%s%s", now, suffix)
}
