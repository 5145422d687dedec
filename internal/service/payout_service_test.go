package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPayoutServiceTest(t *testing.T) (*PayoutService, *CommissionService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payout_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Recipient{},
		&models.Commission{},
		&models.Payout{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	payoutRepo := repository.NewPayoutRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	payoutSvc := NewPayoutService(payoutRepo, commissionRepo, recipientRepo, nil)
	commissionSvc := NewCommissionService(commissionRepo, recipientRepo)
	return payoutSvc, commissionSvc, db
}

func createTestRecipient(t *testing.T, db *gorm.DB, role, status string) *models.Recipient {
	t.Helper()
	recipient := &models.Recipient{
		Name:   "Test Recipient",
		Email:  fmt.Sprintf("recipient_%d@example.com", time.Now().UnixNano()),
		Role:   role,
		Status: status,
	}
	if err := db.Create(recipient).Error; err != nil {
		t.Fatalf("create recipient failed: %v", err)
	}
	return recipient
}

func createTestCommission(t *testing.T, db *gorm.DB, recipient *models.Recipient, category, amount string, earnedAt time.Time) *models.Commission {
	t.Helper()
	commission := &models.Commission{
		RecipientID:        recipient.ID,
		RecipientRole:      recipient.Role,
		MembershipCategory: category,
		Amount:             models.NewMoneyFromDecimal(decimal.RequireFromString(amount)),
		SaleRef:            fmt.Sprintf("SALE-%d", time.Now().UnixNano()),
		EarnedAt:           earnedAt,
	}
	if err := db.Create(commission).Error; err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	return commission
}

func testPeriod() (time.Time, time.Time) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}

func createPendingPayout(t *testing.T, svc *PayoutService, db *gorm.DB, recipient *models.Recipient) *models.Payout {
	t.Helper()
	start, end := testPeriod()
	createTestCommission(t, db, recipient, constants.MembershipCategoryFlagship, "1000.00", start.AddDate(0, 0, 5))
	payout, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("create payout failed: %v", err)
	}
	return payout
}

func bankPaymentInput(transactionID string) PayoutPaymentInput {
	return PayoutPaymentInput{
		Method:          constants.PaymentMethodBankTransfer,
		TransactionID:   transactionID,
		TransactionDate: time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC),
		BankName:        "HDFC Bank",
		AccountNumber:   "50100123456789",
		IFSCCode:        "HDFC0001234",
		AccountHolder:   "Test Recipient",
	}
}

func TestCreatePayoutAggregatesCommissions(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleMasterFranchise, constants.RecipientStatusActive)
	start, end := testPeriod()
	createTestCommission(t, db, recipient, constants.MembershipCategoryFlagship, "600.00", start.AddDate(0, 0, 2))
	createTestCommission(t, db, recipient, constants.MembershipCategoryFlagship, "250.50", start.AddDate(0, 0, 10))
	createTestCommission(t, db, recipient, constants.MembershipCategoryDigital, "149.50", start.AddDate(0, 0, 20))
	// 周期外佣金不应纳入
	createTestCommission(t, db, recipient, constants.MembershipCategoryDigital, "999.00", end.AddDate(0, 0, 3))

	payout, err := svc.CreatePayout(7, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("create payout failed: %v", err)
	}
	if payout.Status != constants.PayoutStatusPending {
		t.Fatalf("status want pending got %s", payout.Status)
	}
	if payout.Amount.String() != "1000.00" {
		t.Fatalf("gross amount want 1000.00 got %s", payout.Amount)
	}
	if payout.CommissionCount != 3 {
		t.Fatalf("commission count want 3 got %d", payout.CommissionCount)
	}
	if payout.TDSAmount.String() != "100.00" || payout.NetAmount.String() != "900.00" {
		t.Fatalf("default tds mismatch: tds=%s net=%s", payout.TDSAmount, payout.NetAmount)
	}
	if payout.Currency != constants.SiteCurrencyDefault {
		t.Fatalf("currency want %s got %s", constants.SiteCurrencyDefault, payout.Currency)
	}
	if payout.InitiatedBy != 7 {
		t.Fatalf("initiated_by want 7 got %d", payout.InitiatedBy)
	}
	flagship := payout.Breakdown[constants.MembershipCategoryFlagship]
	if flagship.Count != 2 || flagship.Amount.String() != "850.50" {
		t.Fatalf("flagship breakdown mismatch: %+v", flagship)
	}
	digital := payout.Breakdown[constants.MembershipCategoryDigital]
	if digital.Count != 1 || digital.Amount.String() != "149.50" {
		t.Fatalf("digital breakdown mismatch: %+v", digital)
	}
	if len(payout.Commissions) != 3 {
		t.Fatalf("linked commissions want 3 got %d", len(payout.Commissions))
	}
	for _, row := range payout.Commissions {
		if row.PayoutID == nil || *row.PayoutID != payout.ID || row.SettledAt == nil {
			t.Fatalf("commission %d not linked to payout", row.ID)
		}
	}
}

func TestCreatePayoutBreakdownZeroFillsMissingCategory(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleMasterFranchise, constants.RecipientStatusActive)
	start, end := testPeriod()
	createTestCommission(t, db, recipient, constants.MembershipCategoryFlagship, "1000.00", start.AddDate(0, 0, 2))

	payout, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("create payout failed: %v", err)
	}

	flagship := payout.Breakdown[constants.MembershipCategoryFlagship]
	if flagship.Count != 1 || flagship.Amount.String() != "1000.00" {
		t.Fatalf("flagship breakdown mismatch: %+v", flagship)
	}
	// 没有佣金的类别也要占位记零
	digital, ok := payout.Breakdown[constants.MembershipCategoryDigital]
	if !ok {
		t.Fatalf("digital entry missing from breakdown: %+v", payout.Breakdown)
	}
	if digital.Count != 0 || digital.Amount.String() != "0.00" {
		t.Fatalf("digital breakdown want zero entry got %+v", digital)
	}
}

func TestCreatePayoutCustomRateAndCurrency(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	start, end := testPeriod()
	createTestCommission(t, db, recipient, constants.MembershipCategoryDigital, "200.00", start.AddDate(0, 0, 1))

	rate := decimal.RequireFromString("5")
	payout, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
		TDSPercentage: &rate,
		Currency:      "usd",
	})
	if err != nil {
		t.Fatalf("create payout failed: %v", err)
	}
	if payout.TDSAmount.String() != "10.00" || payout.NetAmount.String() != "190.00" {
		t.Fatalf("custom rate mismatch: tds=%s net=%s", payout.TDSAmount, payout.NetAmount)
	}
	if payout.Currency != "USD" {
		t.Fatalf("currency want USD got %s", payout.Currency)
	}
}

func TestCreatePayoutNoEligibleCommissions(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleDCP, constants.RecipientStatusActive)
	start, end := testPeriod()

	_, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if !errors.Is(err, ErrNoEligibleCommissions) {
		t.Fatalf("want ErrNoEligibleCommissions got %v", err)
	}

	// 同一周期已结算后再次创建也应报无可结算佣金
	createPendingPayout(t, svc, db, recipient)
	_, err = svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if !errors.Is(err, ErrNoEligibleCommissions) {
		t.Fatalf("second create want ErrNoEligibleCommissions got %v", err)
	}
}

func TestCreatePayoutValidation(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	start, end := testPeriod()

	disabled := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusDisabled)
	createTestCommission(t, db, disabled, constants.MembershipCategoryDigital, "100.00", start.AddDate(0, 0, 1))
	_, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   disabled.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if !errors.Is(err, ErrRecipientDisabled) {
		t.Fatalf("disabled recipient want ErrRecipientDisabled got %v", err)
	}

	active := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	_, err = svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   active.ID,
		PeriodStart:   end,
		PeriodEnd:     start,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if !errors.Is(err, ErrPeriodInvalid) {
		t.Fatalf("reversed period want ErrPeriodInvalid got %v", err)
	}

	// 结算周期不可落在未来
	futureStart := time.Now().AddDate(0, 1, 0)
	_, err = svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   active.ID,
		PeriodStart:   futureStart,
		PeriodEnd:     futureStart.AddDate(0, 1, 0),
		ScheduledDate: futureStart.AddDate(0, 2, 0),
	})
	if !errors.Is(err, ErrPeriodInvalid) {
		t.Fatalf("future period want ErrPeriodInvalid got %v", err)
	}

	_, err = svc.CreatePayout(1, PayoutCreateInput{
		RecipientID: active.ID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if !errors.Is(err, ErrScheduledDateRequired) {
		t.Fatalf("missing scheduled date want ErrScheduledDateRequired got %v", err)
	}

	_, err = svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   9999,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing recipient want ErrNotFound got %v", err)
	}
}

func TestCreatePayoutInvalidTaxRate(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	start, end := testPeriod()
	createTestCommission(t, db, recipient, constants.MembershipCategoryDigital, "100.00", start.AddDate(0, 0, 1))

	rate := decimal.RequireFromString("120")
	_, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
		TDSPercentage: &rate,
	})
	if !errors.Is(err, ErrTaxRateInvalid) {
		t.Fatalf("want ErrTaxRateInvalid got %v", err)
	}

	// 事务回滚后佣金仍可结算
	rows, err := repository.NewCommissionRepository(db).ListUnsettledByPeriod(recipient.ID, start, end)
	if err != nil {
		t.Fatalf("list unsettled failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("commission should stay unsettled after rollback, got %d", len(rows))
	}
}

func TestMarkProcessingTransitions(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleMasterFranchise, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)

	updated, err := svc.MarkProcessing(2, payout.ID)
	if err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	if updated.Status != constants.PayoutStatusProcessing {
		t.Fatalf("status want processing got %s", updated.Status)
	}
	if updated.ProcessingStartedAt == nil {
		t.Fatal("processing_started_at should be set")
	}
	if updated.ApprovedBy == nil || *updated.ApprovedBy != 2 {
		t.Fatal("approved_by should record first approver")
	}

	// processing 状态不允许重复推进
	if _, err := svc.MarkProcessing(2, payout.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("processing->processing want ErrInvalidTransition got %v", err)
	}
}

func TestMarkProcessingRetryAfterFailure(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleAreaFranchise, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)

	if _, err := svc.MarkProcessing(2, payout.ID); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	failed, err := svc.MarkFailed(2, payout.ID, "银行账户信息有误")
	if err != nil {
		t.Fatalf("mark failed failed: %v", err)
	}
	if failed.Status != constants.PayoutStatusFailed || failed.FailureReason == "" {
		t.Fatalf("failed state mismatch: %s %q", failed.Status, failed.FailureReason)
	}

	retried, err := svc.MarkProcessing(3, payout.ID)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if retried.RetryCount != 1 {
		t.Fatalf("retry count want 1 got %d", retried.RetryCount)
	}
	if retried.FailureReason != "" {
		t.Fatalf("failure reason should reset, got %q", retried.FailureReason)
	}
	if retried.ApprovedBy == nil || *retried.ApprovedBy != 2 {
		t.Fatal("approved_by should keep first approver")
	}
}

func TestMarkFailedValidation(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)

	if _, err := svc.MarkFailed(2, payout.ID, "  "); !errors.Is(err, ErrFailureReasonRequired) {
		t.Fatalf("blank reason want ErrFailureReasonRequired got %v", err)
	}
	// pending 不能直接失败
	if _, err := svc.MarkFailed(2, payout.ID, "打款失败"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending->failed want ErrInvalidTransition got %v", err)
	}
}

func TestMarkDoneLifecycle(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleMasterFranchise, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)

	// pending 不能直接完成
	if _, err := svc.MarkDone(2, payout.ID, bankPaymentInput("TXN-001")); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending->done want ErrInvalidTransition got %v", err)
	}

	if _, err := svc.MarkProcessing(2, payout.ID); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	done, err := svc.MarkDone(3, payout.ID, bankPaymentInput("TXN-001"))
	if err != nil {
		t.Fatalf("mark done failed: %v", err)
	}
	if done.Status != constants.PayoutStatusDone {
		t.Fatalf("status want done got %s", done.Status)
	}
	if done.PaidDate == nil || done.ProcessingCompletedAt == nil {
		t.Fatal("paid_date and processing_completed_at should be set")
	}
	if done.PaymentDetails == nil || done.PaymentDetails.TransactionID != "TXN-001" {
		t.Fatal("payment details should record transaction")
	}
	if done.ProcessedBy == nil || *done.ProcessedBy != 3 {
		t.Fatal("processed_by should record operator")
	}

	// 同一交易流水号重复提交幂等返回
	again, err := svc.MarkDone(3, payout.ID, bankPaymentInput("TXN-001"))
	if err != nil {
		t.Fatalf("idempotent mark done failed: %v", err)
	}
	if again.Status != constants.PayoutStatusDone {
		t.Fatalf("idempotent status want done got %s", again.Status)
	}

	// 不同流水号视为冲突
	if _, err := svc.MarkDone(3, payout.ID, bankPaymentInput("TXN-002")); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("different transaction want ErrAlreadyTerminal got %v", err)
	}

	// 终态后不可再推进或取消
	if _, err := svc.MarkProcessing(3, payout.ID); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("done->processing want ErrAlreadyTerminal got %v", err)
	}
	if _, err := svc.CancelPayout(3, payout.ID, ""); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("done->cancelled want ErrAlreadyTerminal got %v", err)
	}
}

func TestMarkDonePaymentDetailsValidation(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)
	if _, err := svc.MarkProcessing(2, payout.ID); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}

	input := bankPaymentInput("TXN-100")
	input.TransactionID = ""
	if _, err := svc.MarkDone(2, payout.ID, input); !errors.Is(err, ErrPaymentDetailsMissing) {
		t.Fatalf("missing transaction id want ErrPaymentDetailsMissing got %v", err)
	}

	input = bankPaymentInput("TXN-100")
	input.IFSCCode = ""
	if _, err := svc.MarkDone(2, payout.ID, input); !errors.Is(err, ErrPaymentDetailsMissing) {
		t.Fatalf("missing ifsc want ErrPaymentDetailsMissing got %v", err)
	}

	upi := PayoutPaymentInput{
		Method:          constants.PaymentMethodUPI,
		TransactionID:   "TXN-101",
		TransactionDate: time.Now(),
	}
	if _, err := svc.MarkDone(2, payout.ID, upi); !errors.Is(err, ErrPaymentDetailsMissing) {
		t.Fatalf("missing upi id want ErrPaymentDetailsMissing got %v", err)
	}

	bad := bankPaymentInput("TXN-102")
	bad.Method = "cash"
	if _, err := svc.MarkDone(2, payout.ID, bad); !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("unknown method want ErrPaymentMethodInvalid got %v", err)
	}

	// 校验失败不应改变结算单状态
	current, err := svc.GetPayout(payout.ID)
	if err != nil {
		t.Fatalf("get payout failed: %v", err)
	}
	if current.Status != constants.PayoutStatusProcessing {
		t.Fatalf("status should stay processing, got %s", current.Status)
	}
}

func TestMarkDoneUPIAndCheque(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleDCP, constants.RecipientStatusActive)

	payout := createPendingPayout(t, svc, db, recipient)
	if _, err := svc.MarkProcessing(2, payout.ID); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	done, err := svc.MarkDone(2, payout.ID, PayoutPaymentInput{
		Method:          constants.PaymentMethodUPI,
		TransactionID:   "UPI-001",
		TransactionDate: time.Now(),
		UPIID:           "recipient@okhdfc",
	})
	if err != nil {
		t.Fatalf("upi mark done failed: %v", err)
	}
	if done.PaymentDetails.UPIID != "recipient@okhdfc" {
		t.Fatalf("upi id mismatch: %+v", done.PaymentDetails)
	}
}

func TestCancelPayoutReleasesCommissions(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleMasterFranchise, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)

	cancelled, err := svc.CancelPayout(5, payout.ID, "周期有误，重新结算")
	if err != nil {
		t.Fatalf("cancel payout failed: %v", err)
	}
	if cancelled.Status != constants.PayoutStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	if cancelled.Notes == "" {
		t.Fatal("cancel reason should be recorded in notes")
	}
	if cancelled.ProcessedBy == nil || *cancelled.ProcessedBy != 5 {
		t.Fatal("processed_by should record operator")
	}

	// 佣金回池后可再次结算
	start, end := testPeriod()
	rows, err := repository.NewCommissionRepository(db).ListUnsettledByPeriod(recipient.ID, start, end)
	if err != nil {
		t.Fatalf("list unsettled failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("commissions should return to pool, got %d", len(rows))
	}
	recreated, err := svc.CreatePayout(1, PayoutCreateInput{
		RecipientID:   recipient.ID,
		PeriodStart:   start,
		PeriodEnd:     end,
		ScheduledDate: end.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("recreate payout failed: %v", err)
	}
	if recreated.ID == payout.ID {
		t.Fatal("recreated payout should be a new record")
	}
}

func TestCancelPayoutRequiresPending(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)
	if _, err := svc.MarkProcessing(2, payout.ID); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	if _, err := svc.CancelPayout(2, payout.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("processing->cancelled want ErrInvalidTransition got %v", err)
	}
}

func TestUpdatePayoutRecomputesTax(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleAreaFranchise, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)

	rate := decimal.RequireFromString("5")
	newDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	notes := "税率调整为 5%"
	updated, err := svc.UpdatePayout(payout.ID, PayoutUpdateInput{
		ScheduledDate: &newDate,
		TDSPercentage: &rate,
		Notes:         &notes,
	})
	if err != nil {
		t.Fatalf("update payout failed: %v", err)
	}
	if updated.TDSAmount.String() != "50.00" || updated.NetAmount.String() != "950.00" {
		t.Fatalf("recomputed tax mismatch: tds=%s net=%s", updated.TDSAmount, updated.NetAmount)
	}
	if !updated.ScheduledDate.Equal(newDate) {
		t.Fatalf("scheduled date want %s got %s", newDate, updated.ScheduledDate)
	}
	if updated.Notes != notes {
		t.Fatalf("notes want %q got %q", notes, updated.Notes)
	}

	bad := decimal.RequireFromString("-3")
	if _, err := svc.UpdatePayout(payout.ID, PayoutUpdateInput{TDSPercentage: &bad}); !errors.Is(err, ErrTaxRateInvalid) {
		t.Fatalf("negative rate want ErrTaxRateInvalid got %v", err)
	}
}

func TestUpdatePayoutOnlyPending(t *testing.T) {
	svc, _, db := setupPayoutServiceTest(t)
	recipient := createTestRecipient(t, db, constants.RecipientRoleCGC, constants.RecipientStatusActive)
	payout := createPendingPayout(t, svc, db, recipient)
	if _, err := svc.MarkProcessing(2, payout.ID); err != nil {
		t.Fatalf("mark processing failed: %v", err)
	}
	notes := "changed"
	if _, err := svc.UpdatePayout(payout.ID, PayoutUpdateInput{Notes: &notes}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("update processing payout want ErrInvalidTransition got %v", err)
	}
}
