//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Recipient{},
		&models.Commission{},
		&models.Payout{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		db.Exec("DELETE FROM commissions")
		db.Exec("DELETE FROM payouts")
		db.Exec("DELETE FROM recipients")
		db.Exec("DELETE FROM admins")
	}
	cleanup()
	t.Cleanup(cleanup)
	return db
}

func TestPostgresRecipientKeywordSearchCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewRecipientRepository(db)

	recipient := &models.Recipient{
		Name:   "Rohan Mehta",
		Email:  "rohan.integration@example.com",
		Role:   constants.RecipientRoleMasterFranchise,
		Status: constants.RecipientStatusActive,
	}
	if err := repo.Create(recipient); err != nil {
		t.Fatalf("create recipient: %v", err)
	}

	// postgres 走 ILIKE，大小写不敏感
	rows, total, err := repo.List(RecipientListFilter{Keyword: "ROHAN", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list recipients: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("keyword search want 1 row got total=%d len=%d", total, len(rows))
	}
	if rows[0].Email != "rohan.integration@example.com" {
		t.Fatalf("unexpected recipient %s", rows[0].Email)
	}
}

func TestPostgresPayoutBreakdownRoundTrip(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPayoutRepository(db)

	paid := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	payout := &models.Payout{
		PayoutNo: "PO-PG-0001",
		Recipient: models.RecipientSnapshot{
			RecipientID: 1,
			Name:        "Priya Sharma",
			Email:       "priya.integration@example.com",
		},
		RecipientRole: constants.RecipientRoleAreaFranchise,
		Amount:        models.NewMoneyFromDecimal(decimal.RequireFromString("1000.00")),
		Currency:      "INR",
		PeriodStart:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
		Status:        constants.PayoutStatusDone,
		Breakdown: models.PayoutBreakdown{
			constants.MembershipCategoryFlagship: {Count: 2, Amount: models.NewMoneyFromDecimal(decimal.RequireFromString("800.00"))},
			constants.MembershipCategoryDigital:  {Count: 1, Amount: models.NewMoneyFromDecimal(decimal.RequireFromString("200.00"))},
		},
		TDSPercentage: models.NewMoneyFromDecimal(decimal.RequireFromString("10")),
		TDSAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("100.00")),
		NetAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("900.00")),
		ScheduledDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		PaidDate:      &paid,
		InitiatedBy:   1,
	}
	if err := repo.Create(payout); err != nil {
		t.Fatalf("create payout: %v", err)
	}

	loaded, err := repo.GetByPayoutNo("PO-PG-0001")
	if err != nil {
		t.Fatalf("get payout: %v", err)
	}
	if loaded == nil {
		t.Fatal("payout not found")
	}
	entry, ok := loaded.Breakdown[constants.MembershipCategoryFlagship]
	if !ok || entry.Count != 2 || !entry.Amount.Equal(decimal.RequireFromString("800.00")) {
		t.Fatalf("flagship breakdown mismatch: %+v", loaded.Breakdown)
	}
}

func TestPostgresPayoutKeywordSearchCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPayoutRepository(db)

	payout := &models.Payout{
		PayoutNo: "PO-PG-0201",
		Recipient: models.RecipientSnapshot{
			RecipientID: 1,
			Name:        "Sneha Patel",
			Email:       "sneha.integration@example.com",
		},
		RecipientRole: constants.RecipientRoleDCP,
		Amount:        models.NewMoneyFromDecimal(decimal.RequireFromString("500.00")),
		Currency:      "INR",
		PeriodStart:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
		Status:        constants.PayoutStatusPending,
		TDSPercentage: models.NewMoneyFromDecimal(decimal.RequireFromString("10")),
		TDSAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("50.00")),
		NetAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("450.00")),
		ScheduledDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		InitiatedBy:   1,
	}
	if err := repo.Create(payout); err != nil {
		t.Fatalf("create payout: %v", err)
	}

	// 结算单关键字搜索同样走 ILIKE
	rows, total, err := repo.List(PayoutListFilter{Keyword: "SNEHA", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list payouts: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].PayoutNo != "PO-PG-0201" {
		t.Fatalf("keyword search want PO-PG-0201 got total=%d", total)
	}

	rows, total, err = repo.List(PayoutListFilter{PayoutNo: "po-pg-0201", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by payout no: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("payout no search want 1 got total=%d", total)
	}
}

func TestPostgresPayoutMonthlySummary(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPayoutRepository(db)

	seed := []struct {
		No     string
		Status string
		Amount string
		TDS    string
		Net    string
	}{
		{No: "PO-PG-0101", Status: constants.PayoutStatusDone, Amount: "1000.00", TDS: "100.00", Net: "900.00"},
		{No: "PO-PG-0102", Status: constants.PayoutStatusPending, Amount: "500.00", TDS: "50.00", Net: "450.00"},
	}
	for _, item := range seed {
		payout := &models.Payout{
			PayoutNo:      item.No,
			Recipient:     models.RecipientSnapshot{RecipientID: 1},
			RecipientRole: constants.RecipientRoleCGC,
			Amount:        models.NewMoneyFromDecimal(decimal.RequireFromString(item.Amount)),
			Currency:      "INR",
			PeriodStart:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:     time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
			Status:        item.Status,
			TDSPercentage: models.NewMoneyFromDecimal(decimal.RequireFromString("10")),
			TDSAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString(item.TDS)),
			NetAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString(item.Net)),
			ScheduledDate: time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC),
			InitiatedBy:   1,
		}
		if err := repo.Create(payout); err != nil {
			t.Fatalf("create payout %s: %v", item.No, err)
		}
	}

	summary, err := repo.SummarizeByMonth(2026, time.April)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("summary count want 2 got %d", summary.Count)
	}
	if !summary.TotalAmount.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("total amount want 1500.00 got %s", summary.TotalAmount)
	}
	if !summary.TotalNet.Equal(decimal.RequireFromString("1350.00")) {
		t.Fatalf("total net want 1350.00 got %s", summary.TotalNet)
	}
	done, ok := summary.ByStatus[constants.PayoutStatusDone]
	if !ok || done.Count != 1 {
		t.Fatalf("done aggregate mismatch: %+v", summary.ByStatus)
	}
}
