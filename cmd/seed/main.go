package main

import (
	"fmt"
	"time"

	"github.com/settleflow/internal/config"
	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/logger"
	"github.com/settleflow/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加收款人
	recipients := []models.Recipient{
		{
			Name:             "Rohan Mehta",
			Email:            "rohan.mehta@example.com",
			Phone:            "+91-9810012345",
			Role:             constants.RecipientRoleMasterFranchise,
			BusinessCategory: constants.MembershipCategoryFlagship,
			Status:           constants.RecipientStatusActive,
		},
		{
			Name:             "Priya Sharma",
			Email:            "priya.sharma@example.com",
			Phone:            "+91-9810023456",
			Role:             constants.RecipientRoleAreaFranchise,
			BusinessCategory: constants.MembershipCategoryFlagship,
			Status:           constants.RecipientStatusActive,
		},
		{
			Name:             "Arjun Iyer",
			Email:            "arjun.iyer@example.com",
			Phone:            "+91-9810034567",
			Role:             constants.RecipientRoleCGC,
			BusinessCategory: constants.MembershipCategoryDigital,
			Status:           constants.RecipientStatusActive,
		},
		{
			Name:             "Sneha Patel",
			Email:            "sneha.patel@example.com",
			Phone:            "+91-9810045678",
			Role:             constants.RecipientRoleDCP,
			BusinessCategory: constants.MembershipCategoryDigital,
			Status:           constants.RecipientStatusActive,
		},
		{
			Name:             "Vikram Rao",
			Email:            "vikram.rao@example.com",
			Phone:            "+91-9810056789",
			Role:             constants.RecipientRoleCoreMember,
			BusinessCategory: constants.MembershipCategoryFlagship,
			Status:           constants.RecipientStatusDisabled,
		},
	}

	recipientIDs := map[string]uint{}
	for _, rec := range recipients {
		var existing models.Recipient
		if err := models.DB.Where("email = ?", rec.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&rec).Error; err != nil {
				stdLog.Printf("Failed to create recipient %s: %v", rec.Email, err)
				continue
			}
			stdLog.Printf("Created recipient: %s", rec.Email)
			recipientIDs[rec.Email] = rec.ID
		} else {
			stdLog.Printf("Recipient already exists: %s", rec.Email)
			recipientIDs[rec.Email] = existing.ID
		}
	}

	// 添加佣金流水（近两个月，覆盖两类会籍）
	now := time.Now()
	commissionPlans := []struct {
		Email    string
		Category string
		Amount   string
		SaleRef  string
		DaysAgo  int
	}{
		{Email: "rohan.mehta@example.com", Category: constants.MembershipCategoryFlagship, Amount: "12500.00", SaleRef: "SALE-1001", DaysAgo: 45},
		{Email: "rohan.mehta@example.com", Category: constants.MembershipCategoryFlagship, Amount: "9800.50", SaleRef: "SALE-1002", DaysAgo: 30},
		{Email: "rohan.mehta@example.com", Category: constants.MembershipCategoryDigital, Amount: "3200.00", SaleRef: "SALE-1003", DaysAgo: 12},
		{Email: "priya.sharma@example.com", Category: constants.MembershipCategoryFlagship, Amount: "7600.00", SaleRef: "SALE-1004", DaysAgo: 25},
		{Email: "priya.sharma@example.com", Category: constants.MembershipCategoryDigital, Amount: "1450.75", SaleRef: "SALE-1005", DaysAgo: 10},
		{Email: "arjun.iyer@example.com", Category: constants.MembershipCategoryDigital, Amount: "2100.00", SaleRef: "SALE-1006", DaysAgo: 18},
		{Email: "arjun.iyer@example.com", Category: constants.MembershipCategoryDigital, Amount: "1890.25", SaleRef: "SALE-1007", DaysAgo: 6},
		{Email: "sneha.patel@example.com", Category: constants.MembershipCategoryDigital, Amount: "950.00", SaleRef: "SALE-1008", DaysAgo: 3},
	}

	for _, plan := range commissionPlans {
		recipientID, ok := recipientIDs[plan.Email]
		if !ok || recipientID == 0 {
			stdLog.Printf("Skip commission %s: recipient not found", plan.SaleRef)
			continue
		}
		var existing models.Commission
		if err := models.DB.Where("sale_ref = ?", plan.SaleRef).First(&existing).Error; err == nil {
			stdLog.Printf("Commission already exists: %s", plan.SaleRef)
			continue
		}

		var recipient models.Recipient
		if err := models.DB.First(&recipient, recipientID).Error; err != nil {
			stdLog.Printf("Skip commission %s: load recipient failed: %v", plan.SaleRef, err)
			continue
		}
		amount, err := models.NewMoneyFromString(plan.Amount)
		if err != nil {
			stdLog.Printf("Skip commission %s: bad amount %s", plan.SaleRef, plan.Amount)
			continue
		}
		commission := models.Commission{
			RecipientID:        recipient.ID,
			RecipientRole:      recipient.Role,
			MembershipCategory: plan.Category,
			Amount:             amount,
			SaleRef:            plan.SaleRef,
			EarnedAt:           now.AddDate(0, 0, -plan.DaysAgo),
		}
		if err := models.DB.Create(&commission).Error; err != nil {
			stdLog.Printf("Failed to create commission %s: %v", plan.SaleRef, err)
		} else {
			stdLog.Printf("Created commission: %s (%s %s)", plan.SaleRef, plan.Amount, plan.Category)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 5 Recipients (4 active + 1 disabled)")
	fmt.Println("- 8 Unsettled commissions across two membership categories")
}
