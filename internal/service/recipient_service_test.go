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
	"gorm.io/gorm"
)

func setupRecipientServiceTest(t *testing.T) (*RecipientService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:recipient_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Recipient{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewRecipientService(repository.NewRecipientRepository(db)), db
}

func TestCreateRecipient(t *testing.T) {
	svc, _ := setupRecipientServiceTest(t)

	recipient, err := svc.CreateRecipient(RecipientCreateInput{
		Name:             "  Rohan Mehta  ",
		Email:            " Rohan.Mehta@Example.com ",
		Phone:            "+91-9810012345",
		Role:             constants.RecipientRoleMasterFranchise,
		BusinessCategory: constants.MembershipCategoryFlagship,
	})
	if err != nil {
		t.Fatalf("create recipient failed: %v", err)
	}
	if recipient.Name != "Rohan Mehta" {
		t.Fatalf("name should be trimmed, got %q", recipient.Name)
	}
	if recipient.Email != "rohan.mehta@example.com" {
		t.Fatalf("email should be normalized, got %q", recipient.Email)
	}
	if recipient.Status != constants.RecipientStatusActive {
		t.Fatalf("new recipient should be active, got %s", recipient.Status)
	}

	// 邮箱唯一
	_, err = svc.CreateRecipient(RecipientCreateInput{
		Name:  "Another",
		Email: "ROHAN.MEHTA@example.com",
		Role:  constants.RecipientRoleCGC,
	})
	if !errors.Is(err, ErrRecipientEmailExists) {
		t.Fatalf("duplicate email want ErrRecipientEmailExists got %v", err)
	}
}

func TestCreateRecipientValidation(t *testing.T) {
	svc, _ := setupRecipientServiceTest(t)

	_, err := svc.CreateRecipient(RecipientCreateInput{Name: "", Email: "a@b.com", Role: constants.RecipientRoleCGC})
	if !errors.Is(err, ErrRecipientProfileInvalid) {
		t.Fatalf("blank name want ErrRecipientProfileInvalid got %v", err)
	}
	_, err = svc.CreateRecipient(RecipientCreateInput{Name: "A", Email: "a@b.com", Role: "reseller"})
	if !errors.Is(err, ErrRecipientRoleInvalid) {
		t.Fatalf("unknown role want ErrRecipientRoleInvalid got %v", err)
	}
	_, err = svc.CreateRecipient(RecipientCreateInput{
		Name:             "A",
		Email:            "a@b.com",
		Role:             constants.RecipientRoleCGC,
		BusinessCategory: "platinum",
	})
	if !errors.Is(err, ErrMembershipCategoryInvalid) {
		t.Fatalf("unknown category want ErrMembershipCategoryInvalid got %v", err)
	}
}

func TestUpdateRecipient(t *testing.T) {
	svc, _ := setupRecipientServiceTest(t)
	created, err := svc.CreateRecipient(RecipientCreateInput{
		Name:  "Priya Sharma",
		Email: "priya@example.com",
		Role:  constants.RecipientRoleAreaFranchise,
	})
	if err != nil {
		t.Fatalf("create recipient failed: %v", err)
	}

	name := "Priya S"
	phone := "+91-9810000000"
	category := constants.MembershipCategoryDigital
	updated, err := svc.UpdateRecipient(created.ID, RecipientUpdateInput{
		Name:             &name,
		Phone:            &phone,
		BusinessCategory: &category,
	})
	if err != nil {
		t.Fatalf("update recipient failed: %v", err)
	}
	if updated.Name != "Priya S" || updated.Phone != phone || updated.BusinessCategory != category {
		t.Fatalf("update mismatch: %+v", updated)
	}

	bad := "platinum"
	if _, err := svc.UpdateRecipient(created.ID, RecipientUpdateInput{BusinessCategory: &bad}); !errors.Is(err, ErrMembershipCategoryInvalid) {
		t.Fatalf("unknown category want ErrMembershipCategoryInvalid got %v", err)
	}
	if _, err := svc.UpdateRecipient(9999, RecipientUpdateInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing recipient want ErrNotFound got %v", err)
	}
}

func TestUpdateRecipientStatus(t *testing.T) {
	svc, db := setupRecipientServiceTest(t)
	created, err := svc.CreateRecipient(RecipientCreateInput{
		Name:  "Vikram Rao",
		Email: "vikram@example.com",
		Role:  constants.RecipientRoleCoreMember,
	})
	if err != nil {
		t.Fatalf("create recipient failed: %v", err)
	}

	disabled, err := svc.UpdateRecipientStatus(created.ID, constants.RecipientStatusDisabled)
	if err != nil {
		t.Fatalf("disable recipient failed: %v", err)
	}
	if disabled.Status != constants.RecipientStatusDisabled {
		t.Fatalf("status want disabled got %s", disabled.Status)
	}

	var stored models.Recipient
	if err := db.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("load recipient failed: %v", err)
	}
	if stored.Status != constants.RecipientStatusDisabled {
		t.Fatalf("stored status want disabled got %s", stored.Status)
	}

	if _, err := svc.UpdateRecipientStatus(created.ID, "archived"); !errors.Is(err, ErrRecipientStatusInvalid) {
		t.Fatalf("unknown status want ErrRecipientStatusInvalid got %v", err)
	}
}

func TestListRecipients(t *testing.T) {
	svc, _ := setupRecipientServiceTest(t)
	seed := []RecipientCreateInput{
		{Name: "Rohan Mehta", Email: "rohan@example.com", Role: constants.RecipientRoleMasterFranchise},
		{Name: "Priya Sharma", Email: "priya@example.com", Role: constants.RecipientRoleAreaFranchise},
		{Name: "Arjun Iyer", Email: "arjun@example.com", Role: constants.RecipientRoleCGC},
	}
	for _, input := range seed {
		if _, err := svc.CreateRecipient(input); err != nil {
			t.Fatalf("create recipient %s failed: %v", input.Email, err)
		}
	}

	_, total, err := svc.ListRecipients(repository.RecipientListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list recipients failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}

	rows, total, err := svc.ListRecipients(repository.RecipientListFilter{
		Role:     constants.RecipientRoleCGC,
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("list by role failed: %v", err)
	}
	if total != 1 || rows[0].Email != "arjun@example.com" {
		t.Fatalf("role filter mismatch: total=%d", total)
	}

	rows, total, err = svc.ListRecipients(repository.RecipientListFilter{
		Keyword:  "priya",
		Page:     1,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("list by keyword failed: %v", err)
	}
	if total != 1 || rows[0].Email != "priya@example.com" {
		t.Fatalf("keyword filter mismatch: total=%d", total)
	}
}
