package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/settleflow/internal/config"
	"github.com/settleflow/internal/models"
	"github.com/settleflow/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-for-auth-service-tests"
	cfg.JWT.ExpireHours = 24
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	return NewAuthService(cfg, repository.NewAdminRepository(db)), db
}

func createTestAdmin(t *testing.T, svc *AuthService, db *gorm.DB, username, password string) *models.Admin {
	t.Helper()
	hash, err := svc.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return admin
}

func TestAuthServiceLogin(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "ops", "Settle@2026")

	admin, token, expiresAt, err := svc.Login("ops", "Settle@2026")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("token should not be empty")
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("token should expire in the future")
	}
	if admin.LastLoginAt == nil {
		t.Fatal("last login time should be recorded")
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "ops" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	createTestAdmin(t, svc, db, "ops", "Settle@2026")

	if _, _, _, err := svc.Login("ops", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "Settle@2026"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	admin := createTestAdmin(t, svc, db, "ops", "Settle@2026")

	if err := svc.ChangePassword(admin.ID, "wrong", "NewSettle1"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong old password want ErrInvalidPassword got %v", err)
	}
	if err := svc.ChangePassword(admin.ID, "Settle@2026", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password want ErrWeakPassword got %v", err)
	}
	if err := svc.ChangePassword(9999, "Settle@2026", "NewSettle1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing admin want ErrNotFound got %v", err)
	}

	if err := svc.ChangePassword(admin.ID, "Settle@2026", "NewSettle1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	var stored models.Admin
	if err := db.First(&stored, admin.ID).Error; err != nil {
		t.Fatalf("load admin failed: %v", err)
	}
	if stored.TokenVersion != admin.TokenVersion+1 {
		t.Fatalf("token version should bump, got %d", stored.TokenVersion)
	}
	if stored.TokenInvalidBefore == nil {
		t.Fatal("token_invalid_before should be set")
	}
	if _, _, _, err := svc.Login("ops", "NewSettle1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestValidatePasswordPolicy(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	cases := []struct {
		password string
		ok       bool
	}{
		{"NewSettle1", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoNumbersHere", false},
	}
	for _, tc := range cases {
		err := svc.ValidatePassword(tc.password)
		if tc.ok && err != nil {
			t.Fatalf("password %q should pass, got %v", tc.password, err)
		}
		if !tc.ok && !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q want ErrWeakPassword got %v", tc.password, err)
		}
	}
}
