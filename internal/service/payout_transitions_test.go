package service

import (
	"errors"
	"testing"

	"github.com/settleflow/internal/constants"
)

func TestPayoutTerminal(t *testing.T) {
	for _, status := range []string{constants.PayoutStatusDone, constants.PayoutStatusCancelled} {
		if !PayoutTerminal(status) {
			t.Fatalf("%s should be terminal", status)
		}
	}
	for _, status := range []string{constants.PayoutStatusPending, constants.PayoutStatusProcessing, constants.PayoutStatusFailed} {
		if PayoutTerminal(status) {
			t.Fatalf("%s should not be terminal", status)
		}
	}
}

func TestCheckPayoutTransition(t *testing.T) {
	statuses := []string{
		constants.PayoutStatusPending,
		constants.PayoutStatusProcessing,
		constants.PayoutStatusDone,
		constants.PayoutStatusFailed,
		constants.PayoutStatusCancelled,
	}
	allowed := map[[2]string]bool{
		{constants.PayoutStatusPending, constants.PayoutStatusProcessing}: true,
		{constants.PayoutStatusPending, constants.PayoutStatusCancelled}:  true,
		{constants.PayoutStatusProcessing, constants.PayoutStatusDone}:    true,
		{constants.PayoutStatusProcessing, constants.PayoutStatusFailed}:  true,
		{constants.PayoutStatusFailed, constants.PayoutStatusProcessing}:  true,
	}

	// 全组合校验：终态出发报终态冲突，其余非法迁移报 InvalidTransition
	for _, from := range statuses {
		for _, to := range statuses {
			err := checkPayoutTransition(from, to)
			switch {
			case allowed[[2]string{from, to}]:
				if err != nil {
					t.Fatalf("%s -> %s should be allowed, got %v", from, to, err)
				}
			case PayoutTerminal(from):
				if !errors.Is(err, ErrAlreadyTerminal) {
					t.Fatalf("%s -> %s want ErrAlreadyTerminal got %v", from, to, err)
				}
			default:
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s -> %s want ErrInvalidTransition got %v", from, to, err)
				}
			}
		}
	}
}
