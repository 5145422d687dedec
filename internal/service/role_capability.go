package service

import (
	"strings"

	"github.com/settleflow/internal/constants"
)

// RoleCapability 角色能力集（静态表，不做运行时授权扩展）
type RoleCapability struct {
	EarnCommission bool
	ReceivePayout  bool
	ManagePayouts  bool
}

var roleCapabilities = map[string]RoleCapability{
	constants.RecipientRoleAdmin:           {EarnCommission: true, ReceivePayout: true, ManagePayouts: true},
	constants.RecipientRoleMasterFranchise: {EarnCommission: true, ReceivePayout: true},
	constants.RecipientRoleAreaFranchise:   {EarnCommission: true, ReceivePayout: true},
	constants.RecipientRoleCGC:             {EarnCommission: true, ReceivePayout: true},
	constants.RecipientRoleDCP:             {EarnCommission: true, ReceivePayout: true},
	constants.RecipientRoleCoreMember:      {EarnCommission: true, ReceivePayout: true},
}

// KnownRole 判断角色是否在角色表内
func KnownRole(role string) bool {
	_, ok := roleCapabilities[strings.TrimSpace(role)]
	return ok
}

// RoleCan 判断角色是否具备指定动作能力，未知角色一律拒绝
func RoleCan(role, action string) bool {
	cap, ok := roleCapabilities[strings.TrimSpace(role)]
	if !ok {
		return false
	}
	switch action {
	case constants.RoleActionEarnCommission:
		return cap.EarnCommission
	case constants.RoleActionReceivePayout:
		return cap.ReceivePayout
	case constants.RoleActionManagePayouts:
		return cap.ManagePayouts
	}
	return false
}

// KnownMembershipCategory 判断会籍类别是否有效
func KnownMembershipCategory(category string) bool {
	switch strings.TrimSpace(category) {
	case constants.MembershipCategoryFlagship, constants.MembershipCategoryDigital:
		return true
	}
	return false
}
