package constants

// 结算单状态常量
const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusDone       = "done"
	PayoutStatusFailed     = "failed"
	PayoutStatusCancelled  = "cancelled"
)

// 收款人角色常量
const (
	RecipientRoleAdmin           = "admin"
	RecipientRoleMasterFranchise = "master-franchise"
	RecipientRoleAreaFranchise   = "area-franchise"
	RecipientRoleCGC             = "cgc"
	RecipientRoleDCP             = "dcp"
	RecipientRoleCoreMember      = "core-member"
)

// 收款人状态常量
const (
	RecipientStatusActive   = "active"
	RecipientStatusDisabled = "disabled"
)

// 会籍类别常量
const (
	MembershipCategoryFlagship = "flagship"
	MembershipCategoryDigital  = "digital"
)

// 打款方式常量
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodUPI          = "upi"
	PaymentMethodCheque       = "cheque"
)

// 角色动作常量
const (
	RoleActionReceivePayout  = "receive_payout"
	RoleActionEarnCommission = "earn_commission"
	RoleActionManagePayouts  = "manage_payouts"
)

// 队列常量
const (
	QueueDefault      = "default"
	TaskPayoutNotify  = "payout:notify"
	TaskOverdueDigest = "payout:overdue_digest"
)

// 结算事件常量
const (
	PayoutEventDone   = "payout_done"
	PayoutEventFailed = "payout_failed"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sf"
)

// 税务默认配置常量
const (
	DefaultTDSPercentage = "10"
)

// 币种常量
const (
	SiteCurrencyDefault = "INR"
)
