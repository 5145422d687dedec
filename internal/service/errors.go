package service

import "errors"

// 服务层统一哨兵错误，处理器按 errors.Is 映射响应码。
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrWeakPassword       = errors.New("密码强度不足")

	ErrRecipientDisabled         = errors.New("收款人已停用")
	ErrRecipientProfileInvalid   = errors.New("收款人信息不完整")
	ErrRecipientRoleInvalid      = errors.New("收款人角色无效")
	ErrRecipientStatusInvalid    = errors.New("收款人状态无效")
	ErrRecipientEmailExists      = errors.New("收款人邮箱已存在")
	ErrMembershipCategoryInvalid = errors.New("会籍类别无效")
	ErrCommissionAmountInvalid   = errors.New("佣金金额无效")

	ErrPeriodInvalid         = errors.New("结算周期无效")
	ErrScheduledDateRequired = errors.New("计划打款日期缺失")
	ErrTaxRateInvalid        = errors.New("TDS 税率无效")
	ErrNoEligibleCommissions = errors.New("周期内没有可结算的佣金")
	ErrConcurrentSettlement  = errors.New("佣金已被其他结算单占用")

	ErrInvalidTransition     = errors.New("当前状态不允许该操作")
	ErrAlreadyTerminal       = errors.New("结算单已处于终态")
	ErrPaymentMethodInvalid  = errors.New("打款方式无效")
	ErrPaymentDetailsMissing = errors.New("打款凭证信息不完整")
	ErrFailureReasonRequired = errors.New("失败原因不能为空")
)
