package service

import "github.com/settleflow/internal/constants"

// payoutTransitions 结算单状态机：当前状态 -> 允许进入的下一状态
var payoutTransitions = map[string][]string{
	constants.PayoutStatusPending:    {constants.PayoutStatusProcessing, constants.PayoutStatusCancelled},
	constants.PayoutStatusProcessing: {constants.PayoutStatusDone, constants.PayoutStatusFailed},
	constants.PayoutStatusFailed:     {constants.PayoutStatusProcessing},
}

// PayoutTerminal 判断结算单状态是否为终态
func PayoutTerminal(status string) bool {
	return status == constants.PayoutStatusDone || status == constants.PayoutStatusCancelled
}

// checkPayoutTransition 校验状态迁移，终态出发返回 ErrAlreadyTerminal，其余非法迁移返回 ErrInvalidTransition
func checkPayoutTransition(from, to string) error {
	if PayoutTerminal(from) {
		return ErrAlreadyTerminal
	}
	for _, allowed := range payoutTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return ErrInvalidTransition
}
