package service

import (
	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"
	"github.com/shopspring/decimal"
)

var defaultTDSRate = decimal.RequireFromString(constants.DefaultTDSPercentage)

// TaxBreakdown TDS 计税结果（金额均保留 2 位小数）
type TaxBreakdown struct {
	TDSPercentage models.Money
	TDSAmount     models.Money
	NetAmount     models.Money
}

// DefaultTDSRate 默认 TDS 税率（百分比）
func DefaultTDSRate() decimal.Decimal {
	return defaultTDSRate
}

// ComputeTDS 按税率计算 TDS 扣税与实付金额。
// 扣税金额 = 税前金额 * 税率 / 100，四舍五入到 2 位小数（0.5 进位）；
// 实付金额 = 税前金额 - 扣税金额，保证两者与税前金额严格相加闭合。
func ComputeTDS(gross, ratePercent decimal.Decimal) (TaxBreakdown, error) {
	if gross.IsNegative() {
		return TaxBreakdown{}, ErrCommissionAmountInvalid
	}
	if ratePercent.IsNegative() || ratePercent.GreaterThan(decimal.NewFromInt(100)) {
		return TaxBreakdown{}, ErrTaxRateInvalid
	}

	grossRounded := gross.Round(2)
	tds := grossRounded.Mul(ratePercent).Div(decimal.NewFromInt(100)).Round(2)
	net := grossRounded.Sub(tds)

	return TaxBreakdown{
		TDSPercentage: models.NewMoneyFromDecimal(ratePercent),
		TDSAmount:     models.NewMoneyFromDecimal(tds),
		NetAmount:     models.NewMoneyFromDecimal(net),
	}, nil
}
