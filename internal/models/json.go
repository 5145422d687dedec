package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// BreakdownEntry 单一会籍类别的佣金汇总
type BreakdownEntry struct {
	Amount Money `json:"amount"` // 类别金额小计
	Count  int   `json:"count"`  // 类别佣金条数
}

// PayoutBreakdown 按会籍类别拆分的佣金汇总（类别 -> 小计）
type PayoutBreakdown map[string]BreakdownEntry

// Value 实现 driver.Valuer 接口
func (b PayoutBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Scan 实现 sql.Scanner 接口
func (b *PayoutBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = make(PayoutBreakdown)
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	}
	return nil
}

// PaymentDetails 打款凭证明细（打款完成后写入）
type PaymentDetails struct {
	Method          string     `json:"method"`                     // 打款方式
	TransactionID   string     `json:"transaction_id"`             // 交易流水号
	TransactionDate *time.Time `json:"transaction_date,omitempty"` // 交易日期
	BankName        string     `json:"bank_name,omitempty"`        // 银行名称
	AccountNumber   string     `json:"account_number,omitempty"`   // 银行账号
	IFSCCode        string     `json:"ifsc_code,omitempty"`        // IFSC 编码
	AccountHolder   string     `json:"account_holder,omitempty"`   // 开户人
	UPIID           string     `json:"upi_id,omitempty"`           // UPI 账号
	ChequeNumber    string     `json:"cheque_number,omitempty"`    // 支票号
	ProofURL        string     `json:"proof_url,omitempty"`        // 凭证链接
}

// Value 实现 driver.Valuer 接口
func (d *PaymentDetails) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan 实现 sql.Scanner 接口
func (d *PaymentDetails) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	}
	return nil
}
