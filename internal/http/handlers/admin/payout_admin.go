package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/http/response"
	"github.com/settleflow/internal/repository"
	"github.com/settleflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// respondPayoutError 按稳定 error_code 映射结算单业务错误
func respondPayoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondErrorCode(c, response.CodeNotFound, "PayoutNotFound", "结算单不存在", nil)
	case errors.Is(err, service.ErrAlreadyTerminal):
		respondErrorCode(c, response.CodeBadRequest, "AlreadyInTerminalState", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidTransition):
		respondErrorCode(c, response.CodeBadRequest, "InvalidTransition", err.Error(), nil)
	case errors.Is(err, service.ErrConcurrentSettlement):
		respondErrorCode(c, response.CodeBadRequest, "ConcurrentSettlementConflict", err.Error(), nil)
	case errors.Is(err, service.ErrTaxRateInvalid):
		respondErrorCode(c, response.CodeBadRequest, "InvalidTaxRate", err.Error(), nil)
	case errors.Is(err, service.ErrPaymentDetailsMissing):
		respondErrorCode(c, response.CodeBadRequest, "MissingPaymentDetails", err.Error(), nil)
	case errors.Is(err, service.ErrPaymentMethodInvalid):
		respondErrorCode(c, response.CodeBadRequest, "InvalidPaymentMethod", err.Error(), nil)
	case errors.Is(err, service.ErrNoEligibleCommissions):
		respondErrorCode(c, response.CodeBadRequest, "NoEligibleCommissions", err.Error(), nil)
	case errors.Is(err, service.ErrPeriodInvalid):
		respondErrorCode(c, response.CodeBadRequest, "InvalidPeriod", err.Error(), nil)
	case errors.Is(err, service.ErrScheduledDateRequired):
		respondErrorCode(c, response.CodeBadRequest, "MissingScheduledDate", err.Error(), nil)
	case errors.Is(err, service.ErrFailureReasonRequired):
		respondErrorCode(c, response.CodeBadRequest, "MissingFailureReason", err.Error(), nil)
	case errors.Is(err, service.ErrRecipientDisabled):
		respondErrorCode(c, response.CodeBadRequest, "RecipientDisabled", err.Error(), nil)
	case errors.Is(err, service.ErrRecipientRoleInvalid):
		respondErrorCode(c, response.CodeBadRequest, "InvalidRecipientRole", err.Error(), nil)
	case errors.Is(err, service.ErrCommissionAmountInvalid):
		respondErrorCode(c, response.CodeBadRequest, "InvalidCommissionAmount", err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "结算单操作失败", err)
	}
}

// PreviewPayoutRequest 结算预览请求
type PreviewPayoutRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

// PreviewPayout 预览周期内可结算佣金（只读）
func (h *Handler) PreviewPayout(c *gin.Context) {
	var req PreviewPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	start, ok := parseDateField(c, req.PeriodStart, "period_start")
	if !ok {
		return
	}
	end, ok := parseDateField(c, req.PeriodEnd, "period_end")
	if !ok {
		return
	}

	draft, err := h.CommissionService.PreviewSettlement(req.RecipientID, start, endOfDay(end))
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, draft)
}

// CreatePayoutRequest 创建结算单请求
type CreatePayoutRequest struct {
	RecipientID   uint    `json:"recipient_id" binding:"required"`
	PeriodStart   string  `json:"period_start" binding:"required"`
	PeriodEnd     string  `json:"period_end" binding:"required"`
	ScheduledDate string  `json:"scheduled_date" binding:"required"`
	TDSPercentage *string `json:"tds_percentage"`
	Currency      string  `json:"currency"`
	Notes         string  `json:"notes"`
}

// CreatePayout 聚合周期内未结算佣金生成结算单
func (h *Handler) CreatePayout(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	start, ok := parseDateField(c, req.PeriodStart, "period_start")
	if !ok {
		return
	}
	end, ok := parseDateField(c, req.PeriodEnd, "period_end")
	if !ok {
		return
	}
	scheduled, ok := parseDateField(c, req.ScheduledDate, "scheduled_date")
	if !ok {
		return
	}
	rate, ok := parseRateField(c, req.TDSPercentage)
	if !ok {
		return
	}

	payout, err := h.PayoutService.CreatePayout(adminID, service.PayoutCreateInput{
		RecipientID:   req.RecipientID,
		PeriodStart:   start,
		PeriodEnd:     endOfDay(end),
		ScheduledDate: scheduled,
		TDSPercentage: rate,
		Currency:      req.Currency,
		Notes:         req.Notes,
	})
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// GetAdminPayouts 获取结算单列表 (Admin)
func (h *Handler) GetAdminPayouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PayoutListFilter{
		Page:          page,
		PageSize:      pageSize,
		RecipientRole: c.Query("recipient_role"),
		Status:        c.Query("status"),
		PayoutNo:      c.Query("payout_no"),
		Keyword:       c.Query("search"),
	}
	if recipientID, err := strconv.ParseUint(c.Query("recipient_id"), 10, 64); err == nil {
		filter.RecipientID = uint(recipientID)
	}
	if from, ok := parseOptionalDateField(c, c.Query("start_date"), "start_date"); !ok {
		return
	} else if !from.IsZero() {
		filter.ScheduledFrom = &from
	}
	if to, ok := parseOptionalDateField(c, c.Query("end_date"), "end_date"); !ok {
		return
	} else if !to.IsZero() {
		end := endOfDay(to)
		filter.ScheduledTo = &end
	}
	if parseBoolQuery(c.Query("overdue")) {
		now := time.Now()
		filter.OverdueAsOf = &now
	}

	payouts, total, err := h.PayoutService.ListPayouts(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "结算单查询失败", err)
		return
	}

	response.SuccessWithPage(c, payouts, response.BuildPagination(page, pageSize, total))
}

// GetPendingPayouts 获取待处理结算单（支持按角色与逾期过滤）
func (h *Handler) GetPendingPayouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PayoutListFilter{
		Page:          page,
		PageSize:      pageSize,
		RecipientRole: c.Query("recipient_role"),
		Status:        constants.PayoutStatusPending,
	}
	if parseBoolQuery(c.Query("overdue")) {
		now := time.Now()
		filter.OverdueAsOf = &now
	}

	payouts, total, err := h.PayoutService.ListPayouts(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "结算单查询失败", err)
		return
	}

	response.SuccessWithPage(c, payouts, response.BuildPagination(page, pageSize, total))
}

func parseBoolQuery(raw string) bool {
	return raw == "1" || raw == "true"
}

// GetAdminPayout 获取结算单详情 (Admin)
func (h *Handler) GetAdminPayout(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payout, err := h.PayoutService.GetPayout(id)
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// GetOverduePayouts 获取逾期未处理的结算单
func (h *Handler) GetOverduePayouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	payouts, total, err := h.PayoutService.ListOverduePayouts(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "结算单查询失败", err)
		return
	}

	response.SuccessWithPage(c, payouts, response.BuildPagination(page, pageSize, total))
}

// MarkPayoutProcessing 结算单进入处理中
func (h *Handler) MarkPayoutProcessing(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	payout, err := h.PayoutService.MarkProcessing(adminID, id)
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// MarkPayoutDoneRequest 结算完成请求
type MarkPayoutDoneRequest struct {
	Method          string `json:"method" binding:"required"`
	TransactionID   string `json:"transaction_id" binding:"required"`
	TransactionDate string `json:"transaction_date" binding:"required"`
	BankName        string `json:"bank_name"`
	AccountNumber   string `json:"account_number"`
	IFSCCode        string `json:"ifsc_code"`
	AccountHolder   string `json:"account_holder"`
	UPIID           string `json:"upi_id"`
	ChequeNumber    string `json:"cheque_number"`
	ProofURL        string `json:"proof_url"`
}

// MarkPayoutDone 结算完成并记录打款凭证
func (h *Handler) MarkPayoutDone(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MarkPayoutDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	transactionDate, ok := parseDateField(c, req.TransactionDate, "transaction_date")
	if !ok {
		return
	}

	payout, err := h.PayoutService.MarkDone(adminID, id, service.PayoutPaymentInput{
		Method:          req.Method,
		TransactionID:   req.TransactionID,
		TransactionDate: transactionDate,
		BankName:        req.BankName,
		AccountNumber:   req.AccountNumber,
		IFSCCode:        req.IFSCCode,
		AccountHolder:   req.AccountHolder,
		UPIID:           req.UPIID,
		ChequeNumber:    req.ChequeNumber,
		ProofURL:        req.ProofURL,
	})
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// MarkPayoutFailedRequest 打款失败请求
type MarkPayoutFailedRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MarkPayoutFailed 打款失败，结算单留在可重试状态
func (h *Handler) MarkPayoutFailed(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req MarkPayoutFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	payout, err := h.PayoutService.MarkFailed(adminID, id, req.Reason)
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// CancelPayoutRequest 取消结算单请求
type CancelPayoutRequest struct {
	Reason string `json:"reason"`
}

// CancelPayout 取消待处理结算单，佣金回池
func (h *Handler) CancelPayout(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// 取消原因可选，空请求体直接忽略
	var req CancelPayoutRequest
	_ = c.ShouldBindJSON(&req)

	payout, err := h.PayoutService.CancelPayout(adminID, id, req.Reason)
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// UpdatePayoutRequest 修改待处理结算单请求
type UpdatePayoutRequest struct {
	ScheduledDate *string `json:"scheduled_date"`
	TDSPercentage *string `json:"tds_percentage"`
	Notes         *string `json:"notes"`
}

// UpdatePayout 修改待处理结算单
func (h *Handler) UpdatePayout(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	input := service.PayoutUpdateInput{Notes: req.Notes}
	if req.ScheduledDate != nil {
		scheduled, ok := parseDateField(c, *req.ScheduledDate, "scheduled_date")
		if !ok {
			return
		}
		input.ScheduledDate = &scheduled
	}
	rate, ok := parseRateField(c, req.TDSPercentage)
	if !ok {
		return
	}
	input.TDSPercentage = rate

	payout, err := h.PayoutService.UpdatePayout(id, input)
	if err != nil {
		respondPayoutError(c, err)
		return
	}

	response.Success(c, payout)
}

// GetPayoutMonthlySummary 按计划打款月份汇总结算统计
func (h *Handler) GetPayoutMonthlySummary(c *gin.Context) {
	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))

	summary, err := h.PayoutService.MonthlySummary(year, month)
	if err != nil {
		if errors.Is(err, service.ErrPeriodInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "结算统计查询失败", err)
		return
	}

	response.Success(c, summary)
}

// GetRecipientPayoutStats 获取收款人结算统计
func (h *Handler) GetRecipientPayoutStats(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	stats, err := h.PayoutService.RecipientStats(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "收款人不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "结算统计查询失败", err)
		return
	}

	response.Success(c, stats)
}

// parseRateField 解析税率字段，nil 表示使用默认税率
func parseRateField(c *gin.Context, raw *string) (*decimal.Decimal, bool) {
	if raw == nil {
		return nil, true
	}
	rate, err := decimal.NewFromString(*raw)
	if err != nil {
		respondErrorCode(c, response.CodeBadRequest, "InvalidTaxRate", "TDS 税率无效", nil)
		return nil, false
	}
	return &rate, true
}
