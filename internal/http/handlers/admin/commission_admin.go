package admin

import (
	"errors"
	"strconv"

	"github.com/settleflow/internal/http/response"
	"github.com/settleflow/internal/repository"
	"github.com/settleflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateCommissionRequest 佣金入账请求
type CreateCommissionRequest struct {
	RecipientID        uint   `json:"recipient_id" binding:"required"`
	MembershipCategory string `json:"membership_category" binding:"required"`
	Amount             string `json:"amount" binding:"required"`
	SaleRef            string `json:"sale_ref"`
	EarnedAt           string `json:"earned_at"`
}

// CreateCommission 记录一笔应付佣金
func (h *Handler) CreateCommission(c *gin.Context) {
	var req CreateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondError(c, response.CodeBadRequest, "佣金金额无效", nil)
		return
	}
	earnedAt, ok := parseOptionalDateField(c, req.EarnedAt, "earned_at")
	if !ok {
		return
	}

	commission, err := h.CommissionService.RecordCommission(service.CommissionRecordInput{
		RecipientID:        req.RecipientID,
		MembershipCategory: req.MembershipCategory,
		Amount:             amount,
		SaleRef:            req.SaleRef,
		EarnedAt:           earnedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "收款人不存在", nil)
		case errors.Is(err, service.ErrCommissionAmountInvalid),
			errors.Is(err, service.ErrMembershipCategoryInvalid),
			errors.Is(err, service.ErrRecipientDisabled),
			errors.Is(err, service.ErrRecipientRoleInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "佣金入账失败", err)
		}
		return
	}

	response.Success(c, commission)
}

// GetAdminCommissions 获取佣金列表 (Admin)
func (h *Handler) GetAdminCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CommissionListFilter{
		Page:               page,
		PageSize:           pageSize,
		RecipientRole:      c.Query("recipient_role"),
		MembershipCategory: c.Query("membership_category"),
		UnsettledOnly:      c.Query("unsettled") == "true",
	}
	if recipientID, err := strconv.ParseUint(c.Query("recipient_id"), 10, 64); err == nil {
		filter.RecipientID = uint(recipientID)
	}
	if payoutID, err := strconv.ParseUint(c.Query("payout_id"), 10, 64); err == nil {
		filter.PayoutID = uint(payoutID)
	}

	commissions, total, err := h.CommissionService.ListCommissions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "佣金查询失败", err)
		return
	}

	response.SuccessWithPage(c, commissions, response.BuildPagination(page, pageSize, total))
}

// GetAdminCommission 获取佣金详情 (Admin)
func (h *Handler) GetAdminCommission(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	commission, err := h.CommissionService.GetCommission(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "佣金记录不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "佣金查询失败", err)
		return
	}

	response.Success(c, commission)
}
