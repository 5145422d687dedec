package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/settleflow/internal/http/response"
	"github.com/settleflow/internal/repository"
	"github.com/settleflow/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateRecipientRequest 创建收款人请求
type CreateRecipientRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Phone            string `json:"phone"`
	Role             string `json:"role" binding:"required"`
	BusinessCategory string `json:"business_category"`
}

// CreateRecipient 创建收款人
func (h *Handler) CreateRecipient(c *gin.Context) {
	var req CreateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	recipient, err := h.RecipientService.CreateRecipient(service.RecipientCreateInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Role:             req.Role,
		BusinessCategory: req.BusinessCategory,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipientProfileInvalid),
			errors.Is(err, service.ErrRecipientRoleInvalid),
			errors.Is(err, service.ErrMembershipCategoryInvalid),
			errors.Is(err, service.ErrRecipientEmailExists):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "收款人创建失败", err)
		}
		return
	}

	response.Success(c, recipient)
}

// GetAdminRecipients 获取收款人列表 (Admin)
func (h *Handler) GetAdminRecipients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	recipients, total, err := h.RecipientService.ListRecipients(repository.RecipientListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     c.Query("role"),
		Status:   c.Query("status"),
		Keyword:  c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "收款人查询失败", err)
		return
	}

	response.SuccessWithPage(c, recipients, response.BuildPagination(page, pageSize, total))
}

// GetAdminRecipient 获取收款人详情 (Admin)
func (h *Handler) GetAdminRecipient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipient, err := h.RecipientService.GetRecipient(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "收款人不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "收款人查询失败", err)
		return
	}

	response.Success(c, recipient)
}

// UpdateRecipientRequest 更新收款人请求
type UpdateRecipientRequest struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	BusinessCategory *string `json:"business_category"`
}

// UpdateRecipient 更新收款人基础信息
func (h *Handler) UpdateRecipient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	recipient, err := h.RecipientService.UpdateRecipient(id, service.RecipientUpdateInput{
		Name:             req.Name,
		Phone:            req.Phone,
		BusinessCategory: req.BusinessCategory,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "收款人不存在", nil)
			return
		}
		if errors.Is(err, service.ErrMembershipCategoryInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "收款人更新失败", err)
		return
	}

	response.Success(c, recipient)
}

// UpdateRecipientStatusRequest 启停收款人请求
type UpdateRecipientStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRecipientStatus 启停收款人
func (h *Handler) UpdateRecipientStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRecipientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	recipient, err := h.RecipientService.UpdateRecipientStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "收款人不存在", nil)
			return
		}
		if errors.Is(err, service.ErrRecipientStatusInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "收款人状态更新失败", err)
		return
	}

	response.Success(c, recipient)
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "请求参数错误", nil)
		return 0, false
	}
	return uint(id), true
}
