package admin

import (
	handlershared "github.com/settleflow/internal/http/handlers/shared"
	"github.com/settleflow/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondErrorCode 返回附带稳定 error_code 的错误响应，供调用方程序化处理。
func respondErrorCode(c *gin.Context, code int, errorCode, msg string, err error) {
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", code,
			"error_code", errorCode,
			"message", msg,
			"error", err,
		)
	}
	response.ErrorWithData(c, code, msg, gin.H{"error_code": errorCode})
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
