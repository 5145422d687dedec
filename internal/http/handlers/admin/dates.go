package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/settleflow/internal/http/response"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseDateField 解析日期字段，支持 RFC3339 与 2006-01-02 两种格式。
func parseDateField(c *gin.Context, raw, field string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		respondError(c, response.CodeBadRequest, fmt.Sprintf("%s 不能为空", field), nil)
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		respondError(c, response.CodeBadRequest, fmt.Sprintf("%s 日期格式无效", field), nil)
		return time.Time{}, false
	}
	return t, true
}

// parseOptionalDateField 解析可选日期字段，空值返回零值时间。
func parseOptionalDateField(c *gin.Context, raw, field string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, true
	}
	return parseDateField(c, raw, field)
}

// endOfDay 将日期推到当天最后一秒，周期结束日按整天计入。
func endOfDay(t time.Time) time.Time {
	if !t.Equal(t.Truncate(24 * time.Hour)) {
		return t
	}
	return t.Add(24*time.Hour - time.Second)
}
