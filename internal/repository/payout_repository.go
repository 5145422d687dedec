package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/settleflow/internal/constants"
	"github.com/settleflow/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutRepository 结算单数据访问接口
type PayoutRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) PayoutRepository

	Create(payout *models.Payout) error
	Update(payout *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	GetByIDForUpdate(id uint) (*models.Payout, error)
	GetByPayoutNo(payoutNo string) (*models.Payout, error)
	List(filter PayoutListFilter) ([]models.Payout, int64, error)
	ListOverdue(asOf time.Time, limit int) ([]models.Payout, error)
	MarkNotificationSent(id uint, now time.Time) error
	SummarizeByMonth(year int, month time.Month) (PayoutMonthlySummary, error)
	StatsForRecipient(recipientID uint) (RecipientPayoutStats, error)
}

// GormPayoutRepository GORM 结算单仓储
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository 创建结算单仓储
func NewPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPayoutRepository) WithTx(tx *gorm.DB) PayoutRepository {
	if tx == nil {
		return r
	}
	return &GormPayoutRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPayoutRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建结算单
func (r *GormPayoutRepository) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

// Update 更新结算单
func (r *GormPayoutRepository) Update(payout *models.Payout) error {
	return r.db.Save(payout).Error
}

// GetByID 按ID获取结算单（含佣金明细）
func (r *GormPayoutRepository) GetByID(id uint) (*models.Payout, error) {
	if id == 0 {
		return nil, nil
	}
	var payout models.Payout
	if err := r.db.Preload("Commissions").First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// GetByIDForUpdate 按ID锁定查询结算单
func (r *GormPayoutRepository) GetByIDForUpdate(id uint) (*models.Payout, error) {
	if id == 0 {
		return nil, nil
	}
	var payout models.Payout
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// GetByPayoutNo 按结算单号获取结算单
func (r *GormPayoutRepository) GetByPayoutNo(payoutNo string) (*models.Payout, error) {
	no := strings.TrimSpace(payoutNo)
	if no == "" {
		return nil, nil
	}
	var payout models.Payout
	if err := r.db.Where("payout_no = ?", no).First(&payout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// List 查询结算单列表
func (r *GormPayoutRepository) List(filter PayoutListFilter) ([]models.Payout, int64, error) {
	query := r.db.Model(&models.Payout{})
	if filter.RecipientID != 0 {
		query = query.Where("recipient_id = ?", filter.RecipientID)
	}
	if role := strings.TrimSpace(filter.RecipientRole); role != "" {
		query = query.Where("recipient_role = ?", role)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if no := strings.TrimSpace(filter.PayoutNo); no != "" {
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"payout_no"})
		query = query.Where(condition, repeatLikeArgs("%"+no+"%", argCount)...)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"recipient_name", "recipient_email", "payout_no"})
		query = query.Where("("+condition+")", repeatLikeArgs(like, argCount)...)
	}
	query = applyTimeRange(query, "scheduled_date", filter.ScheduledFrom, filter.ScheduledTo)
	if filter.OverdueAsOf != nil {
		query = query.Where("status = ? AND scheduled_date < ?", constants.PayoutStatusPending, *filter.OverdueAsOf)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Payout
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListOverdue 查询逾期未处理的结算单（供巡检任务使用）
func (r *GormPayoutRepository) ListOverdue(asOf time.Time, limit int) ([]models.Payout, error) {
	query := r.db.Model(&models.Payout{}).
		Where("status = ? AND scheduled_date < ?", constants.PayoutStatusPending, asOf).
		Order("scheduled_date asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.Payout
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkNotificationSent 标记结果通知已发出
func (r *GormPayoutRepository) MarkNotificationSent(id uint, now time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Payout{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"notification_sent": true,
			"updated_at":        now,
		}).Error
}

// SummarizeByMonth 按计划打款月份汇总结算统计
func (r *GormPayoutRepository) SummarizeByMonth(year int, month time.Month) (PayoutMonthlySummary, error) {
	summary := PayoutMonthlySummary{
		Year:        year,
		Month:       int(month),
		TotalAmount: decimal.Zero,
		TotalTDS:    decimal.Zero,
		TotalNet:    decimal.Zero,
		ByStatus:    make(map[string]PayoutStatusAggregate),
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rows []struct {
		Status string          `gorm:"column:status"`
		Cnt    int64           `gorm:"column:cnt"`
		Amount decimal.Decimal `gorm:"column:amount"`
		TDS    decimal.Decimal `gorm:"column:tds"`
		Net    decimal.Decimal `gorm:"column:net"`
	}
	if err := r.db.Model(&models.Payout{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(tds_amount), 0) AS tds, COALESCE(SUM(net_amount), 0) AS net").
		Where("scheduled_date >= ? AND scheduled_date < ?", start, end).
		Group("status").
		Scan(&rows).Error; err != nil {
		return summary, err
	}
	for _, row := range rows {
		summary.Count += row.Cnt
		summary.TotalAmount = summary.TotalAmount.Add(row.Amount).Round(2)
		summary.TotalTDS = summary.TotalTDS.Add(row.TDS).Round(2)
		summary.TotalNet = summary.TotalNet.Add(row.Net).Round(2)
		summary.ByStatus[row.Status] = PayoutStatusAggregate{
			Count:       row.Cnt,
			TotalAmount: row.Amount.Round(2),
			TotalNet:    row.Net.Round(2),
		}
	}
	return summary, nil
}

// StatsForRecipient 汇总收款人的结算统计。
// 单条 GROUP BY status 查询分桶，pending / done / failed 三个桶始终占位。
func (r *GormPayoutRepository) StatsForRecipient(recipientID uint) (RecipientPayoutStats, error) {
	stats := RecipientPayoutStats{
		RecipientID: recipientID,
		TotalPaid:   decimal.Zero,
		ByStatus: map[string]PayoutStatusAggregate{
			constants.PayoutStatusPending: {TotalAmount: decimal.Zero, TotalNet: decimal.Zero},
			constants.PayoutStatusDone:    {TotalAmount: decimal.Zero, TotalNet: decimal.Zero},
			constants.PayoutStatusFailed:  {TotalAmount: decimal.Zero, TotalNet: decimal.Zero},
		},
	}
	if recipientID == 0 {
		return stats, nil
	}

	var rows []struct {
		Status string          `gorm:"column:status"`
		Cnt    int64           `gorm:"column:cnt"`
		Amount decimal.Decimal `gorm:"column:amount"`
		Net    decimal.Decimal `gorm:"column:net"`
	}
	if err := r.db.Model(&models.Payout{}).
		Select("status, COUNT(*) AS cnt, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(net_amount), 0) AS net").
		Where("recipient_id = ?", recipientID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.PayoutCount += row.Cnt
		stats.ByStatus[row.Status] = PayoutStatusAggregate{
			Count:       row.Cnt,
			TotalAmount: row.Amount.Round(2),
			TotalNet:    row.Net.Round(2),
		}
		if row.Status == constants.PayoutStatusDone {
			stats.TotalPaid = row.Net.Round(2)
		}
	}

	var lastPaid struct {
		PaidDate *time.Time `gorm:"column:paid_date"`
	}
	if err := r.db.Model(&models.Payout{}).
		Select("MAX(paid_date) AS paid_date").
		Where("recipient_id = ? AND status = ?", recipientID, constants.PayoutStatusDone).
		Scan(&lastPaid).Error; err != nil {
		return stats, err
	}
	stats.LastPaidDate = lastPaid.PaidDate

	return stats, nil
}
