// file: internals/features/reports/controller/report_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	paymentSvc "sekolahku_backend/internals/features/payments/service"
	studentModel "sekolahku_backend/internals/features/students/model"
	helper "sekolahku_backend/internals/helpers"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type sumRow struct {
	Total decimal.Decimal
}

func (h *ReportController) sumPayments(c *fiber.Ctx, from, to *time.Time) (decimal.Decimal, error) {
	q := "SELECT COALESCE(SUM(payment_amount), 0) AS total FROM payments"
	where := []string{}
	args := []any{}
	if from != nil {
		where = append(where, "payment_paid_at >= ?")
		args = append(args, *from)
	}
	if to != nil {
		where = append(where, "payment_paid_at <= ?")
		args = append(args, *to)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	var row sumRow
	err := h.DB.WithContext(c.Context()).Raw(q, args...).Scan(&row).Error
	return row.Total, err
}

// GET /reports/summary
func (h *ReportController) Summary(c *fiber.Ctx) error {
	var from, to *time.Time
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from must be RFC3339")
		}
		from = &t
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "to must be RFC3339")
		}
		to = &t
	}

	totalCollected, err := h.sumPayments(c, from, to)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	todayTotal, err := h.sumPayments(c, &todayStart, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	monthTotal, err := h.sumPayments(c, &monthStart, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	pendingTotal, err := paymentSvc.SumPending(c.Context(), h.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"total_collected": totalCollected,
		"today_total":     todayTotal,
		"month_total":     monthTotal,
		"pending_total":   pendingTotal,
	})
}

// GET /reports/pending
func (h *ReportController) Pending(c *fiber.Ctx) error {
	var status *string
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		if !studentModel.IsValidStudentStatus(v) {
			return helper.JsonError(c, fiber.StatusBadRequest, "status must be active or inactive")
		}
		status = &v
	}
	rows, err := paymentSvc.ListPendingBalances(c.Context(), h.DB, status)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", rows)
}

// GET /reports/daily?date=2006-01-02 — totals per payment mode for one day
func (h *ReportController) Daily(c *fiber.Ctx) error {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(c.Query("date")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	var rows []struct {
		Mode  string          `json:"mode"`
		Total decimal.Decimal `json:"total"`
	}
	if err := h.DB.WithContext(c.Context()).
		Raw(`SELECT payment_mode AS mode, COALESCE(SUM(payment_amount), 0) AS total
			FROM payments
			WHERE payment_paid_at >= ? AND payment_paid_at < ?
			GROUP BY payment_mode`, start, end).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", rows)
}
