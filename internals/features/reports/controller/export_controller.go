// file: internals/features/reports/controller/export_controller.go
package controller

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	paymentModel "sekolahku_backend/internals/features/payments/model"
	paymentSvc "sekolahku_backend/internals/features/payments/service"
	studentModel "sekolahku_backend/internals/features/students/model"
	helper "sekolahku_backend/internals/helpers"
)

func csvResponse(c *fiber.Ctx, filename string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(buf.Bytes())
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// GET /export/students.csv
func (h *ReportController) ExportStudentsCSV(c *fiber.Ctx) error {
	var students []studentModel.StudentModel
	if err := h.DB.WithContext(c.Context()).
		Order("student_code").Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	rows := [][]string{{"student_code", "name", "class_name", "section", "status", "created_at"}}
	for _, s := range students {
		rows = append(rows, []string{
			s.StudentCode,
			s.StudentName,
			strOrEmpty(s.StudentClassName),
			strOrEmpty(s.StudentSection),
			s.StudentStatus,
			s.StudentCreatedAt.Format(time.RFC3339),
		})
	}
	return csvResponse(c, "students.csv", rows)
}

// GET /export/payments.csv
func (h *ReportController) ExportPaymentsCSV(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.Context()).Model(&paymentModel.PaymentModel{})
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
		}
		q = q.Where("payment_student_id = ?", id)
	}
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from must be RFC3339")
		}
		q = q.Where("payment_paid_at >= ?", t)
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "to must be RFC3339")
		}
		q = q.Where("payment_paid_at <= ?", t)
	}

	var payments []paymentModel.PaymentModel
	if err := q.Order("payment_paid_at DESC, payment_created_at DESC, payment_id DESC").
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	rows := [][]string{{"receipt_no", "student_id", "amount", "mode", "reference_no", "notes", "paid_at", "created_by"}}
	for _, p := range payments {
		rows = append(rows, []string{
			p.PaymentReceiptNo,
			p.PaymentStudentID.String(),
			p.PaymentAmount.String(),
			p.PaymentMode,
			strOrEmpty(p.PaymentReferenceNo),
			strOrEmpty(p.PaymentNotes),
			p.PaymentPaidAt.Format(time.RFC3339),
			p.PaymentCreatedBy.String(),
		})
	}
	return csvResponse(c, "payments.csv", rows)
}

// GET /export/pending.csv
func (h *ReportController) ExportPendingCSV(c *fiber.Ctx) error {
	items, err := paymentSvc.ListPendingBalances(c.Context(), h.DB, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	rows := [][]string{{"student_code", "name", "expected_fee", "paid_total", "pending"}}
	for _, r := range items {
		rows = append(rows, []string{
			r.StudentCode,
			r.StudentName,
			r.ExpectedFee.String(),
			r.PaidTotal.String(),
			r.Pending.String(),
		})
	}
	return csvResponse(c, "pending.csv", rows)
}
