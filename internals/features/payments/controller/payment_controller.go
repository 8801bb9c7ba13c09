// file: internals/features/payments/controller/payment_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sekolahku_backend/internals/configs"
	dto "sekolahku_backend/internals/features/payments/dto"
	model "sekolahku_backend/internals/features/payments/model"
	svc "sekolahku_backend/internals/features/payments/service"
	helper "sekolahku_backend/internals/helpers"

	"gorm.io/gorm"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:        db,
		Validator: validator.New(),
	}
}

// mapLedgerErr: service error taxonomy → HTTP
func mapLedgerErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svc.ErrZeroAmount):
		return helper.JsonError(c, fiber.StatusBadRequest, "amount must be non-zero")
	case errors.Is(err, svc.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, svc.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
	case errors.Is(err, svc.ErrSequenceBusy):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Receipt counter busy, please retry")
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /payments
func (h *PaymentController) CreatePayment(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := svc.CreatePayment(c.Context(), h.DB, svc.CreatePaymentInput{
		StudentID:     req.PaymentStudentID,
		Amount:        req.PaymentAmount,
		Mode:          req.PaymentMode,
		PaidAt:        req.PaymentPaidAt,
		ReferenceNo:   req.PaymentReferenceNo,
		Notes:         req.PaymentNotes,
		CreatedBy:     actorID,
		ReceiptPrefix: configs.ReceiptPrefix,
	})
	if err != nil {
		return mapLedgerErr(c, err)
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Payment recorded", dto.FromModel(p))
}

// POST /payments/:id/reverse
func (h *PaymentController) ReversePayment(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paymentID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || paymentID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payment_id is not valid")
	}

	var req dto.ReversePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := svc.ReversePayment(c.Context(), h.DB, svc.ReversePaymentInput{
		PaymentID:     paymentID,
		Reason:        req.PaymentReason,
		Amount:        req.PaymentAmount,
		CreatedBy:     actorID,
		ReceiptPrefix: configs.ReceiptPrefix,
	})
	if err != nil {
		return mapLedgerErr(c, err)
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Payment reversed", dto.FromModel(p))
}

// GET /payments
func (h *PaymentController) ListPayments(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	var f svc.ListPaymentsFilter
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not valid")
		}
		f.StudentID = &id
	}
	if v := strings.TrimSpace(c.Query("mode")); v != "" {
		if !model.IsValidPaymentMode(v) {
			return helper.JsonError(c, fiber.StatusBadRequest, "mode must be one of cash, upi, bank")
		}
		f.Mode = &v
	}
	if v := strings.TrimSpace(c.Query("receipt_no")); v != "" {
		f.ReceiptNo = &v
	}
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from must be RFC3339")
		}
		f.From = &t
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "to must be RFC3339")
		}
		f.To = &t
	}

	items, total, err := svc.ListPayments(c.Context(), h.DB, f, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromModels(items),
		helper.BuildPagination(paging.Page, paging.PerPage, total, len(items)))
}
