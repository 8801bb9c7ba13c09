package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/payments/model"
)

/* =========================================================
   REQUEST DTOs (field names mirror model.PaymentModel,
   JSON tags = DB column names, snake_case)
========================================================= */

type CreatePaymentRequest struct {
	PaymentStudentID uuid.UUID       `json:"payment_student_id" validate:"required"`
	PaymentAmount    decimal.Decimal `json:"payment_amount" validate:"required"`
	PaymentMode      string          `json:"payment_mode" validate:"required,oneof=cash upi bank"`

	PaymentReferenceNo *string    `json:"payment_reference_no,omitempty"`
	PaymentNotes       *string    `json:"payment_notes,omitempty"`
	PaymentPaidAt      *time.Time `json:"payment_paid_at,omitempty"`
}

type ReversePaymentRequest struct {
	PaymentReason string           `json:"payment_reason" validate:"required"`
	PaymentAmount *decimal.Decimal `json:"payment_amount,omitempty"` // partial magnitude; sign is derived
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type PaymentResponse struct {
	PaymentID                uuid.UUID       `json:"payment_id"`
	PaymentReceiptNo         string          `json:"payment_receipt_no"`
	PaymentStudentID         uuid.UUID       `json:"payment_student_id"`
	PaymentAmount            decimal.Decimal `json:"payment_amount"`
	PaymentMode              string          `json:"payment_mode"`
	PaymentReferenceNo       *string         `json:"payment_reference_no,omitempty"`
	PaymentNotes             *string         `json:"payment_notes,omitempty"`
	PaymentReversesPaymentID *uuid.UUID      `json:"payment_reverses_payment_id,omitempty"`
	PaymentPaidAt            time.Time       `json:"payment_paid_at"`
	PaymentCreatedBy         uuid.UUID       `json:"payment_created_by"`
	PaymentCreatedAt         time.Time       `json:"payment_created_at"`
}

func FromModel(m *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:                m.PaymentID,
		PaymentReceiptNo:         m.PaymentReceiptNo,
		PaymentStudentID:         m.PaymentStudentID,
		PaymentAmount:            m.PaymentAmount,
		PaymentMode:              m.PaymentMode,
		PaymentReferenceNo:       m.PaymentReferenceNo,
		PaymentNotes:             m.PaymentNotes,
		PaymentReversesPaymentID: m.PaymentReversesPaymentID,
		PaymentPaidAt:            m.PaymentPaidAt,
		PaymentCreatedBy:         m.PaymentCreatedBy,
		PaymentCreatedAt:         m.PaymentCreatedAt,
	}
}

func FromModels(ms []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}
