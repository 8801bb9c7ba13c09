package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Matches the payment_mode ENUM in PostgreSQL */

const (
	PaymentModeCash = "cash"
	PaymentModeUPI  = "upi"
	PaymentModeBank = "bank"
)

func IsValidPaymentMode(m string) bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeBank:
		return true
	}
	return false
}

/* ===================== Model ===================== */

// PaymentModel is an append-only ledger entry: money received (positive
// amount) or reversed (opposite sign). Rows are never updated or deleted;
// a correction is a new row pointing back via payment_reverses_payment_id.
type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	PaymentReceiptNo string    `gorm:"column:payment_receipt_no;type:varchar(50);not null;uniqueIndex" json:"payment_receipt_no"`
	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;index:ix_payments_student_paid_at,priority:1" json:"payment_student_id"`

	// Signed amount; never zero
	PaymentAmount decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null;check:ck_payments_amount_nonzero,payment_amount <> 0" json:"payment_amount"`
	PaymentMode   string          `gorm:"column:payment_mode;type:varchar(16);not null" json:"payment_mode"`

	PaymentReferenceNo *string `gorm:"column:payment_reference_no;type:varchar(100)" json:"payment_reference_no,omitempty"`
	PaymentNotes       *string `gorm:"column:payment_notes;type:varchar(500)" json:"payment_notes,omitempty"`

	// Set only on reversal entries; points at the entry being canceled
	PaymentReversesPaymentID *uuid.UUID `gorm:"column:payment_reverses_payment_id;type:uuid;index" json:"payment_reverses_payment_id,omitempty"`

	// Business timestamp the money was received
	PaymentPaidAt time.Time `gorm:"column:payment_paid_at;not null;index:ix_payments_student_paid_at,priority:2" json:"payment_paid_at"`

	PaymentCreatedBy uuid.UUID `gorm:"column:payment_created_by;type:uuid;not null" json:"payment_created_by"`
	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
}

func (PaymentModel) TableName() string { return "payments" }

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}

/* ===================== Helpers ===================== */

func (p *PaymentModel) IsReversal() bool {
	return p.PaymentReversesPaymentID != nil
}
