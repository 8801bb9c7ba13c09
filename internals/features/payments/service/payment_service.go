// file: internals/features/payments/service/payment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/payments/model"
	studentModel "sekolahku_backend/internals/features/students/model"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrZeroAmount      = errors.New("amount must be non-zero")
)

/* =======================================================================
   Record
======================================================================= */

type CreatePaymentInput struct {
	StudentID     uuid.UUID
	Amount        decimal.Decimal
	Mode          string
	PaidAt        *time.Time
	ReferenceNo   *string
	Notes         *string
	CreatedBy     uuid.UUID
	ReceiptPrefix string
}

// CreatePayment appends one ledger entry. Receipt allocation and the entry
// insert share one transaction: afterwards either both exist or neither.
func CreatePayment(ctx context.Context, db *gorm.DB, in CreatePaymentInput) (*model.PaymentModel, error) {
	if in.Amount.IsZero() {
		return nil, ErrZeroAmount
	}

	var out *model.PaymentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_id = ?", in.StudentID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrStudentNotFound
		}

		receiptNo, err := AllocateReceiptNo(tx, in.ReceiptPrefix)
		if err != nil {
			return err
		}

		paidAt := time.Now()
		if in.PaidAt != nil {
			paidAt = *in.PaidAt
		}

		p := &model.PaymentModel{
			PaymentReceiptNo:   receiptNo,
			PaymentStudentID:   in.StudentID,
			PaymentAmount:      in.Amount,
			PaymentMode:        in.Mode,
			PaymentReferenceNo: in.ReferenceNo,
			PaymentNotes:       in.Notes,
			PaymentPaidAt:      paidAt,
			PaymentCreatedBy:   in.CreatedBy,
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =======================================================================
   Reverse
======================================================================= */

type ReversePaymentInput struct {
	PaymentID     uuid.UUID
	Reason        string
	Amount        *decimal.Decimal // optional partial magnitude
	CreatedBy     uuid.UUID
	ReceiptPrefix string
}

// ReversePayment cancels an entry in full or in part by appending a new
// entry of opposite sign — never by editing the original. The new entry
// links back via payment_reverses_payment_id and gets its own receipt
// number from the same locked counter.
func ReversePayment(ctx context.Context, db *gorm.DB, in ReversePaymentInput) (*model.PaymentModel, error) {
	if in.Amount != nil && in.Amount.IsZero() {
		return nil, ErrZeroAmount
	}

	var out *model.PaymentModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original model.PaymentModel
		if err := tx.First(&original, "payment_id = ?", in.PaymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		// opposite direction of the original; magnitude from override if set
		sign := decimal.NewFromInt(-1)
		if original.PaymentAmount.IsNegative() {
			sign = decimal.NewFromInt(1)
		}
		amount := original.PaymentAmount.Neg()
		if in.Amount != nil {
			amount = sign.Mul(in.Amount.Abs())
		}

		receiptNo, err := AllocateReceiptNo(tx, in.ReceiptPrefix)
		if err != nil {
			return err
		}

		reasonNote := fmt.Sprintf("REVERSAL of %s: %s", original.PaymentReceiptNo, in.Reason)
		notes := reasonNote
		if original.PaymentNotes != nil && *original.PaymentNotes != "" {
			notes = fmt.Sprintf("%s | orig_notes: %s", reasonNote, *original.PaymentNotes)
		}

		reversal := &model.PaymentModel{
			PaymentReceiptNo:         receiptNo,
			PaymentStudentID:         original.PaymentStudentID,
			PaymentAmount:            amount,
			PaymentMode:              original.PaymentMode,
			PaymentReferenceNo:       original.PaymentReferenceNo,
			PaymentNotes:             &notes,
			PaymentReversesPaymentID: &original.PaymentID,
			PaymentPaidAt:            time.Now(),
			PaymentCreatedBy:         in.CreatedBy,
		}
		if err := tx.Create(reversal).Error; err != nil {
			return err
		}
		out = reversal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* =======================================================================
   List
======================================================================= */

type ListPaymentsFilter struct {
	StudentID *uuid.UUID
	Mode      *string
	ReceiptNo *string
	From      *time.Time
	To        *time.Time
}

// ListPayments: newest paid_at first, with created_at then id as
// tie-breakers so pagination stays stable when timestamps collide.
func ListPayments(ctx context.Context, db *gorm.DB, f ListPaymentsFilter, offset, limit int) ([]model.PaymentModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.PaymentModel{})

	if f.StudentID != nil {
		q = q.Where("payment_student_id = ?", *f.StudentID)
	}
	if f.Mode != nil {
		q = q.Where("payment_mode = ?", *f.Mode)
	}
	if f.ReceiptNo != nil {
		q = q.Where("payment_receipt_no = ?", *f.ReceiptNo)
	}
	if f.From != nil {
		q = q.Where("payment_paid_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payment_paid_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.PaymentModel
	if err := q.
		Order("payment_paid_at DESC, payment_created_at DESC, payment_id DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
