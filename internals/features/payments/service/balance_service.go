// file: internals/features/payments/service/balance_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* =========================================================
   Balance projection — recomputed from ledger state on read.
   Each query is a single SELECT, so expected fee and paid
   total always come from the same snapshot.
========================================================= */

type StudentBalance struct {
	StudentID   uuid.UUID       `json:"student_id"`
	StudentCode string          `json:"student_code"`
	StudentName string          `json:"student_name"`
	ExpectedFee decimal.Decimal `json:"expected_fee"`
	PaidTotal   decimal.Decimal `json:"paid_total"`
	Pending     decimal.Decimal `json:"pending"`
}

type StudentBalanceItem struct {
	StudentID        uuid.UUID       `json:"student_id"`
	StudentCode      string          `json:"student_code"`
	StudentName      string          `json:"student_name"`
	StudentClassName *string         `json:"student_class_name,omitempty"`
	StudentSection   *string         `json:"student_section,omitempty"`
	StudentStatus    string          `json:"student_status"`
	ExpectedFee      decimal.Decimal `json:"expected_fee"`
	PaidTotal        decimal.Decimal `json:"paid_total"`
	Pending          decimal.Decimal `json:"pending"`
}

const balanceFrom = `
FROM students s
LEFT JOIN student_fee f ON f.student_fee_student_id = s.student_id
LEFT JOIN (
	SELECT payment_student_id, SUM(payment_amount) AS paid_total
	FROM payments
	GROUP BY payment_student_id
) p ON p.payment_student_id = s.student_id`

const balanceColumns = `
s.student_id,
s.student_code,
s.student_name,
s.student_class_name,
s.student_section,
s.student_status,
COALESCE(f.student_fee_expected_amount, 0) AS expected_fee,
COALESCE(p.paid_total, 0) AS paid_total,
COALESCE(f.student_fee_expected_amount, 0) - COALESCE(p.paid_total, 0) AS pending`

// GetStudentBalance returns {expectedFee, paidTotal, pending} for one student.
func GetStudentBalance(ctx context.Context, db *gorm.DB, studentID uuid.UUID) (*StudentBalance, error) {
	var rows []StudentBalance
	if err := db.WithContext(ctx).
		Raw("SELECT "+balanceColumns+" "+balanceFrom+" WHERE s.student_id = ?", studentID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrStudentNotFound
	}
	return &rows[0], nil
}

type ListBalancesFilter struct {
	Search    *string // matches code or name, case-insensitive
	Status    *string
	ClassName *string
	Section   *string
}

// ListStudentBalances: same filter/pagination contract as the student
// listing, ordered by student_code.
func ListStudentBalances(ctx context.Context, db *gorm.DB, f ListBalancesFilter, offset, limit int) ([]StudentBalanceItem, int64, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if f.Search != nil && strings.TrimSpace(*f.Search) != "" {
		s := "%" + strings.ToLower(strings.TrimSpace(*f.Search)) + "%"
		where = append(where, "(LOWER(s.student_code) LIKE ? OR LOWER(s.student_name) LIKE ?)")
		args = append(args, s, s)
	}
	if f.Status != nil {
		where = append(where, "s.student_status = ?")
		args = append(args, *f.Status)
	}
	if f.ClassName != nil {
		where = append(where, "s.student_class_name = ?")
		args = append(args, *f.ClassName)
	}
	if f.Section != nil {
		where = append(where, "s.student_section = ?")
		args = append(args, *f.Section)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) "+balanceFrom+whereSQL, args...).
		Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []StudentBalanceItem
	pagedArgs := append(append([]any{}, args...), limit, offset)
	if err := db.WithContext(ctx).
		Raw("SELECT "+balanceColumns+" "+balanceFrom+whereSQL+" ORDER BY s.student_code LIMIT ? OFFSET ?", pagedArgs...).
		Scan(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListPendingBalances: report rows ordered by outstanding amount, largest
// first. Fully settled accounts (pending = 0) are dropped — a display
// policy of the report, not a ledger rule.
func ListPendingBalances(ctx context.Context, db *gorm.DB, status *string) ([]StudentBalanceItem, error) {
	whereSQL := ""
	args := []any{}
	if status != nil {
		whereSQL = " WHERE s.student_status = ?"
		args = append(args, *status)
	}

	var rows []StudentBalanceItem
	if err := db.WithContext(ctx).
		Raw("SELECT "+balanceColumns+" "+balanceFrom+whereSQL+" ORDER BY pending DESC", args...).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]StudentBalanceItem, 0, len(rows))
	for _, r := range rows {
		if !r.Pending.IsZero() {
			out = append(out, r)
		}
	}
	return out, nil
}

// SumPending: total outstanding across every account (settled rows
// contribute zero anyway).
func SumPending(ctx context.Context, db *gorm.DB) (decimal.Decimal, error) {
	var out struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(COALESCE(f.student_fee_expected_amount,0) - COALESCE(p.paid_total,0)), 0) AS total " + balanceFrom).
		Scan(&out).Error
	return out.Total, err
}
