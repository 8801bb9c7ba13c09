// file: internals/features/payments/service/payment_service_test.go
package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/payments/model"
	studentModel "sekolahku_backend/internals/features/students/model"
)

func seedStudent(t *testing.T, db *gorm.DB, code string) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentCode: code,
		StudentName: "Student " + code,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedFee(t *testing.T, db *gorm.DB, studentID uuid.UUID, amount int64) {
	t.Helper()
	require.NoError(t, db.Create(&studentModel.StudentFeeModel{
		StudentFeeStudentID:      studentID,
		StudentFeeExpectedAmount: decimal.NewFromInt(amount),
	}).Error)
}

func recordPayment(t *testing.T, db *gorm.DB, studentID uuid.UUID, amount int64, paidAt time.Time) *model.PaymentModel {
	t.Helper()
	p, err := CreatePayment(context.Background(), db, CreatePaymentInput{
		StudentID:     studentID,
		Amount:        decimal.NewFromInt(amount),
		Mode:          model.PaymentModeCash,
		PaidAt:        &paidAt,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)
	return p
}

/* ===================== Record ===================== */

func TestCreatePayment_HappyPath(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")

	ref := "TXN-42"
	notes := "term 1"
	paidAt := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	p, err := CreatePayment(context.Background(), db, CreatePaymentInput{
		StudentID:     student.StudentID,
		Amount:        decimal.NewFromInt(500),
		Mode:          model.PaymentModeUPI,
		PaidAt:        &paidAt,
		ReferenceNo:   &ref,
		Notes:         &notes,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)

	assert.Equal(t, "FEE-1", p.PaymentReceiptNo)
	assert.Equal(t, student.StudentID, p.PaymentStudentID)
	assert.Equal(t, "500", p.PaymentAmount.String())
	assert.Equal(t, model.PaymentModeUPI, p.PaymentMode)
	assert.Nil(t, p.PaymentReversesPaymentID)
	assert.False(t, p.IsReversal())

	var stored model.PaymentModel
	require.NoError(t, db.First(&stored, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, "FEE-1", stored.PaymentReceiptNo)
}

func TestCreatePayment_ZeroAmountRejected(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")

	_, err := CreatePayment(context.Background(), db, CreatePaymentInput{
		StudentID:     student.StudentID,
		Amount:        decimal.Zero,
		Mode:          model.PaymentModeCash,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.ErrorIs(t, err, ErrZeroAmount)

	var cnt int64
	require.NoError(t, db.Model(&model.PaymentModel{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestCreatePayment_UnknownStudent(t *testing.T) {
	db := newTestDB(t)

	_, err := CreatePayment(context.Background(), db, CreatePaymentInput{
		StudentID:     uuid.New(),
		Amount:        decimal.NewFromInt(100),
		Mode:          model.PaymentModeCash,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.ErrorIs(t, err, ErrStudentNotFound)

	// the aborted transaction must not have consumed a receipt number
	p := recordPayment(t, db, seedStudent(t, db, "S-001").StudentID, 100, time.Now())
	assert.Equal(t, "FEE-1", p.PaymentReceiptNo)
}

func TestCreatePayment_ConcurrentReceiptsUnique(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")

	const n = 8
	var wg sync.WaitGroup
	receipts := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := CreatePayment(context.Background(), db, CreatePaymentInput{
				StudentID:     student.StudentID,
				Amount:        decimal.NewFromInt(int64(10 * (i + 1))),
				Mode:          model.PaymentModeCash,
				CreatedBy:     uuid.New(),
				ReceiptPrefix: "FEE-",
			})
			if assert.NoError(t, err) {
				receipts[i] = p.PaymentReceiptNo
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, r := range receipts {
		require.NotEmpty(t, r)
		require.False(t, seen[r], "duplicate receipt %s", r)
		seen[r] = true
	}
	// no failed allocations, so the run is dense: FEE-1 .. FEE-n
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("FEE-%d", i)])
	}
}

/* ===================== Reverse ===================== */

func TestReversePayment_Full(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")

	notes := "term 1 cash"
	orig, err := CreatePayment(context.Background(), db, CreatePaymentInput{
		StudentID:     student.StudentID,
		Amount:        decimal.NewFromInt(250),
		Mode:          model.PaymentModeBank,
		Notes:         &notes,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)

	rev, err := ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     orig.PaymentID,
		Reason:        "duplicate entry",
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)

	assert.Equal(t, "FEE-2", rev.PaymentReceiptNo)
	assert.Equal(t, "-250", rev.PaymentAmount.String())
	assert.Equal(t, model.PaymentModeBank, rev.PaymentMode)
	require.NotNil(t, rev.PaymentReversesPaymentID)
	assert.Equal(t, orig.PaymentID, *rev.PaymentReversesPaymentID)
	assert.True(t, rev.IsReversal())

	require.NotNil(t, rev.PaymentNotes)
	assert.Equal(t, "REVERSAL of FEE-1: duplicate entry | orig_notes: term 1 cash", *rev.PaymentNotes)

	// the original row is untouched
	var stored model.PaymentModel
	require.NoError(t, db.First(&stored, "payment_id = ?", orig.PaymentID).Error)
	assert.Equal(t, "250", stored.PaymentAmount.String())
	assert.Nil(t, stored.PaymentReversesPaymentID)
}

func TestReversePayment_PartialOverride(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")
	orig := recordPayment(t, db, student.StudentID, 250, time.Now())

	partial := decimal.NewFromInt(100)
	rev, err := ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     orig.PaymentID,
		Reason:        "partial refund",
		Amount:        &partial,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)

	assert.Equal(t, "-100", rev.PaymentAmount.String())
	require.NotNil(t, rev.PaymentNotes)
	assert.Equal(t, "REVERSAL of FEE-1: partial refund", *rev.PaymentNotes)
}

func TestReversePayment_NotFoundAndZeroOverride(t *testing.T) {
	db := newTestDB(t)

	_, err := ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     uuid.New(),
		Reason:        "nope",
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.ErrorIs(t, err, ErrPaymentNotFound)

	zero := decimal.Zero
	_, err = ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     uuid.New(),
		Reason:        "nope",
		Amount:        &zero,
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.ErrorIs(t, err, ErrZeroAmount)
}

func TestReversePayment_OfReversalFlipsBack(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")
	orig := recordPayment(t, db, student.StudentID, 250, time.Now())

	rev, err := ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     orig.PaymentID,
		Reason:        "mistake",
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)

	// reversing a negative entry yields a positive correction
	rerev, err := ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     rev.PaymentID,
		Reason:        "reversal was itself a mistake",
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)
	assert.Equal(t, "250", rerev.PaymentAmount.String())
}

/* ===================== List ===================== */

func TestListPayments_FiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	a := seedStudent(t, db, "S-001")
	b := seedStudent(t, db, "S-002")

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	p1 := recordPayment(t, db, a.StudentID, 100, base)
	p2 := recordPayment(t, db, a.StudentID, 200, base.Add(24*time.Hour))
	p3 := recordPayment(t, db, b.StudentID, 300, base.Add(48*time.Hour))

	items, total, err := ListPayments(context.Background(), db, ListPaymentsFilter{}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	// newest paid_at first
	assert.Equal(t, p3.PaymentID, items[0].PaymentID)
	assert.Equal(t, p2.PaymentID, items[1].PaymentID)
	assert.Equal(t, p1.PaymentID, items[2].PaymentID)

	items, total, err = ListPayments(context.Background(), db, ListPaymentsFilter{StudentID: &a.StudentID}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	no := p1.PaymentReceiptNo
	items, total, err = ListPayments(context.Background(), db, ListPaymentsFilter{ReceiptNo: &no}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, p1.PaymentID, items[0].PaymentID)

	from := base.Add(12 * time.Hour)
	to := base.Add(36 * time.Hour)
	items, total, err = ListPayments(context.Background(), db, ListPaymentsFilter{From: &from, To: &to}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, p2.PaymentID, items[0].PaymentID)
}

func TestListPayments_PaginationStable(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		recordPayment(t, db, student.StudentID, int64(100+i), base.Add(time.Duration(i)*time.Hour))
	}

	seen := make(map[string]bool)
	for page := 0; page < 5; page++ {
		items, total, err := ListPayments(context.Background(), db, ListPaymentsFilter{}, page, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, items, 1)
		require.False(t, seen[items[0].PaymentReceiptNo], "page %d repeated %s", page, items[0].PaymentReceiptNo)
		seen[items[0].PaymentReceiptNo] = true
	}
	assert.Len(t, seen, 5)
}
