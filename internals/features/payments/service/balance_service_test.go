// file: internals/features/payments/service/balance_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStudentBalance_TracksLedger(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")
	seedFee(t, db, student.StudentID, 1000)

	b, err := GetStudentBalance(context.Background(), db, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "1000", b.ExpectedFee.String())
	assert.Equal(t, "0", b.PaidTotal.String())
	assert.Equal(t, "1000", b.Pending.String())

	paid := recordPayment(t, db, student.StudentID, 400, time.Now())

	b, err = GetStudentBalance(context.Background(), db, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "400", b.PaidTotal.String())
	assert.Equal(t, "600", b.Pending.String())

	_, err = ReversePayment(context.Background(), db, ReversePaymentInput{
		PaymentID:     paid.PaymentID,
		Reason:        "bounced",
		CreatedBy:     uuid.New(),
		ReceiptPrefix: "FEE-",
	})
	require.NoError(t, err)

	// reversal nets the paid total back to zero
	b, err = GetStudentBalance(context.Background(), db, student.StudentID)
	require.NoError(t, err)
	assert.True(t, b.PaidTotal.IsZero(), "paid_total = %s", b.PaidTotal)
	assert.Equal(t, "1000", b.Pending.String())
}

func TestGetStudentBalance_NoFeeRowDefaultsToZero(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "S-001")

	b, err := GetStudentBalance(context.Background(), db, student.StudentID)
	require.NoError(t, err)
	assert.True(t, b.ExpectedFee.IsZero())
	assert.True(t, b.Pending.IsZero())

	// overpayment drives pending negative, which is kept as-is
	recordPayment(t, db, student.StudentID, 50, time.Now())
	b, err = GetStudentBalance(context.Background(), db, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "-50", b.Pending.String())
}

func TestGetStudentBalance_UnknownStudent(t *testing.T) {
	db := newTestDB(t)
	_, err := GetStudentBalance(context.Background(), db, uuid.New())
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestListStudentBalances_FilterAndPaginate(t *testing.T) {
	db := newTestDB(t)
	a := seedStudent(t, db, "S-001")
	b := seedStudent(t, db, "S-002")
	c := seedStudent(t, db, "S-003")
	seedFee(t, db, a.StudentID, 1000)
	seedFee(t, db, b.StudentID, 500)
	seedFee(t, db, c.StudentID, 800)
	recordPayment(t, db, b.StudentID, 500, time.Now())

	items, total, err := ListStudentBalances(context.Background(), db, ListBalancesFilter{}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	// ordered by code
	assert.Equal(t, "S-001", items[0].StudentCode)
	assert.Equal(t, "S-002", items[1].StudentCode)
	assert.Equal(t, "0", items[1].Pending.String())

	search := "s-003"
	items, total, err = ListStudentBalances(context.Background(), db, ListBalancesFilter{Search: &search}, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "800", items[0].Pending.String())
}

func TestListPendingBalances_DropsSettled(t *testing.T) {
	db := newTestDB(t)
	a := seedStudent(t, db, "S-001")
	b := seedStudent(t, db, "S-002")
	seedFee(t, db, a.StudentID, 1000)
	seedFee(t, db, b.StudentID, 500)
	recordPayment(t, db, a.StudentID, 300, time.Now())
	recordPayment(t, db, b.StudentID, 500, time.Now())

	rows, err := ListPendingBalances(context.Background(), db, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "S-001", rows[0].StudentCode)
	assert.Equal(t, "700", rows[0].Pending.String())
}

func TestSumPending(t *testing.T) {
	db := newTestDB(t)
	a := seedStudent(t, db, "S-001")
	b := seedStudent(t, db, "S-002")
	seedFee(t, db, a.StudentID, 1000)
	seedFee(t, db, b.StudentID, 500)
	recordPayment(t, db, a.StudentID, 400, time.Now())

	total, err := SumPending(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1100)), "total = %s", total)
}
