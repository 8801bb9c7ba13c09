// file: internals/features/payments/service/receipt_sequence_test.go
package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "sekolahku_backend/internals/features/payments/model"
	studentModel "sekolahku_backend/internals/features/students/model"
)

// newTestDB opens an in-memory database pinned to a single connection so
// every transaction in the test sees the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.AutoMigrate(
		&studentModel.StudentModel{},
		&studentModel.StudentFeeModel{},
		&model.ReceiptSequenceModel{},
		&model.PaymentModel{},
	))
	return db
}

func allocate(t *testing.T, db *gorm.DB, prefix string) string {
	t.Helper()
	var got string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		no, err := AllocateReceiptNo(tx, prefix)
		if err != nil {
			return err
		}
		got = no
		return nil
	}))
	return got
}

func TestAllocateReceiptNo_FirstCallSeedsCounter(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "FEE-1", allocate(t, db, "FEE-"))
	assert.Equal(t, "FEE-2", allocate(t, db, "FEE-"))
	assert.Equal(t, "FEE-3", allocate(t, db, "FEE-"))

	var seq model.ReceiptSequenceModel
	require.NoError(t, db.First(&seq, "receipt_sequence_id = ?", 1).Error)
	assert.Equal(t, int64(3), seq.ReceiptSequenceCurrentNumber)
	assert.Equal(t, "FEE-", seq.ReceiptSequencePrefix)
}

func TestAllocateReceiptNo_StoredPrefixWins(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "FEE-1", allocate(t, db, "FEE-"))
	// a later caller with a different configured prefix still gets the stored one
	assert.Equal(t, "FEE-2", allocate(t, db, "RCPT-"))
}

func TestAllocateReceiptNo_RollbackReturnsNumber(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "FEE-1", allocate(t, db, "FEE-"))

	boom := errors.New("caller failed after allocation")
	err := db.Transaction(func(tx *gorm.DB) error {
		no, err := AllocateReceiptNo(tx, "FEE-")
		require.NoError(t, err)
		require.Equal(t, "FEE-2", no)
		return boom
	})
	require.ErrorIs(t, err, boom)

	// the increment rolled back with the caller, so the number is reissued
	assert.Equal(t, "FEE-2", allocate(t, db, "FEE-"))
}

func TestAllocateReceiptNo_ManyAllocationsStayUnique(t *testing.T) {
	db := newTestDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		no := allocate(t, db, "FEE-")
		require.False(t, seen[no], "duplicate receipt %s", no)
		seen[no] = true
	}
	for i := 1; i <= 50; i++ {
		assert.True(t, seen[fmt.Sprintf("FEE-%d", i)])
	}
}
