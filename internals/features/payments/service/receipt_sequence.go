// file: internals/features/payments/service/receipt_sequence.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "sekolahku_backend/internals/features/payments/model"
)

// ErrSequenceBusy: the counter row lock could not be acquired within the
// bounded wait. Retry is the caller's call, never ours.
var ErrSequenceBusy = errors.New("receipt sequence busy")

const receiptSequenceRowID = 1

// AllocateReceiptNo hands out the next receipt number inside the caller's
// transaction. The counter row is read under FOR UPDATE so the
// read-increment-write window is exclusive; the lock is released when the
// surrounding transaction ends, which keeps the allocation and the ledger
// entry atomic. The increment rides the caller's transaction, so a rollback
// hands the number back for the next caller. Duplicates are impossible: the
// lock serializes allocation and the unique index on payment_receipt_no
// backstops it.
//
// First call ever creates the row at zero with the configured prefix; from
// then on the stored prefix wins.
func AllocateReceiptNo(tx *gorm.DB, prefix string) (string, error) {
	onPostgres := tx.Dialector.Name() == "postgres"

	if onPostgres {
		// bounded wait on the lock, scoped to this tx
		if err := tx.Exec("SET LOCAL lock_timeout = '3s'").Error; err != nil {
			return "", err
		}
	}

	q := tx
	if onPostgres {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq model.ReceiptSequenceModel
	err := q.First(&seq, "receipt_sequence_id = ?", receiptSequenceRowID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seq = model.ReceiptSequenceModel{
			ReceiptSequenceID:            receiptSequenceRowID,
			ReceiptSequencePrefix:        prefix,
			ReceiptSequenceCurrentNumber: 0,
			ReceiptSequenceUpdatedAt:     time.Now(),
		}
		if err := tx.Create(&seq).Error; err != nil {
			return "", translateSequenceErr(err)
		}
	case err != nil:
		return "", translateSequenceErr(err)
	}

	seq.ReceiptSequenceCurrentNumber++
	seq.ReceiptSequenceUpdatedAt = time.Now()

	if err := tx.Model(&model.ReceiptSequenceModel{}).
		Where("receipt_sequence_id = ?", receiptSequenceRowID).
		Updates(map[string]any{
			"receipt_sequence_current_number": seq.ReceiptSequenceCurrentNumber,
			"receipt_sequence_updated_at":     seq.ReceiptSequenceUpdatedAt,
		}).Error; err != nil {
		return "", translateSequenceErr(err)
	}

	return fmt.Sprintf("%s%d", seq.ReceiptSequencePrefix, seq.ReceiptSequenceCurrentNumber), nil
}

func translateSequenceErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "55P03" { // lock_not_available
		return ErrSequenceBusy
	}
	return err
}
