package model

import "time"

// ReceiptSequenceModel is the single shared counter receipt numbers are
// allocated from. One row (id=1) per deployment, mutated only inside the
// ledger transaction while held FOR UPDATE. Monotonic and gapless under
// normal operation; duplicates never.
type ReceiptSequenceModel struct {
	ReceiptSequenceID            int       `gorm:"column:receipt_sequence_id;primaryKey" json:"receipt_sequence_id"`
	ReceiptSequencePrefix        string    `gorm:"column:receipt_sequence_prefix;type:varchar(20);not null" json:"receipt_sequence_prefix"`
	ReceiptSequenceCurrentNumber int64     `gorm:"column:receipt_sequence_current_number;not null" json:"receipt_sequence_current_number"`
	ReceiptSequenceUpdatedAt     time.Time `gorm:"column:receipt_sequence_updated_at;not null" json:"receipt_sequence_updated_at"`
}

func (ReceiptSequenceModel) TableName() string { return "receipt_sequence" }
