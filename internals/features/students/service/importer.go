// file: internals/features/students/service/importer.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/students/model"
)

/* =========================================================
   Reconciliation importer: bulk upsert of student master
   data + fee expectations from a tabular source.
========================================================= */

type ImportMode string

const (
	ImportModeUpsert     ImportMode = "upsert"
	ImportModeCreateOnly ImportMode = "create_only"
)

func ParseImportMode(s string) (ImportMode, bool) {
	switch ImportMode(strings.TrimSpace(strings.ToLower(s))) {
	case ImportModeUpsert:
		return ImportModeUpsert, true
	case ImportModeCreateOnly:
		return ImportModeCreateOnly, true
	}
	return "", false
}

// ImportSheet: header row + ordered data rows as raw cell strings.
// FirstDataRow is the spreadsheet row number of Rows[0] (2 for an xlsx
// whose header sits in row 1) so reported row numbers match what the
// operator sees in Excel.
type ImportSheet struct {
	Header       []string
	Rows         [][]string
	FirstDataRow int
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
}

type ImportResult struct {
	Created    int              `json:"created"`
	Updated    int              `json:"updated"`
	FeeUpdated int              `json:"fee_updated"`
	Errors     []ImportRowError `json:"errors"`
}

// ErrImportAborted: atomic batch contained row errors; nothing committed.
var ErrImportAborted = errors.New("atomic import rolled back")

// MissingColumnsError: required columns could not be resolved from any
// alias. The whole import is rejected before a single row runs.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

/* =========================================================
   Header alias resolution — declarative table, first
   matching alias wins, case-insensitive, non-alphanumerics
   stripped.
========================================================= */

const (
	fieldCode    = "code"
	fieldName    = "name"
	fieldClass   = "class"
	fieldSection = "section"
	fieldFee     = "fee"
)

var headerAliases = []struct {
	field   string
	aliases []string
}{
	{fieldCode, []string{"studentcode", "studentid", "rollno", "rollnumber", "roll", "id"}},
	{fieldName, []string{"name", "studentname"}},
	{fieldClass, []string{"classname", "class", "std", "standard"}},
	{fieldSection, []string{"section", "sec"}},
	{fieldFee, []string{"expectedfeeamount", "expectedfee", "fee", "fees"}},
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// resolveColumns maps canonical field → column index.
func resolveColumns(header []string) (map[string]int, *MissingColumnsError) {
	normalized := make(map[string]int, len(header)) // first occurrence wins
	for i, h := range header {
		if k := normalizeHeader(h); k != "" {
			if _, dup := normalized[k]; !dup {
				normalized[k] = i
			}
		}
	}

	cols := make(map[string]int, len(headerAliases))
	for _, entry := range headerAliases {
		for _, alias := range entry.aliases {
			if idx, ok := normalized[alias]; ok {
				cols[entry.field] = idx
				break
			}
		}
	}

	var missing []string
	if _, ok := cols[fieldCode]; !ok {
		missing = append(missing, "student_code/rollno")
	}
	if _, ok := cols[fieldName]; !ok {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}
	return cols, nil
}

/* =========================================================
   Row parsing
========================================================= */

type parsedRow struct {
	code      string
	name      string
	className *string
	section   *string
	fee       decimal.Decimal
	blank     bool
	errMsg    string
}

func cell(cols map[string]int, row []string, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optCell(cols map[string]int, row []string, field string) *string {
	v := cell(cols, row, field)
	if v == "" {
		return nil
	}
	return &v
}

func parseRow(cols map[string]int, row []string) parsedRow {
	pr := parsedRow{
		code:      cell(cols, row, fieldCode),
		name:      cell(cols, row, fieldName),
		className: optCell(cols, row, fieldClass),
		section:   optCell(cols, row, fieldSection),
	}
	feeRaw := cell(cols, row, fieldFee)

	if pr.code == "" && pr.name == "" && pr.className == nil && pr.section == nil && feeRaw == "" {
		pr.blank = true
		return pr
	}

	if pr.code == "" {
		pr.errMsg = "student_code/rollno is required"
		return pr
	}
	if pr.name == "" {
		pr.errMsg = "name is required"
		return pr
	}

	// Permissive numeric parse, dot decimal separator only. Missing → 0.
	if feeRaw == "" {
		pr.fee = decimal.Zero
	} else {
		fee, err := decimal.NewFromString(feeRaw)
		if err != nil {
			pr.errMsg = "fees must be a number"
			return pr
		}
		if fee.IsNegative() {
			pr.errMsg = "fees must be >= 0"
			return pr
		}
		pr.fee = fee
	}
	return pr
}

/* =========================================================
   Apply + transaction modes
========================================================= */

type rowOutcome struct {
	created    bool
	updated    bool
	feeUpdated bool
}

// applyRow mutates student + fee for one parsed row. A returned message is
// a row-level error (data, not a fault); a returned error aborts the batch.
func applyRow(tx *gorm.DB, actorID uuid.UUID, mode ImportMode, pr parsedRow) (rowOutcome, string, error) {
	var out rowOutcome

	var student model.StudentModel
	err := tx.First(&student, "student_code = ?", pr.code).Error
	switch {
	case err == nil:
		if mode == ImportModeCreateOnly {
			return out, fmt.Sprintf("student_code '%s' already exists", pr.code), nil
		}
		if err := tx.Model(&student).Updates(map[string]any{
			"student_name":       pr.name,
			"student_class_name": pr.className,
			"student_section":    pr.section,
		}).Error; err != nil {
			return out, "", err
		}
		out.updated = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		student = model.StudentModel{
			StudentCode:      pr.code,
			StudentName:      pr.name,
			StudentClassName: pr.className,
			StudentSection:   pr.section,
		}
		if err := tx.Create(&student).Error; err != nil {
			return out, "", err
		}
		out.created = true
	default:
		return out, "", err
	}

	now := time.Now()
	var fee model.StudentFeeModel
	err = tx.First(&fee, "student_fee_student_id = ?", student.StudentID).Error
	switch {
	case err == nil:
		if err := tx.Model(&fee).Updates(map[string]any{
			"student_fee_expected_amount": pr.fee,
			"student_fee_updated_at":      now,
			"student_fee_updated_by":      actorID,
		}).Error; err != nil {
			return out, "", err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		fee = model.StudentFeeModel{
			StudentFeeStudentID:      student.StudentID,
			StudentFeeExpectedAmount: pr.fee,
			StudentFeeUpdatedAt:      &now,
			StudentFeeUpdatedBy:      &actorID,
		}
		if err := tx.Create(&fee).Error; err != nil {
			return out, "", err
		}
	default:
		return out, "", err
	}
	out.feeUpdated = true
	return out, "", nil
}

// Import runs the batch. atomic=true: one transaction, any row error
// discards everything (result then carries only the errors and
// ErrImportAborted). atomic=false: per-row transactions, failed rows are
// reported but do not block the rest.
func Import(ctx context.Context, db *gorm.DB, actorID uuid.UUID, sheet ImportSheet, mode ImportMode, atomic bool) (*ImportResult, error) {
	cols, missing := resolveColumns(sheet.Header)
	if missing != nil {
		return nil, missing
	}

	res := &ImportResult{Errors: []ImportRowError{}}

	if atomic {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i, row := range sheet.Rows {
				rowNum := sheet.FirstDataRow + i
				pr := parseRow(cols, row)
				if pr.blank {
					continue
				}
				if pr.errMsg != "" {
					res.Errors = append(res.Errors, ImportRowError{Row: rowNum, Message: pr.errMsg})
					continue
				}
				out, msg, err := applyRow(tx, actorID, mode, pr)
				if err != nil {
					return err
				}
				if msg != "" {
					res.Errors = append(res.Errors, ImportRowError{Row: rowNum, Message: msg})
					continue
				}
				tally(res, out)
			}
			if len(res.Errors) > 0 {
				return ErrImportAborted
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrImportAborted) {
				// batch discarded; counts are meaningless, only errors remain
				return &ImportResult{Errors: res.Errors}, ErrImportAborted
			}
			return nil, err
		}
		return res, nil
	}

	// best-effort: commit row by row so partial progress survives
	for i, row := range sheet.Rows {
		rowNum := sheet.FirstDataRow + i
		pr := parseRow(cols, row)
		if pr.blank {
			continue
		}
		if pr.errMsg != "" {
			res.Errors = append(res.Errors, ImportRowError{Row: rowNum, Message: pr.errMsg})
			continue
		}

		var out rowOutcome
		var msg string
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			out, msg, err = applyRow(tx, actorID, mode, pr)
			return err
		})
		if err != nil {
			return nil, err
		}
		if msg != "" {
			res.Errors = append(res.Errors, ImportRowError{Row: rowNum, Message: msg})
			continue
		}
		tally(res, out)
	}
	return res, nil
}

func tally(res *ImportResult, out rowOutcome) {
	if out.created {
		res.Created++
	}
	if out.updated {
		res.Updated++
	}
	if out.feeUpdated {
		res.FeeUpdated++
	}
}
