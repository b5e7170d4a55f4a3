package buyer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MaxImportRows caps one bulk import request.
const MaxImportRows = 200

// Import runs the bulk pipeline for rows owned by userID: every row is
// validated independently and reported under its 1-based position, then
// the valid subset is inserted atomically in original order, each buyer
// followed by its "imported" audit record. A storage failure rolls the
// whole batch back and surfaces as ErrTransactionFailed next to the
// result, whose summary then reports inserted=0 while keeping the
// validation counts.
//
// Callers must reject empty and oversized batches before calling; the
// handler owns those request-level checks.
func (s *Service) Import(ctx context.Context, userID string, rows []CSVRow) (*ImportResult, error) {
	results := make([]RowResult, 0, len(rows))
	var validInputs []BuyerInput

	for i, row := range rows {
		in, rowErrs := validateRow(row)
		if len(rowErrs) > 0 {
			results = append(results, RowResult{Row: i + 1, Data: row, Errors: rowErrs})
			continue
		}
		validInputs = append(validInputs, in)
		results = append(results, RowResult{Row: i + 1, Data: row, Success: true})
	}

	summary := ImportSummary{
		Total:   len(rows),
		Success: len(validInputs),
		Errors:  len(rows) - len(validInputs),
	}

	if len(validInputs) > 0 {
		buyers, recs, err := s.buildBatch(userID, validInputs)
		if err != nil {
			return nil, err
		}
		if err := s.store.ImportBatch(ctx, buyers, recs); err != nil {
			// Zero rows persisted; validation outcomes stand.
			return &ImportResult{Results: results, Summary: summary}, ErrTransactionFailed
		}
		summary.Inserted = len(buyers)
	}

	return &ImportResult{Results: results, Summary: summary}, nil
}

// buildBatch stamps each valid input with the importing user and a
// fresh identity, preserving row order.
func (s *Service) buildBatch(userID string, inputs []BuyerInput) ([]*Buyer, []*ChangeRecord, error) {
	now := s.now().UTC()
	buyers := make([]*Buyer, len(inputs))
	recs := make([]*ChangeRecord, len(inputs))

	for i, in := range inputs {
		b := &Buyer{
			ID:        uuid.NewString(),
			OwnerID:   userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyInput(b, in)

		diff, err := ImportedDiff(in)
		if err != nil {
			return nil, nil, err
		}
		buyers[i] = b
		recs[i] = s.newRecord(b.ID, userID, diff, now)
	}
	return buyers, recs, nil
}

// validateRow coerces and validates one raw row. A panic inside
// validation is captured as that row's failure so one malformed row can
// never abort its siblings.
func validateRow(row CSVRow) (in BuyerInput, errs []string) {
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, fmt.Sprintf("row failed validation: %v", r))
		}
	}()

	return rowCheck(row)
}

// rowCheck runs coercion and the shared rule set for one row. It is a
// variable so tests can substitute an implementation that fails in
// unexpected ways.
var rowCheck = func(row CSVRow) (in BuyerInput, errs []string) {
	in, coerceErrs := CoerceRow(row)
	if len(coerceErrs) > 0 {
		for _, fe := range coerceErrs {
			errs = append(errs, fe.String())
		}
		return in, errs
	}

	if err := ValidateInput(&in); err != nil {
		if verr, ok := err.(*ValidationError); ok {
			for _, fe := range verr.Fields {
				errs = append(errs, fe.String())
			}
		} else {
			errs = append(errs, err.Error())
		}
	}
	return in, errs
}
