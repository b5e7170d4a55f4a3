package buyer

import "encoding/json"

// Audit payload action tags.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionImported = "imported"
)

// FieldChange is one before/after pair inside an "updated" payload.
type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

type snapshotPayload struct {
	Action string     `json:"action"`
	Data   BuyerInput `json:"data"`
}

type changesPayload struct {
	Action  string                 `json:"action"`
	Changes map[string]FieldChange `json:"changes"`
}

// CreatedDiff serializes the full-snapshot payload for a new record.
func CreatedDiff(in BuyerInput) (string, error) {
	b, err := json.Marshal(snapshotPayload{Action: ActionCreated, Data: in})
	return string(b), err
}

// ImportedDiff serializes the full-snapshot payload for an imported row.
func ImportedDiff(in BuyerInput) (string, error) {
	b, err := json.Marshal(snapshotPayload{Action: ActionImported, Data: in})
	return string(b), err
}

// UpdatedDiff serializes a changes payload. Callers must not invoke it
// with an empty diff; a zero-change update writes no audit record.
func UpdatedDiff(changes map[string]FieldChange) (string, error) {
	b, err := json.Marshal(changesPayload{Action: ActionUpdated, Changes: changes})
	return string(b), err
}

// Diff compares the stored record against a validated input field by
// field and returns only the fields whose value actually changes.
// Equality is explicit per field: tag lists element-wise, optional
// numbers and the bedroom count by pointed-to value, everything else by
// string value. An empty map means the update is a no-op for audit
// purposes.
func Diff(old *Buyer, in BuyerInput) map[string]FieldChange {
	changes := make(map[string]FieldChange)

	if old.FullName != in.FullName {
		changes["fullName"] = FieldChange{From: old.FullName, To: in.FullName}
	}
	if old.Email != in.Email {
		changes["email"] = FieldChange{From: old.Email, To: in.Email}
	}
	if old.Phone != in.Phone {
		changes["phone"] = FieldChange{From: old.Phone, To: in.Phone}
	}
	if old.City != in.City {
		changes["city"] = FieldChange{From: old.City, To: in.City}
	}
	if old.PropertyType != in.PropertyType {
		changes["propertyType"] = FieldChange{From: old.PropertyType, To: in.PropertyType}
	}
	if !equalBHK(old.BHK, in.BHK) {
		changes["bhk"] = FieldChange{From: old.BHK, To: in.BHK}
	}
	if old.Purpose != in.Purpose {
		changes["purpose"] = FieldChange{From: old.Purpose, To: in.Purpose}
	}
	if !equalInt(old.BudgetMin, in.BudgetMin) {
		changes["budgetMin"] = FieldChange{From: old.BudgetMin, To: in.BudgetMin}
	}
	if !equalInt(old.BudgetMax, in.BudgetMax) {
		changes["budgetMax"] = FieldChange{From: old.BudgetMax, To: in.BudgetMax}
	}
	if old.Timeline != in.Timeline {
		changes["timeline"] = FieldChange{From: old.Timeline, To: in.Timeline}
	}
	if old.Source != in.Source {
		changes["source"] = FieldChange{From: old.Source, To: in.Source}
	}
	if old.Status != in.Status {
		changes["status"] = FieldChange{From: old.Status, To: in.Status}
	}
	if old.Notes != in.Notes {
		changes["notes"] = FieldChange{From: old.Notes, To: in.Notes}
	}
	if !equalTags(old.Tags, in.Tags) {
		changes["tags"] = FieldChange{From: []string(old.Tags), To: in.Tags}
	}

	return changes
}

func equalBHK(a, b *BHK) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// equalTags compares element-wise in order; nil and empty are the same.
func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
