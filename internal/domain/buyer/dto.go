package buyer

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// BuyerInput carries the mutable fields of a buyer as submitted by a
// client. Validation tags cover the per-field shape rules; cross-field
// rules live in ValidateInput.
type BuyerInput struct {
	FullName     string       `json:"fullName" validate:"required,min=2,max=80"`
	Email        string       `json:"email" validate:"omitempty,email"`
	Phone        string       `json:"phone" validate:"required"`
	City         City         `json:"city" validate:"required,oneof=Chandigarh Mohali Zirakpur Panchkula Other"`
	PropertyType PropertyType `json:"propertyType" validate:"required,oneof=Apartment Villa Plot Office Retail"`
	BHK          *BHK         `json:"bhk" validate:"omitempty,oneof=Studio 1 2 3 4"`
	Purpose      Purpose      `json:"purpose" validate:"required,oneof=Buy Rent"`
	BudgetMin    *int         `json:"budgetMin" validate:"omitempty,gt=0"`
	BudgetMax    *int         `json:"budgetMax" validate:"omitempty,gt=0"`
	Timeline     Timeline     `json:"timeline" validate:"required,oneof=ZeroToThreeMonths ThreeToSixMonths Exploring"`
	Source       Source       `json:"source" validate:"required,oneof=Website Referral WalkIn Call Other"`
	Status       Status       `json:"status" validate:"required,oneof=New Qualified Contacted Visited Negotiation Converted Dropped"`
	Notes        string       `json:"notes" validate:"max=1000"`
	Tags         []string     `json:"tags"`
}

// UpdateBuyerRequest is the PUT body: the full field set plus the
// last-observed update timestamp acting as the concurrency token.
type UpdateBuyerRequest struct {
	BuyerInput
	UpdatedAt time.Time `json:"updatedAt"`
}

// CSVRow is one raw import row. Everything arrives as a string; the
// lenient coercion in CoerceRow turns it into a BuyerInput.
type CSVRow struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	PropertyType string `json:"propertyType"`
	BHK          string `json:"bhk"`
	Purpose      string `json:"purpose"`
	BudgetMin    string `json:"budgetMin"`
	BudgetMax    string `json:"budgetMax"`
	Timeline     string `json:"timeline"`
	Source       string `json:"source"`
	Notes        string `json:"notes"`
	Tags         string `json:"tags"`
	Status       string `json:"status"`
}

// ImportRequest is the POST /leads/import body.
type ImportRequest struct {
	Rows []CSVRow `json:"rows"`
}

// RowResult is the per-row outcome of a bulk import. Row is 1-based.
type RowResult struct {
	Row     int      `json:"row"`
	Data    CSVRow   `json:"data"`
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportSummary aggregates a bulk import. Inserted stays 0 when the
// transaction rolled back even if Success counted valid rows.
type ImportSummary struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Errors   int `json:"errors"`
	Inserted int `json:"inserted"`
}

// ImportResult is the full POST /leads/import response payload.
type ImportResult struct {
	Results []RowResult   `json:"results"`
	Summary ImportSummary `json:"summary"`
}

// ListResponse is the paginated GET /leads payload.
type ListResponse struct {
	Items      []Buyer `json:"items"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// HistoryEntry is one audit record with its diff payload inlined.
type HistoryEntry struct {
	ID        string          `json:"id"`
	ChangedBy string          `json:"changedBy"`
	Diff      json.RawMessage `json:"diff"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BuyerDetail is the GET /leads/:id payload.
type BuyerDetail struct {
	Buyer   Buyer          `json:"buyer"`
	History []HistoryEntry `json:"history"`
}

// Filters narrows list/export queries. Empty fields are ignored.
type Filters struct {
	Search       string
	City         City
	PropertyType PropertyType
	Status       Status
	Timeline     Timeline
}

// ParseFilters reads the shared query parameters of GET /leads and
// GET /leads/export. Unknown enum literals are reported, not ignored.
func ParseFilters(get func(string) string) (Filters, []FieldError) {
	var f Filters
	var errs []FieldError

	f.Search = strings.TrimSpace(get("search"))

	if v := get("city"); v != "" {
		f.City = City(v)
		if !f.City.Valid() {
			errs = append(errs, FieldError{Field: "city", Message: "must be one of: Chandigarh Mohali Zirakpur Panchkula Other"})
		}
	}
	if v := get("propertyType"); v != "" {
		f.PropertyType = PropertyType(v)
		if !f.PropertyType.Valid() {
			errs = append(errs, FieldError{Field: "propertyType", Message: "must be one of: Apartment Villa Plot Office Retail"})
		}
	}
	if v := get("status"); v != "" {
		f.Status = Status(v)
		if !f.Status.Valid() {
			errs = append(errs, FieldError{Field: "status", Message: "must be one of: New Qualified Contacted Visited Negotiation Converted Dropped"})
		}
	}
	if v := get("timeline"); v != "" {
		f.Timeline = Timeline(v)
		if !f.Timeline.Valid() {
			errs = append(errs, FieldError{Field: "timeline", Message: "must be one of: ZeroToThreeMonths ThreeToSixMonths Exploring"})
		}
	}
	return f, errs
}

// ParsePage reads the 1-based page query parameter, defaulting to 1.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return 1
}
