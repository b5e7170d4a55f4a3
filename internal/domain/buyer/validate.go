package buyer

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\d{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the JSON field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError names one violated field and the reason.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates every violation found in one input. It is
// returned whole so a single failing request reports all its problems.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Normalize applies defaults and drops fields the record must not
// carry: status defaults to New, nil tags become an empty list, and the
// bedroom count is cleared for property types that do not take one.
func (in *BuyerInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = StatusNew
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	if !in.PropertyType.RequiresBHK() {
		in.BHK = nil
	}
}

// ValidateInput normalizes in and checks every field-level and
// cross-field rule, collecting all violations instead of stopping at
// the first. A nil return means the input is ready to persist.
func ValidateInput(in *BuyerInput) error {
	in.Normalize()

	var fields []FieldError
	if err := validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
	}

	if in.Phone != "" && !phoneRe.MatchString(in.Phone) {
		fields = append(fields, FieldError{Field: "phone", Message: "must be a 10-15 digit number"})
	}

	if in.PropertyType.RequiresBHK() && in.BHK == nil {
		fields = append(fields, FieldError{Field: "bhk", Message: "is required for Apartment and Villa properties"})
	}

	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMax < *in.BudgetMin {
		fields = append(fields, FieldError{Field: "budgetMax", Message: "must be greater than or equal to budgetMin"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be positive"
	default:
		return "is invalid"
	}
}

// CoerceRow turns a raw all-string import row into a typed BuyerInput.
// Empty strings mean "absent" for every optional field. Coercion
// failures are reported per field; enum and cross-field rules are left
// to ValidateInput so both import and API enforce the same rule set.
func CoerceRow(row CSVRow) (BuyerInput, []FieldError) {
	var errs []FieldError

	in := BuyerInput{
		FullName:     strings.TrimSpace(row.FullName),
		Email:        strings.TrimSpace(row.Email),
		Phone:        strings.TrimSpace(row.Phone),
		City:         City(strings.TrimSpace(row.City)),
		PropertyType: PropertyType(strings.TrimSpace(row.PropertyType)),
		Purpose:      Purpose(strings.TrimSpace(row.Purpose)),
		Timeline:     Timeline(strings.TrimSpace(row.Timeline)),
		Source:       Source(strings.TrimSpace(row.Source)),
		Status:       Status(strings.TrimSpace(row.Status)),
		Notes:        row.Notes,
		Tags:         splitTags(row.Tags),
	}

	if v := strings.TrimSpace(row.BHK); v != "" {
		b := BHK(v)
		in.BHK = &b
	}

	if n, ok := coerceInt("budgetMin", row.BudgetMin, &errs); ok {
		in.BudgetMin = n
	}
	if n, ok := coerceInt("budgetMax", row.BudgetMax, &errs); ok {
		in.BudgetMax = n
	}

	return in, errs
}

func coerceInt(field, raw string, errs *[]FieldError) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: "must be an integer"})
		return nil, false
	}
	return &n, true
}

func splitTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
