package buyer

import (
	"strconv"
	"strings"
)

// ExportHeader is the fixed column order of GET /leads/export.
const ExportHeader = "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status"

// TemplateHeader is the column set the importer accepts.
const TemplateHeader = "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,status,notes,tags"

// ExportCSV renders buyers as CSV text. Every field is double-quoted,
// absent optional fields become empty strings, and the tag list is
// comma-joined inside its single quoted field.
func ExportCSV(buyers []Buyer) string {
	var sb strings.Builder
	sb.WriteString(ExportHeader)
	sb.WriteByte('\n')

	for i, b := range buyers {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fields := []string{
			b.FullName,
			b.Email,
			b.Phone,
			string(b.City),
			string(b.PropertyType),
			bhkString(b.BHK),
			string(b.Purpose),
			intString(b.BudgetMin),
			intString(b.BudgetMax),
			string(b.Timeline),
			string(b.Source),
			b.Notes,
			strings.Join(b.Tags, ","),
			string(b.Status),
		}
		for j, f := range fields {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(f))
		}
	}
	return sb.String()
}

// TemplateCSV returns the import template: the header row and one
// sample row that passes validation as-is.
func TemplateCSV() string {
	sample := []string{
		"John Doe",
		"john@example.com",
		"9876543210",
		string(CityChandigarh),
		string(PropertyApartment),
		string(BHKTwo),
		string(PurposeBuy),
		"3000000",
		"5000000",
		string(TimelineZeroToThree),
		string(SourceWebsite),
		string(StatusNew),
		"Looking for 2BHK near IT Park",
		"hot,priority",
	}
	return TemplateHeader + "\n" + strings.Join(sample, ",")
}

// quote wraps a field in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func bhkString(b *BHK) string {
	if b == nil {
		return ""
	}
	return string(*b)
}

func intString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
