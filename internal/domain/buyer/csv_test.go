package buyer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV_HeaderAndQuoting(t *testing.T) {
	b := *storedBuyer()
	b.Notes = `He said "soon"`

	out := ExportCSV([]Buyer{b})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, ExportHeader, lines[0])
	assert.Contains(t, lines[1], `"John Doe"`)
	assert.Contains(t, lines[1], `"He said ""soon"""`)
	// The tag list is one quoted field, comma-joined inside.
	assert.Contains(t, lines[1], `"urgent,investor"`)
}

func TestExportCSV_AbsentOptionalsAreEmpty(t *testing.T) {
	b := *storedBuyer()
	b.BHK = nil
	b.BudgetMin = nil
	b.BudgetMax = nil
	b.Email = ""
	b.Tags = nil

	out := ExportCSV([]Buyer{b})
	line := strings.Split(out, "\n")[1]

	fields := strings.Split(line, `","`)
	require.Len(t, fields, 14)
	assert.Equal(t, "", fields[1], "email")
	assert.Equal(t, "", fields[5], "bhk")
	assert.Equal(t, "", fields[7], "budgetMin")
	assert.Equal(t, "", fields[8], "budgetMax")
}

func TestTemplateCSV_SampleRowPassesValidation(t *testing.T) {
	out := TemplateCSV()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, TemplateHeader, lines[0])

	headers := strings.Split(lines[0], ",")
	values := strings.Split(lines[1], ",")
	// The sample tag list itself contains a comma, so values has one
	// extra element that belongs to tags (the final column).
	require.GreaterOrEqual(t, len(values), len(headers))

	row := CSVRow{}
	byName := map[string]*string{
		"fullName": &row.FullName, "email": &row.Email, "phone": &row.Phone,
		"city": &row.City, "propertyType": &row.PropertyType, "bhk": &row.BHK,
		"purpose": &row.Purpose, "budgetMin": &row.BudgetMin, "budgetMax": &row.BudgetMax,
		"timeline": &row.Timeline, "source": &row.Source, "status": &row.Status,
		"notes": &row.Notes, "tags": &row.Tags,
	}
	for i, h := range headers {
		dst, ok := byName[h]
		require.True(t, ok, "unexpected template column %q", h)
		if h == "tags" {
			*dst = strings.Join(values[i:], ",")
		} else {
			*dst = values[i]
		}
	}

	in, errs := CoerceRow(row)
	require.Empty(t, errs)
	require.NoError(t, ValidateInput(&in))

	assert.Equal(t, CityChandigarh, in.City)
	assert.Equal(t, PropertyApartment, in.PropertyType)
	require.NotNil(t, in.BHK)
	assert.Equal(t, BHKTwo, *in.BHK)
	assert.Equal(t, TimelineZeroToThree, in.Timeline)
	assert.Equal(t, StatusNew, in.Status)
}

func TestExportImportRoundTrip(t *testing.T) {
	// Exporting a buyer and feeding the same values back through the
	// lenient importer must validate cleanly.
	b := *storedBuyer()
	out := ExportCSV([]Buyer{b})
	line := strings.Split(out, "\n")[1]

	unq := strings.Split(strings.Trim(line, `"`), `","`)
	require.Len(t, unq, 14)

	row := CSVRow{
		FullName: unq[0], Email: unq[1], Phone: unq[2], City: unq[3],
		PropertyType: unq[4], BHK: unq[5], Purpose: unq[6],
		BudgetMin: unq[7], BudgetMax: unq[8], Timeline: unq[9],
		Source: unq[10], Notes: unq[11], Tags: unq[12], Status: unq[13],
	}

	in, errs := CoerceRow(row)
	require.Empty(t, errs)
	require.NoError(t, ValidateInput(&in))
	assert.Equal(t, []string{"urgent", "investor"}, in.Tags)
}
