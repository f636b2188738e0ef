// internal/application/filter.go
//
// Admin console list filtering and CSV export.
//
// Context
//   The console fetches the full record set once and narrows it with three
//   predicates ANDed together: a case-insensitive substring search across
//   name, company, and email, a status equality filter, and a membership
//   tier equality filter.  "all" (or empty) disables a predicate.  Export
//   serialises the currently filtered view, so both live here.
//
// Notes
//   •  Every CSV field is wrapped in double quotes, with embedded quotes
//      doubled, so free-text answers containing commas or quotes survive a
//      spreadsheet import.
//
//------------------------------------------------------------------------------

package application

import (
	"io"
	"strconv"
	"strings"
)

// Filter narrows an application list.  Zero values match everything.
type Filter struct {
	Query      string // substring, matched against name, company, email
	Status     string // "", "all", or a Status value
	Membership string // "", "all", "founding", or "annual"
}

// Apply returns the subset of apps matching every predicate, preserving
// input order (the repository already sorts newest first).
func (f Filter) Apply(apps []Application) []Application {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Application, 0, len(apps))
	for _, a := range apps {
		if q != "" &&
			!strings.Contains(strings.ToLower(a.FullName), q) &&
			!strings.Contains(strings.ToLower(a.CompanyName), q) &&
			!strings.Contains(strings.ToLower(a.Email), q) {
			continue
		}
		if f.Status != "" && f.Status != "all" && string(a.Status) != f.Status {
			continue
		}
		if f.Membership != "" && f.Membership != "all" && a.MembershipType != f.Membership {
			continue
		}
		out = append(out, a)
	}
	return out
}

// csvHeaders is the fixed export column order.
var csvHeaders = []string{
	"Full Name", "Company", "Role", "Industry", "Years in Business",
	"Email", "Mobile", "Business Stage", "Membership Type", "Status",
	"Applied Date",
}

// WriteCSV serialises apps in the fixed column order, one header line then
// one line per record.
func WriteCSV(w io.Writer, apps []Application) error {
	if err := writeRow(w, csvHeaders); err != nil {
		return err
	}
	for _, a := range apps {
		row := []string{
			a.FullName,
			a.CompanyName,
			a.Role,
			a.Industry,
			strconv.Itoa(a.YearsInBusiness),
			a.Email,
			a.Mobile,
			a.BusinessStage,
			a.MembershipType,
			string(a.Status),
			a.CreatedAt.Format("2006-01-02"),
		}
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow quotes every field unconditionally and doubles embedded quotes.
func writeRow(w io.Writer, fields []string) error {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(f, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
