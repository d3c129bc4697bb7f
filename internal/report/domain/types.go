// Package domain defines the core types of the reporting service:
// allowance facts, rate entries, the client summary rollup tree, and the
// request and response shapes of the report endpoints.
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ShiftType identifies one of the four payable shift windows.
type ShiftType string

const (
	ShiftA     ShiftType = "A"
	ShiftB     ShiftType = "B"
	ShiftC     ShiftType = "C"
	ShiftPrime ShiftType = "PRIME"
)

// ShiftTypes lists the payable shift windows in report column order.
var ShiftTypes = []ShiftType{ShiftA, ShiftB, ShiftC, ShiftPrime}

// ShiftLabels maps a shift type to the descriptive label used by the
// employee search and month-range endpoints.
var ShiftLabels = map[string]string{
	"A":     "A(9PM to 6AM)",
	"B":     "B(4PM to 1AM)",
	"C":     "C(6AM to 3PM)",
	"PRIME": "PRIME(12AM to 9AM)",
}

// NormalizeShiftType folds a raw shift type from the database into the
// canonical uppercase form used for rate lookups and bucket selection.
func NormalizeShiftType(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ===== Database rows =====

// ShiftFact is one allowance line joined with one of its shift mappings,
// the unit every rollup aggregates from. Month is the duration month in
// YYYY-MM form.
type ShiftFact struct {
	EmpID          string          `db:"emp_id"`
	EmpName        string          `db:"emp_name"`
	Client         string          `db:"client"`
	Department     string          `db:"department"`
	AccountManager string          `db:"account_manager"`
	Month          string          `db:"month"`
	ShiftType      string          `db:"shift_type"`
	Days           decimal.Decimal `db:"days"`
}

// RateEntry is one row of the shift rate table. PayrollYear is stored as
// text in the database and matched against the year of a fact's duration
// month.
type RateEntry struct {
	ShiftType   string          `db:"shift_type"`
	PayrollYear string          `db:"payroll_year"`
	Amount      decimal.Decimal `db:"amount"`
}

// SearchRow is one allowance row returned by the employee search query,
// before its shift mappings are attached.
type SearchRow struct {
	ID             int64  `db:"id"`
	EmpID          string `db:"emp_id"`
	EmpName        string `db:"emp_name"`
	Department     string `db:"department"`
	Client         string `db:"client"`
	Project        string `db:"project"`
	AccountManager string `db:"account_manager"`
	DurationMonth  string `db:"duration_month"`
	PayrollMonth   string `db:"payroll_month"`
}

// MappingDays is one shift mapping row, keyed by its parent allowance.
type MappingDays struct {
	AllowanceID int64           `db:"shiftallowance_id"`
	ShiftType   string          `db:"shift_type"`
	Days        decimal.Decimal `db:"days"`
}

// MonthRangeRow is one allowance row returned by the month-range search.
type MonthRangeRow struct {
	ID             int64  `db:"id"`
	EmpID          string `db:"emp_id"`
	EmpName        string `db:"emp_name"`
	Grade          string `db:"grade"`
	Department     string `db:"department"`
	Client         string `db:"client"`
	Project        string `db:"project"`
	AccountManager string `db:"account_manager"`
	DurationMonth  string `db:"duration_month"`
	PayrollMonth   string `db:"payroll_month"`
}

// FlatRow is one allowance row with the full column set used by the flat
// Excel export.
type FlatRow struct {
	ID                int64  `db:"id"`
	EmpID             string `db:"emp_id"`
	EmpName           string `db:"emp_name"`
	Grade             string `db:"grade"`
	Department        string `db:"department"`
	Client            string `db:"client"`
	Project           string `db:"project"`
	ProjectCode       string `db:"project_code"`
	AccountManager    string `db:"account_manager"`
	DeliveryManager   string `db:"delivery_manager"`
	PracticeLead      string `db:"practice_lead"`
	BillabilityStatus string `db:"billability_status"`
	PracticeRemarks   string `db:"practice_remarks"`
	RMGComments       string `db:"rmg_comments"`
	DurationMonth     string `db:"duration_month"`
	PayrollMonth      string `db:"payroll_month"`
}

// ManagerFact is one allowance-mapping pair scoped to a single month,
// used by the monthly shift summary.
type ManagerFact struct {
	AccountManager string          `db:"account_manager"`
	Client         string          `db:"client"`
	EmpID          string          `db:"emp_id"`
	ShiftType      string          `db:"shift_type"`
	Days           decimal.Decimal `db:"days"`
}

// ===== Client summary tree =====

// Summary is the client summary response, keyed by period label. A period
// label is either a month (2024-03) or a quarter span (2024-04 - 2024-06).
type Summary map[string]*PeriodBlock

// PeriodBlock is the per-period node of the summary tree. Periods without
// matching facts carry only Message; populated periods carry Clients and
// MonthTotal.
type PeriodBlock struct {
	Clients    map[string]*ClientBlock `json:"clients,omitempty"`
	MonthTotal *MonthTotal             `json:"month_total,omitempty"`
	Message    string                  `json:"message,omitempty"`
}

// MonthTotal aggregates one period across all clients.
type MonthTotal struct {
	TotalHeadCount int     `json:"total_head_count"`
	A              float64 `json:"A"`
	B              float64 `json:"B"`
	C              float64 `json:"C"`
	Prime          float64 `json:"PRIME"`
	TotalAllowance float64 `json:"total_allowance"`
}

// ClientBlock aggregates one client within a period.
type ClientBlock struct {
	ClientA         float64               `json:"client_A"`
	ClientB         float64               `json:"client_B"`
	ClientC         float64               `json:"client_C"`
	ClientPrime     float64               `json:"client_PRIME"`
	Departments     map[string]*DeptBlock `json:"departments"`
	ClientHeadCount int                   `json:"client_head_count"`
	ClientTotal     float64               `json:"client_total"`
	AccountManager  string                `json:"account_manager"`
}

// DeptBlock aggregates one department within a client. Employees preserves
// first-seen order.
type DeptBlock struct {
	DeptA         float64         `json:"dept_A"`
	DeptB         float64         `json:"dept_B"`
	DeptC         float64         `json:"dept_C"`
	DeptPrime     float64         `json:"dept_PRIME"`
	DeptTotal     float64         `json:"dept_total"`
	Employees     []*EmployeeNode `json:"employees"`
	DeptHeadCount int             `json:"dept_head_count"`
}

// EmployeeNode is the per-employee leaf of the summary tree.
type EmployeeNode struct {
	EmpID          string  `json:"emp_id"`
	EmpName        string  `json:"emp_name"`
	AccountManager string  `json:"account_manager"`
	A              float64 `json:"A"`
	B              float64 `json:"B"`
	C              float64 `json:"C"`
	Prime          float64 `json:"PRIME"`
	Total          float64 `json:"total"`
}

// ===== Cache entries =====

// CachedSummary is the latest-period cache entry for the default summary
// request.
type CachedSummary struct {
	CachedMonth string  `json:"_cached_month"`
	Data        Summary `json:"data"`
}

// CachedExport is the latest-period cache entry for the default summary
// export. FilePath is verified against the filesystem before reuse.
type CachedExport struct {
	CachedMonth string `json:"_cached_month"`
	FilePath    string `json:"file_path"`
}

// ===== Requests =====

// SummaryRequest is the body of the client summary and summary download
// endpoints. Clients is either the string "ALL" or a map of client name to
// department list; AccountManager is either a single name or a list of
// names.
type SummaryRequest struct {
	Clients          interface{} `json:"clients,omitempty"`
	SelectedYear     int         `json:"selected_year,omitempty"`
	SelectedMonths   []int       `json:"selected_months,omitempty"`
	SelectedQuarters []string    `json:"selected_quarters,omitempty"`
	StartMonth       string      `json:"start_month,omitempty"`
	EndMonth         string      `json:"end_month,omitempty"`
	EmpID            string      `json:"emp_id,omitempty"`
	AccountManager   interface{} `json:"account_manager,omitempty"`
}

// IsDefaultShape reports whether the request is the unfiltered
// latest-month call, the only shape served from the latest-period cache.
func (r *SummaryRequest) IsDefaultShape() bool {
	if r == nil {
		return true
	}
	if !clientsMeansAll(r.Clients) {
		return false
	}
	return r.SelectedYear == 0 &&
		len(r.SelectedMonths) == 0 &&
		len(r.SelectedQuarters) == 0 &&
		r.StartMonth == "" &&
		r.EndMonth == "" &&
		r.EmpID == "" &&
		!managerPresent(r.AccountManager)
}

// ManagerFilters flattens the account_manager field into the list of
// trimmed, lowercased filter terms. Non-string and blank entries are
// dropped.
func (r *SummaryRequest) ManagerFilters() []string {
	if r == nil {
		return nil
	}
	var raw []string
	switch v := r.AccountManager.(type) {
	case string:
		raw = append(raw, v)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = append(raw, v...)
	}
	var out []string
	for _, s := range raw {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, strings.ToLower(t))
		}
	}
	return out
}

// ManagerEquals reports whether the raw account_manager value matches the
// given name exactly. Only a single string filter can ever match; a list
// never compares equal to one manager name.
func (r *SummaryRequest) ManagerEquals(name string) bool {
	if r == nil {
		return false
	}
	s, ok := r.AccountManager.(string)
	return ok && s == name
}

// HasManagerFilter reports whether the request carries a non-empty
// account_manager value of any form.
func (r *SummaryRequest) HasManagerFilter() bool {
	if r == nil {
		return false
	}
	return managerPresent(r.AccountManager)
}

func clientsMeansAll(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == "ALL"
}

func managerPresent(v interface{}) bool {
	switch m := v.(type) {
	case nil:
		return false
	case string:
		return m != ""
	case []interface{}:
		return len(m) > 0
	case []string:
		return len(m) > 0
	}
	return true
}

// SearchRequest is the body of the employee search endpoint. Limit
// defaults to 10 when absent; an explicit zero returns an empty page.
type SearchRequest struct {
	EmpID            string   `json:"emp_id,omitempty"`
	AccountManager   string   `json:"account_manager,omitempty"`
	StartMonth       string   `json:"start_month,omitempty"`
	EndMonth         string   `json:"end_month,omitempty"`
	Start            int      `json:"start" validate:"min=0"`
	Limit            *int     `json:"limit,omitempty" validate:"omitempty,min=0"`
	Client           string   `json:"client,omitempty"`
	Department       string   `json:"department,omitempty"`
	SelectedYear     string   `json:"selected_year,omitempty"`
	SelectedMonths   []string `json:"selected_months,omitempty"`
	SelectedQuarters []string `json:"selected_quarters,omitempty"`
}

// PageLimit resolves the effective page size.
func (r *SearchRequest) PageLimit() int {
	if r == nil || r.Limit == nil {
		return 10
	}
	return *r.Limit
}

// FlatExportFilter carries the query parameters of the flat Excel export.
type FlatExportFilter struct {
	EmpID          string
	AccountManager string
	Department     string
	Client         string
	StartMonth     string
	EndMonth       string
}

// ===== Responses =====

// SearchResponse is the employee search result: overall shift totals plus
// one page of employee rows.
type SearchResponse struct {
	TotalRecords int                    `json:"total_records"`
	ShiftDetails map[string]interface{} `json:"shift_details"`
	Data         SearchData             `json:"data"`
}

// SearchData wraps the paginated employee rows.
type SearchData struct {
	Employees []SearchEmployee `json:"employees"`
}

// SearchEmployee is one employee row of the search response. ShiftDetails
// holds labeled day counts for shifts with positive days.
type SearchEmployee struct {
	EmpID          string         `json:"emp_id"`
	EmpName        string         `json:"emp_name"`
	Department     string         `json:"department"`
	Client         string         `json:"client"`
	Project        string         `json:"project"`
	AccountManager string         `json:"account_manager"`
	DurationMonth  string         `json:"duration_month"`
	PayrollMonth   string         `json:"payroll_month"`
	ShiftDetails   map[string]int `json:"shift_details"`
	TotalAllowance float64        `json:"total_allowance"`
}

// ShiftSummaryRow is one manager and client aggregate of the monthly shift
// summary.
type ShiftSummaryRow struct {
	AccountManager  string  `json:"account_manager"`
	Client          string  `json:"client"`
	TotalEmployees  int     `json:"total_employees"`
	ShiftADays      float64 `json:"shift_a_days"`
	ShiftBDays      float64 `json:"shift_b_days"`
	ShiftCDays      float64 `json:"shift_c_days"`
	PrimeDays       float64 `json:"prime_days"`
	TotalDays       float64 `json:"total_days"`
	TotalAllowances float64 `json:"total_allowances"`
	DurationMonth   string  `json:"duration_month"`
}

// ClientColor is one catalog entry of the client listing endpoint.
type ClientColor struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
