package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// AllowanceFixture represents a test shift_allowances row
type AllowanceFixture struct {
	ID                int64
	EmpID             string
	EmpName           string
	Grade             string
	Department        string
	Client            string
	Project           string
	ProjectCode       string
	AccountManager    string
	DeliveryManager   string
	PracticeLead      string
	BillabilityStatus string
	PracticeRemarks   string
	RMGComments       string
	DurationMonth     time.Time
	PayrollMonth      time.Time
}

// MappingFixture represents a test shift_mappings row
type MappingFixture struct {
	ID               int64
	ShiftAllowanceID int64
	ShiftType        string
	Days             decimal.Decimal
}

// RateFixture represents a test shifts_amount row
type RateFixture struct {
	ID          int64
	ShiftType   string
	PayrollYear string
	Amount      decimal.Decimal
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Month parses a "YYYY-MM" month into the first-of-month date used by the
// duration_month and payroll_month columns.
func Month(yyyymm string) time.Time {
	t, err := time.Parse("2006-01", yyyymm)
	if err != nil {
		panic(fmt.Sprintf("bad fixture month %q: %v", yyyymm, err))
	}
	return t
}

// Allowance creates a shift allowance fixture with defaults
func (f *FixtureFactory) Allowance(opts ...func(*AllowanceFixture)) AllowanceFixture {
	seq := f.nextSeq()

	a := AllowanceFixture{
		ID:                int64(seq),
		EmpID:             fmt.Sprintf("E%04d", seq),
		EmpName:           fmt.Sprintf("Employee %d", seq),
		Grade:             "G1",
		Department:        "Operations",
		Client:            "Acme",
		Project:           fmt.Sprintf("Project %d", seq),
		ProjectCode:       fmt.Sprintf("PRJ-%04d", seq),
		AccountManager:    "Asha Rao",
		DeliveryManager:   "Vik Menon",
		PracticeLead:      "Dev Iyer",
		BillabilityStatus: "Billable",
		DurationMonth:     Month("2024-03"),
		PayrollMonth:      Month("2024-04"),
	}

	for _, opt := range opts {
		opt(&a)
	}

	return a
}

// WithEmp sets the employee id and name
func WithEmp(id, name string) func(*AllowanceFixture) {
	return func(a *AllowanceFixture) {
		a.EmpID = id
		a.EmpName = name
	}
}

// WithClient sets the client and department
func WithClient(client, department string) func(*AllowanceFixture) {
	return func(a *AllowanceFixture) {
		a.Client = client
		a.Department = department
	}
}

// WithDurationMonth sets the duration month from "YYYY-MM"
func WithDurationMonth(yyyymm string) func(*AllowanceFixture) {
	return func(a *AllowanceFixture) {
		a.DurationMonth = Month(yyyymm)
		a.PayrollMonth = a.DurationMonth.AddDate(0, 1, 0)
	}
}

// WithManager sets the account manager
func WithManager(name string) func(*AllowanceFixture) {
	return func(a *AllowanceFixture) {
		a.AccountManager = name
	}
}

// WithProject sets the project and project code
func WithProject(project, code string) func(*AllowanceFixture) {
	return func(a *AllowanceFixture) {
		a.Project = project
		a.ProjectCode = code
	}
}

// Mapping creates a shift mapping fixture tied to an allowance row
func (f *FixtureFactory) Mapping(allowanceID int64, shiftType string, days float64) MappingFixture {
	return MappingFixture{
		ID:               int64(f.nextSeq()),
		ShiftAllowanceID: allowanceID,
		ShiftType:        shiftType,
		Days:             decimal.NewFromFloat(days),
	}
}

// Rate creates a rate fixture for a shift type and payroll year
func (f *FixtureFactory) Rate(shiftType, payrollYear string, amount float64) RateFixture {
	return RateFixture{
		ID:          int64(f.nextSeq()),
		ShiftType:   shiftType,
		PayrollYear: payrollYear,
		Amount:      decimal.NewFromFloat(amount),
	}
}

// DefaultRates returns the standard four shift rates for a payroll year
func DefaultRates(factory *FixtureFactory, payrollYear string) []RateFixture {
	return []RateFixture{
		factory.Rate("A", payrollYear, 500),
		factory.Rate("B", payrollYear, 350),
		factory.Rate("C", payrollYear, 250),
		factory.Rate("PRIME", payrollYear, 700),
	}
}

// InsertAllowance inserts an allowance fixture into the test database
func InsertAllowance(ctx context.Context, db *sqlx.DB, a AllowanceFixture) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO shift_allowances (
			id, emp_id, emp_name, grade, department, client, project,
			project_code, account_manager, delivery_manager, practice_lead,
			billability_status, practice_remarks, rmg_comments,
			duration_month, payroll_month
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID, a.EmpID, a.EmpName, a.Grade, a.Department, a.Client, a.Project,
		a.ProjectCode, a.AccountManager, a.DeliveryManager, a.PracticeLead,
		a.BillabilityStatus, a.PracticeRemarks, a.RMGComments,
		a.DurationMonth, a.PayrollMonth,
	)
	return err
}

// InsertMapping inserts a shift mapping fixture into the test database
func InsertMapping(ctx context.Context, db *sqlx.DB, m MappingFixture) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO shift_mappings (id, shiftallowance_id, shift_type, days)
		VALUES ($1, $2, $3, $4)`,
		m.ID, m.ShiftAllowanceID, m.ShiftType, m.Days,
	)
	return err
}

// InsertRate inserts a rate fixture into the test database
func InsertRate(ctx context.Context, db *sqlx.DB, r RateFixture) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO shifts_amount (id, shift_type, payroll_year, amount)
		VALUES ($1, $2, $3, $4)`,
		r.ID, r.ShiftType, r.PayrollYear, r.Amount,
	)
	return err
}
