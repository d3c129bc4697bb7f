// Package excel renders the report workbooks. Amounts are written as
// rupee strings with English digit grouping, matching the payroll team's
// sheets.
package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shiftpay/shiftpay-backend/internal/report/rollup"
)

// SummarySheet is the sheet name of the client summary workbook.
const SummarySheet = "Client Summary"

var summaryHeaders = []string{
	"Period", "Client", "Client Partner", "Employee ID", "Department",
	"Head Count", "Shift A", "Shift B", "Shift C", "Shift PRIME",
	"Total Allowance",
}

var flatHeaders = []string{
	"emp_id", "emp_name", "department", "client", "project",
	"project_code", "client_partner", "shift_details", "delivery_manager",
	"practice_lead", "billability_status", "practice_remarks",
	"rmg_comments", "duration_month", "payroll_month", "total_allowance",
}

var printer = message.NewPrinter(language.English)

// Currency formats a summary amount as whole rupees.
func Currency(v float64) string {
	return printer.Sprintf("₹%.0f", v)
}

// PreciseCurrency formats a flat export total with paise.
func PreciseCurrency(v float64) string {
	return printer.Sprintf("₹ %.2f", v)
}

// ShiftEntry renders one line of the shift_details column. Rate and total
// are grouped, day counts are not.
func ShiftEntry(label string, days, rate, total int64) string {
	return fmt.Sprintf("%s-%d*%s=₹%s", label, days, groupedInt(rate), groupedInt(total))
}

func groupedInt(n int64) string {
	return printer.Sprintf("%d", n)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// WriteSummary writes the client summary workbook to path, creating the
// export directory if needed.
func WriteSummary(rows []rollup.ExportRow, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", SummarySheet)

	for col, header := range summaryHeaders {
		f.SetCellValue(SummarySheet, cellName(col+1, 1), header)
	}

	for i, row := range rows {
		values := []interface{}{
			row.Period,
			row.Client,
			row.Partner,
			row.EmpID,
			row.Department,
			row.HeadCount,
			Currency(row.A),
			Currency(row.B),
			Currency(row.C),
			Currency(row.Prime),
			Currency(row.TotalAllowance),
		}
		for col, value := range values {
			f.SetCellValue(SummarySheet, cellName(col+1, i+2), value)
		}
	}

	return f.SaveAs(path)
}

// FlatLine is one row of the flat export workbook, already formatted
// except for the total.
type FlatLine struct {
	EmpID             string
	EmpName           string
	Department        string
	Client            string
	Project           string
	ProjectCode       string
	ClientPartner     string
	ShiftDetails      string
	DeliveryManager   string
	PracticeLead      string
	BillabilityStatus string
	PracticeRemarks   string
	RMGComments       string
	DurationMonth     string
	PayrollMonth      string
	TotalAllowance    float64
}

// WriteFlat renders the flat export workbook and returns its bytes.
func WriteFlat(rows []FlatLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	for col, header := range flatHeaders {
		f.SetCellValue(sheet, cellName(col+1, 1), header)
	}

	for i, row := range rows {
		values := []interface{}{
			row.EmpID,
			row.EmpName,
			row.Department,
			row.Client,
			row.Project,
			row.ProjectCode,
			row.ClientPartner,
			row.ShiftDetails,
			row.DeliveryManager,
			row.PracticeLead,
			row.BillabilityStatus,
			row.PracticeRemarks,
			row.RMGComments,
			row.DurationMonth,
			row.PayrollMonth,
			PreciseCurrency(row.TotalAllowance),
		}
		for col, value := range values {
			f.SetCellValue(sheet, cellName(col+1, i+2), value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
