package rollup

import (
	"sort"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// ExportRow is one line of the client summary workbook. Department rows
// carry an empty EmpID and the department head count; employee rows carry
// a head count of one.
type ExportRow struct {
	Period         string
	Client         string
	Partner        string
	EmpID          string
	Department     string
	HeadCount      int
	A              float64
	B              float64
	C              float64
	Prime          float64
	TotalAllowance float64
}

// FlattenSummary turns the summary tree into workbook rows. Departments
// without employees become a single department-level row so zero-employee
// shells survive the export. The request's emp_id and account_manager act
// as exact row filters.
func FlattenSummary(summary domain.Summary, req *domain.SummaryRequest) []ExportRow {
	var rows []ExportRow

	for periodKey, block := range summary {
		if len(block.Clients) == 0 {
			continue
		}

		for clientName, clientBlock := range block.Clients {
			partner := clientBlock.AccountManager

			for deptName, deptBlock := range clientBlock.Departments {
				if len(deptBlock.Employees) == 0 {
					if req.HasManagerFilter() && !req.ManagerEquals(partner) {
						continue
					}
					rows = append(rows, ExportRow{
						Period:         periodKey,
						Client:         clientName,
						Partner:        partner,
						Department:     deptName,
						HeadCount:      deptBlock.DeptHeadCount,
						A:              deptBlock.DeptA,
						B:              deptBlock.DeptB,
						C:              deptBlock.DeptC,
						Prime:          deptBlock.DeptPrime,
						TotalAllowance: deptBlock.DeptTotal,
					})
					continue
				}

				for _, emp := range deptBlock.Employees {
					if req != nil && req.EmpID != "" && req.EmpID != emp.EmpID {
						continue
					}
					if req.HasManagerFilter() && !req.ManagerEquals(emp.AccountManager) {
						continue
					}
					rows = append(rows, ExportRow{
						Period:         periodKey,
						Client:         clientName,
						Partner:        emp.AccountManager,
						EmpID:          emp.EmpID,
						Department:     deptName,
						HeadCount:      1,
						A:              emp.A,
						B:              emp.B,
						C:              emp.C,
						Prime:          emp.Prime,
						TotalAllowance: emp.Total,
					})
				}
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Client != b.Client {
			return a.Client < b.Client
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.EmpID < b.EmpID
	})

	return rows
}
