package rollup

import (
	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
	"github.com/shiftpay/shiftpay-backend/internal/report/period"
)

// BuildSummary folds shift facts into the client summary tree. Every
// resolved period is seeded with a no-data message; the first fact landing
// in a period replaces the message with client and month-total blocks.
// Facts with a shift type outside A, B, C, and PRIME are skipped.
func BuildSummary(
	res *period.Resolution,
	facts []domain.ShiftFact,
	rates *RateTable,
	filter *ClientFilter,
) domain.Summary {
	summary := make(domain.Summary, len(res.Periods))
	for _, p := range res.Periods {
		summary[p] = &domain.PeriodBlock{Message: "No data found for " + p}
	}

	for i := range facts {
		fact := &facts[i]

		label, ok := res.PeriodFor(fact.Month)
		if !ok {
			continue
		}
		shiftType := domain.NormalizeShiftType(fact.ShiftType)
		if !isBucket(shiftType) {
			continue
		}

		block := summary[label]
		if block.Clients == nil {
			block.Clients = make(map[string]*domain.ClientBlock)
			block.MonthTotal = &domain.MonthTotal{}
			block.Message = ""
		}

		clientName := filter.DisplayClient(fact.Client)
		deptName := filter.DisplayDepartment(fact.Client, fact.Department)

		client := block.Clients[clientName]
		if client == nil {
			client = &domain.ClientBlock{
				Departments:    make(map[string]*domain.DeptBlock),
				AccountManager: fact.AccountManager,
			}
			block.Clients[clientName] = client
		}

		dept := client.Departments[deptName]
		if dept == nil {
			dept = &domain.DeptBlock{Employees: []*domain.EmployeeNode{}}
			client.Departments[deptName] = dept
		}

		employee := findEmployee(dept.Employees, fact.EmpID)
		if employee == nil {
			employee = &domain.EmployeeNode{
				EmpID:          fact.EmpID,
				EmpName:        fact.EmpName,
				AccountManager: fact.AccountManager,
			}
			dept.Employees = append(dept.Employees, employee)
			dept.DeptHeadCount++
			client.ClientHeadCount++
			block.MonthTotal.TotalHeadCount++
		}

		amount := rates.AmountForMonth(shiftType, fact.Month).Mul(fact.Days).InexactFloat64()

		switch shiftType {
		case "A":
			employee.A += amount
			dept.DeptA += amount
			client.ClientA += amount
			block.MonthTotal.A += amount
		case "B":
			employee.B += amount
			dept.DeptB += amount
			client.ClientB += amount
			block.MonthTotal.B += amount
		case "C":
			employee.C += amount
			dept.DeptC += amount
			client.ClientC += amount
			block.MonthTotal.C += amount
		case "PRIME":
			employee.Prime += amount
			dept.DeptPrime += amount
			client.ClientPrime += amount
			block.MonthTotal.Prime += amount
		}

		employee.Total += amount
		dept.DeptTotal += amount
		client.ClientTotal += amount
		block.MonthTotal.TotalAllowance += amount
	}

	seedRequestedDepartments(summary, filter)

	return summary
}

// seedRequestedDepartments ensures every explicitly requested client and
// department appears, zeroed, in each period that has data. Departments
// kept in the filter but absent from the facts would otherwise vanish from
// the report.
func seedRequestedDepartments(summary domain.Summary, filter *ClientFilter) {
	if !filter.HasFilter() {
		return
	}
	for _, block := range summary {
		if block.Clients == nil {
			continue
		}
		for clientLC, deptsLC := range filter.Departments {
			clientName := filter.clientNames[clientLC]
			client := block.Clients[clientName]
			if client == nil {
				client = &domain.ClientBlock{
					Departments: make(map[string]*domain.DeptBlock),
				}
				block.Clients[clientName] = client
			}
			for _, deptLC := range deptsLC {
				deptName := filter.deptNames[clientLC][deptLC]
				if client.Departments[deptName] == nil {
					client.Departments[deptName] = &domain.DeptBlock{
						Employees: []*domain.EmployeeNode{},
					}
				}
			}
		}
	}
}

// MonthsWithData collects the distinct duration months present in the
// facts, used to verify quarter completeness.
func MonthsWithData(facts []domain.ShiftFact) map[string]bool {
	months := make(map[string]bool)
	for i := range facts {
		months[facts[i].Month] = true
	}
	return months
}

func findEmployee(employees []*domain.EmployeeNode, empID string) *domain.EmployeeNode {
	for _, e := range employees {
		if e.EmpID == empID {
			return e
		}
	}
	return nil
}

func isBucket(shiftType string) bool {
	switch shiftType {
	case "A", "B", "C", "PRIME":
		return true
	}
	return false
}
