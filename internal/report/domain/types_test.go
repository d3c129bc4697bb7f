package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSummaryRequest(t *testing.T, body string) *SummaryRequest {
	t.Helper()
	var req SummaryRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestSummaryRequest_IsDefaultShape(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty body", `{}`, true},
		{"clients ALL", `{"clients": "ALL"}`, true},
		{"clients lowercase all", `{"clients": "all"}`, false},
		{"clients map", `{"clients": {"Acme Corp": ["Operations"]}}`, false},
		{"selected year", `{"selected_year": 2024}`, false},
		{"selected months", `{"clients": "ALL", "selected_months": [1, 2]}`, false},
		{"selected quarters", `{"selected_quarters": ["Q1"]}`, false},
		{"start month", `{"start_month": "2024-01"}`, false},
		{"end month", `{"end_month": "2024-03"}`, false},
		{"emp id", `{"emp_id": "E1"}`, false},
		{"single manager", `{"account_manager": "Asha Rao"}`, false},
		{"manager list", `{"account_manager": ["Asha Rao"]}`, false},
		{"empty manager string", `{"account_manager": ""}`, true},
		{"empty manager list", `{"account_manager": []}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeSummaryRequest(t, tt.body)
			assert.Equal(t, tt.want, req.IsDefaultShape())
		})
	}
}

func TestSummaryRequest_IsDefaultShape_Nil(t *testing.T) {
	var req *SummaryRequest
	assert.True(t, req.IsDefaultShape())
}

func TestSummaryRequest_ManagerFilters(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"absent", `{}`, nil},
		{"single", `{"account_manager": "Asha Rao"}`, []string{"asha rao"}},
		{"single padded", `{"account_manager": "  Asha Rao  "}`, []string{"asha rao"}},
		{"list", `{"account_manager": ["Asha Rao", "Vikram Shah"]}`, []string{"asha rao", "vikram shah"}},
		{"list with blanks", `{"account_manager": ["", "  ", "Asha Rao", 42]}`, []string{"asha rao"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decodeSummaryRequest(t, tt.body)
			assert.Equal(t, tt.want, req.ManagerFilters())
		})
	}
}

func TestSummaryRequest_ManagerEquals(t *testing.T) {
	single := decodeSummaryRequest(t, `{"account_manager": "Asha Rao"}`)
	assert.True(t, single.ManagerEquals("Asha Rao"))
	assert.False(t, single.ManagerEquals("asha rao"))

	list := decodeSummaryRequest(t, `{"account_manager": ["Asha Rao"]}`)
	assert.False(t, list.ManagerEquals("Asha Rao"))
}

func TestSearchRequest_PageLimit(t *testing.T) {
	assert.Equal(t, 10, (&SearchRequest{}).PageLimit())

	zero := 0
	assert.Equal(t, 0, (&SearchRequest{Limit: &zero}).PageLimit())

	fifty := 50
	assert.Equal(t, 50, (&SearchRequest{Limit: &fifty}).PageLimit())
}

func TestPeriodBlock_MarshalShapes(t *testing.T) {
	empty := &PeriodBlock{Message: "No data found for 2024-03"}
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message": "No data found for 2024-03"}`, string(raw))

	populated := &PeriodBlock{
		Clients: map[string]*ClientBlock{
			"Acme Corp": {
				Departments:    map[string]*DeptBlock{},
				AccountManager: "Asha Rao",
			},
		},
		MonthTotal: &MonthTotal{},
	}
	raw, err = json.Marshal(populated)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "message")
	assert.JSONEq(t, `{
		"clients": {
			"Acme Corp": {
				"client_A": 0, "client_B": 0, "client_C": 0, "client_PRIME": 0,
				"departments": {},
				"client_head_count": 0,
				"client_total": 0,
				"account_manager": "Asha Rao"
			}
		},
		"month_total": {
			"total_head_count": 0,
			"A": 0, "B": 0, "C": 0, "PRIME": 0,
			"total_allowance": 0
		}
	}`, string(raw))
}

func TestNormalizeShiftType(t *testing.T) {
	assert.Equal(t, "PRIME", NormalizeShiftType(" prime "))
	assert.Equal(t, "A", NormalizeShiftType("A"))
}
