package rollup

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftpay/shiftpay-backend/pkg/errors"
)

func clientsPayload(t *testing.T, body string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestNormalizeClients_AllForms(t *testing.T) {
	for _, body := range []string{`null`, `"ALL"`, `""`, `{}`, `[]`} {
		filter, err := NormalizeClients(clientsPayload(t, body))
		require.NoError(t, err, body)
		assert.False(t, filter.HasFilter(), body)
	}
}

func TestNormalizeClients_Map(t *testing.T) {
	filter, err := NormalizeClients(clientsPayload(t, `{
		"Acme Corp": ["Operations", "Infra - IT Operations"],
		"DZS Inc": null
	}`))
	require.NoError(t, err)

	require.True(t, filter.HasFilter())
	assert.Equal(t, []string{"operations", "infra - it operations"}, filter.Departments["acme corp"])
	assert.Equal(t, []string{}, filter.Departments["dzs inc"])

	assert.Equal(t, "Acme Corp", filter.DisplayClient("ACME CORP"))
	assert.Equal(t, "Acme Corp", filter.DisplayClient("  acme corp  "))
	assert.Equal(t, "Operations", filter.DisplayDepartment("Acme Corp", "OPERATIONS"))
}

func TestNormalizeClients_BadShapes(t *testing.T) {
	for _, body := range []string{
		`"all"`,
		`"Acme Corp"`,
		`["Acme Corp"]`,
		`{"Acme Corp": "Operations"}`,
		`{"Acme Corp": [1]}`,
	} {
		_, err := NormalizeClients(clientsPayload(t, body))
		require.Error(t, err, body)
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, "clients must be 'ALL' or {client: [departments]}", appErr.Message)
	}
}

func TestClientFilter_DisplayFallbacks(t *testing.T) {
	filter, err := NormalizeClients(nil)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", filter.DisplayClient(" Acme Corp "))
	assert.Equal(t, "UNKNOWN", filter.DisplayClient("   "))
	assert.Equal(t, "Operations", filter.DisplayDepartment("Acme Corp", "Operations "))
	assert.Equal(t, "UNKNOWN", filter.DisplayDepartment("Acme Corp", ""))
}
