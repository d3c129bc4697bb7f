package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDB_QueryExpectations(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	rows := MockRows("emp_id", "emp_name").AddRow("E100", "Asha Verma")
	mockDB.ExpectQuery("SELECT emp_id, emp_name FROM shift_allowances WHERE emp_id = $1").
		WithArgs("E100").
		WillReturnRows(rows)

	var got []struct {
		EmpID   string `db:"emp_id"`
		EmpName string `db:"emp_name"`
	}
	err := mockDB.DB.Select(&got, "SELECT emp_id, emp_name FROM shift_allowances WHERE emp_id = $1", "E100")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Asha Verma", got[0].EmpName)

	mockDB.ExpectationsWereMet(t)
}

func TestMockDB_AnyTimeMatchesTimestampArgs(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectExec("UPDATE shift_allowances SET payroll_month = $1 WHERE id = $2").
		WithArgs(AnyTime{}, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := mockDB.DB.Exec("UPDATE shift_allowances SET payroll_month = $1 WHERE id = $2", time.Now(), int64(7))
	require.NoError(t, err)

	mockDB.ExpectationsWereMet(t)
}

func TestMockPublisher_RecordsEvents(t *testing.T) {
	pub := NewMockPublisher()

	err := pub.Publish(context.Background(), "allowance.facts.uploaded", map[string]int{"row_count": 42})
	require.NoError(t, err)
	pub.AssertEventPublished(t, "allowance.facts.uploaded")

	pub.Reset()
	pub.AssertNoEventsPublished(t)
}
