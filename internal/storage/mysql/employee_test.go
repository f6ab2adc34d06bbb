package mysql

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sales-dashboard/internal/storage"
)

var employeeCols = []string{"id", "emp_no", "emp_name", "site_designation", "designation", "head",
	"department", "hod", "doj", "visa", "iqama_no", "status", "category", "payrole", "sponser",
	"project", "accommodation_status", "batch_id"}

func TestStorage_GetEmployees_Filter(t *testing.T) {
	s, mock := newMockStorage(t)

	doj := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employee WHERE department = ? AND status = ? ORDER BY emp_no")).
		WithArgs("Piping", "Active").
		WillReturnRows(sqlmock.NewRows(employeeCols).AddRow(
			int64(1), "E-001", "Ali", "Site A", "Fitter", "H", "Piping", "HOD", doj, "V", "IQ-1",
			"Active", "Staff", "P", "S", "Refinery", "Company", ""))

	got, err := s.GetEmployees(t.Context(), storage.EmployeeFilter{
		Department:  "Piping",
		Designation: "all",
		Status:      "Active",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "E-001", got[0].EmpNo)
	assert.Equal(t, doj, got[0].DOJ)
	assert.Equal(t, "Refinery", got[0].Project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetEmployees_NoFilter(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employee ORDER BY emp_no")).
		WillReturnRows(sqlmock.NewRows(employeeCols))

	got, err := s.GetEmployees(t.Context(), storage.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorage_GetEmployeeOptions(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.MatchExpectationsInOrder(false)

	for _, col := range []string{"department", "designation", "project", "status"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT " + col + " FROM employee")).
			WillReturnRows(sqlmock.NewRows([]string{col}).AddRow(col + "-1"))
	}

	got, err := s.GetEmployeeOptions(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"department-1"}, got.Departments)
	assert.Equal(t, []string{"designation-1"}, got.Designations)
	assert.Equal(t, []string{"project-1"}, got.Projects)
	assert.Equal(t, []string{"status-1"}, got.Statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_SaveEmployees(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO employee")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := s.SaveEmployees(t.Context(), "batch", []storage.Employee{{EmpNo: "E-1", EmpName: "A"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
