package mysql

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"sales-dashboard/internal/storage"
)

const employeeColumns = `id, emp_no, emp_name, site_designation, designation, head, department, hod,
       doj, visa, iqama_no, status, category, payrole, sponser, project, accommodation_status,
       COALESCE(batch_id, '')`

func (s *Storage) GetEmployees(ctx context.Context, filter storage.EmployeeFilter) ([]storage.Employee, error) {
	const op = "storage.mysql.employee.GetEmployees"

	var where []string
	var args []interface{}
	for _, f := range []struct {
		column, value string
	}{
		{"department", filter.Department},
		{"designation", filter.Designation},
		{"project", filter.Project},
		{"status", filter.Status},
	} {
		if isAll(f.value) {
			continue
		}
		where = append(where, f.column+" = ?")
		args = append(args, f.value)
	}

	stmt := "SELECT " + employeeColumns + " FROM employee"
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
	}
	stmt += " ORDER BY emp_no"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query employees: %w", op, err)
	}
	defer rows.Close()

	var employees []storage.Employee
	for rows.Next() {
		var e storage.Employee
		err := rows.Scan(&e.ID, &e.EmpNo, &e.EmpName, &e.SiteDesignation, &e.Designation, &e.Head,
			&e.Department, &e.HOD, &e.DOJ, &e.Visa, &e.IqamaNo, &e.Status, &e.Category, &e.Payrole,
			&e.Sponser, &e.Project, &e.AccommodationStatus, &e.BatchID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan employee: %w", op, err)
		}
		employees = append(employees, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return employees, nil
}

// GetEmployeeOptions lists the distinct values the employee browser filters on.
func (s *Storage) GetEmployeeOptions(ctx context.Context) (*storage.EmployeeOptions, error) {
	const op = "storage.mysql.employee.GetEmployeeOptions"

	opts := &storage.EmployeeOptions{}
	g, gCtx := errgroup.WithContext(ctx)

	for column, dst := range map[string]*[]string{
		"department":  &opts.Departments,
		"designation": &opts.Designations,
		"project":     &opts.Projects,
		"status":      &opts.Statuses,
	} {
		g.Go(func() error {
			values, err := s.distinctStrings(gCtx,
				"SELECT DISTINCT "+column+" FROM employee WHERE "+column+" <> '' ORDER BY "+column)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", op, column, err)
			}
			*dst = values
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return opts, nil
}

func (s *Storage) SaveEmployees(ctx context.Context, batchID string, employees []storage.Employee) (int, error) {
	const op = "storage.mysql.employee.SaveEmployees"

	if len(employees) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO employee
		(emp_no, emp_name, site_designation, designation, head, department, hod, doj, visa, iqama_no,
		 status, category, payrole, sponser, project, accommodation_status, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare insert: %w", op, err)
	}
	defer stmt.Close()

	for i, e := range employees {
		_, err := stmt.ExecContext(ctx, e.EmpNo, e.EmpName, e.SiteDesignation, e.Designation, e.Head,
			e.Department, e.HOD, e.DOJ.Format("2006-01-02"), e.Visa, e.IqamaNo, e.Status, e.Category,
			e.Payrole, e.Sponser, e.Project, e.AccommodationStatus, batchID)
		if err != nil {
			return 0, fmt.Errorf("%s: insert employee %d (%s): %w", op, i, e.EmpNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return len(employees), nil
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}
