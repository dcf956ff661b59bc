package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/orgrecords/internal/database"
)

// DepartmentFinder looks up departments by id. Employees use it to check
// that a department reference exists and to resolve their department.
type DepartmentFinder interface {
	FindByID(ctx context.Context, id int64) (*Department, error)
}

// Employee is an employee in the organization.
type Employee struct {
	id           int64
	name         string
	jobTitle     string
	departmentID int64

	departments DepartmentFinder
}

// NewEmployee returns an unsaved employee. departmentID must refer to an
// existing department according to departments.
func NewEmployee(ctx context.Context, departments DepartmentFinder, name, jobTitle string, departmentID int64) (*Employee, error) {
	e := &Employee{departments: departments}
	if err := e.SetName(name); err != nil {
		return nil, err
	}
	if err := e.SetJobTitle(jobTitle); err != nil {
		return nil, err
	}
	if err := e.SetDepartmentID(ctx, departmentID); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Employee) ID() int64           { return e.id }
func (e *Employee) Persisted() bool     { return e.id != 0 }
func (e *Employee) Name() string        { return e.name }
func (e *Employee) JobTitle() string    { return e.jobTitle }
func (e *Employee) DepartmentID() int64 { return e.departmentID }

// SetName replaces the name; empty values are rejected.
func (e *Employee) SetName(name string) error {
	if err := requireText("name", name); err != nil {
		return err
	}
	e.name = name
	return nil
}

// SetJobTitle replaces the job title; empty values are rejected.
func (e *Employee) SetJobTitle(jobTitle string) error {
	if err := requireText("job_title", jobTitle); err != nil {
		return err
	}
	e.jobTitle = jobTitle
	return nil
}

// SetDepartmentID points the employee at another department. The id is
// checked against the store on every call; a missing department is a
// validation error and the previous reference is kept.
func (e *Employee) SetDepartmentID(ctx context.Context, departmentID int64) error {
	if err := requireID("department_id", departmentID); err != nil {
		return err
	}
	if e.departments == nil {
		return ErrNoDepartmentFinder
	}

	d, err := e.departments.FindByID(ctx, departmentID)
	if err != nil {
		return err
	}
	if d == nil {
		return &ValidationError{Field: "department_id", Message: "must reference an existing department"}
	}

	e.departmentID = departmentID
	return nil
}

// Department fetches the employee's department. It is looked up on every
// call rather than cached on the employee.
func (e *Employee) Department(ctx context.Context) (*Department, error) {
	if e.departments == nil {
		return nil, ErrNoDepartmentFinder
	}
	return e.departments.FindByID(ctx, e.departmentID)
}

func (e *Employee) validate() error {
	return errors.Join(
		requireText("name", e.name),
		requireText("job_title", e.jobTitle),
		requireID("department_id", e.departmentID),
	)
}

func (e *Employee) String() string {
	return fmt.Sprintf("Employee %d: %s, %s, Department ID: %d", e.id, e.name, e.jobTitle, e.departmentID)
}

// EmployeeRepository persists employees and keeps one live instance per id
// for the lifetime of its session.
type EmployeeRepository struct {
	db          database.Conn
	identity    *identityMap[Employee]
	departments DepartmentFinder
}

// NewEmployeeRepository returns a repository that validates department
// references through departments.
func NewEmployeeRepository(db database.Conn, departments DepartmentFinder) *EmployeeRepository {
	return &EmployeeRepository{
		db:          db,
		identity:    newIdentityMap[Employee](),
		departments: departments,
	}
}

// CreateTable creates the employees table if it does not exist. The
// departments table must already exist.
func (r *EmployeeRepository) CreateTable(ctx context.Context) error {
	idColumn, refType := columnTypes(r.db.Dialect())

	query := `
		CREATE TABLE IF NOT EXISTS employees (
			` + idColumn + `,
			name TEXT,
			job_title TEXT,
			department_id ` + refType + `,
			FOREIGN KEY (department_id) REFERENCES departments(id)
		)`
	if err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create employees table: %w", err)
	}
	return nil
}

// DropTable drops the employees table if it exists.
func (r *EmployeeRepository) DropTable(ctx context.Context) error {
	if err := r.db.Exec(ctx, `DROP TABLE IF EXISTS employees`); err != nil {
		return fmt.Errorf("failed to drop employees table: %w", err)
	}
	return nil
}

// New returns an unsaved employee bound to this repository's department finder.
func (r *EmployeeRepository) New(ctx context.Context, name, jobTitle string, departmentID int64) (*Employee, error) {
	return NewEmployee(ctx, r.departments, name, jobTitle, departmentID)
}

// Create validates, inserts and returns a new employee. Nothing is written
// when validation fails.
func (r *EmployeeRepository) Create(ctx context.Context, name, jobTitle string, departmentID int64) (*Employee, error) {
	e, err := r.New(ctx, name, jobTitle, departmentID)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Save inserts e, assigns its id and registers it in the identity map. The
// department reference itself is left to the foreign key.
func (r *EmployeeRepository) Save(ctx context.Context, e *Employee) error {
	if e.Persisted() {
		return ErrAlreadyPersisted
	}
	if err := e.validate(); err != nil {
		return err
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO employees (name, job_title, department_id)
		VALUES (?, ?, ?)
		RETURNING id
	`, e.name, e.jobTitle, e.departmentID).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}

	e.id = id
	if e.departments == nil {
		e.departments = r.departments
	}
	r.identity.put(id, e)
	return nil
}

// Update writes e's current fields to its row.
func (r *EmployeeRepository) Update(ctx context.Context, e *Employee) error {
	if !e.Persisted() {
		return ErrNotPersisted
	}
	if err := e.validate(); err != nil {
		return err
	}

	err := r.db.Exec(ctx, `
		UPDATE employees
		SET name = ?, job_title = ?, department_id = ?
		WHERE id = ?
	`, e.name, e.jobTitle, e.departmentID, e.id)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

// Delete removes e's row, evicts it from the identity map and clears its id.
func (r *EmployeeRepository) Delete(ctx context.Context, e *Employee) error {
	if !e.Persisted() {
		return ErrNotPersisted
	}

	if err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = ?`, e.id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	r.identity.evict(e.id)
	e.id = 0
	return nil
}

// FindByID returns the employee with id, or nil if there is none.
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, job_title, department_id FROM employees WHERE id = ?
	`, id)
	return r.scanOne(row)
}

// FindByName returns the first employee named name, or nil.
func (r *EmployeeRepository) FindByName(ctx context.Context, name string) (*Employee, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, job_title, department_id FROM employees WHERE name = ? ORDER BY id LIMIT 1
	`, name)
	return r.scanOne(row)
}

// GetAll returns every employee ordered by id.
func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*Employee, error) {
	return r.list(ctx, `SELECT id, name, job_title, department_id FROM employees ORDER BY id`)
}

// FindByDepartmentID returns the employees of a department ordered by id.
func (r *EmployeeRepository) FindByDepartmentID(ctx context.Context, departmentID int64) ([]*Employee, error) {
	return r.list(ctx, `
		SELECT id, name, job_title, department_id FROM employees WHERE department_id = ? ORDER BY id
	`, departmentID)
}

func (r *EmployeeRepository) list(ctx context.Context, query string, args ...any) ([]*Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		var (
			id, departmentID int64
			name, jobTitle   string
		)
		if err := rows.Scan(&id, &name, &jobTitle, &departmentID); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e, err := r.fromRow(id, name, jobTitle, departmentID)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepository) scanOne(row database.Row) (*Employee, error) {
	var (
		id, departmentID int64
		name, jobTitle   string
	)
	err := row.Scan(&id, &name, &jobTitle, &departmentID)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return r.fromRow(id, name, jobTitle, departmentID)
}

// fromRow reconciles a row with the identity map. The department reference
// is trusted here because the store enforces the foreign key.
func (r *EmployeeRepository) fromRow(id int64, name, jobTitle string, departmentID int64) (*Employee, error) {
	if err := errors.Join(requireText("name", name), requireText("job_title", jobTitle)); err != nil {
		return nil, fmt.Errorf("employee %d: %w", id, err)
	}

	e, ok := r.identity.get(id)
	if !ok {
		e = &Employee{id: id, departments: r.departments}
		r.identity.put(id, e)
	}
	e.name = name
	e.jobTitle = jobTitle
	e.departmentID = departmentID
	return e, nil
}
