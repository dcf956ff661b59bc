package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/orgrecords/internal/database"
)

// Department is a department in the organization. The zero id means the
// record has not been saved, or has been deleted.
type Department struct {
	id       int64
	name     string
	location string
}

// NewDepartment returns an unsaved department after validating its fields.
func NewDepartment(name, location string) (*Department, error) {
	d := &Department{}
	if err := d.SetName(name); err != nil {
		return nil, err
	}
	if err := d.SetLocation(location); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Department) ID() int64        { return d.id }
func (d *Department) Persisted() bool  { return d.id != 0 }
func (d *Department) Name() string     { return d.name }
func (d *Department) Location() string { return d.location }

// SetName replaces the name; empty values are rejected and leave the
// current name in place.
func (d *Department) SetName(name string) error {
	if err := requireText("name", name); err != nil {
		return err
	}
	d.name = name
	return nil
}

// SetLocation replaces the location under the same rules as SetName.
func (d *Department) SetLocation(location string) error {
	if err := requireText("location", location); err != nil {
		return err
	}
	d.location = location
	return nil
}

func (d *Department) String() string {
	return fmt.Sprintf("Department %d: %s, %s", d.id, d.name, d.location)
}

func (d *Department) validate() error {
	return errors.Join(requireText("name", d.name), requireText("location", d.location))
}

// EmployeeLister resolves the employees of a department.
type EmployeeLister interface {
	FindByDepartmentID(ctx context.Context, departmentID int64) ([]*Employee, error)
}

// DepartmentRepository persists departments and keeps one live instance
// per id for the lifetime of its session.
type DepartmentRepository struct {
	db        database.Conn
	identity  *identityMap[Department]
	employees EmployeeLister
}

// NewDepartmentRepository returns a repository with an empty identity map.
// Employees returns an error until an EmployeeLister is attached.
func NewDepartmentRepository(db database.Conn) *DepartmentRepository {
	return &DepartmentRepository{
		db:       db,
		identity: newIdentityMap[Department](),
	}
}

// WithEmployees attaches the lister used by Employees.
func (r *DepartmentRepository) WithEmployees(employees EmployeeLister) {
	r.employees = employees
}

// CreateTable creates the departments table if it does not exist.
func (r *DepartmentRepository) CreateTable(ctx context.Context) error {
	idColumn, _ := columnTypes(r.db.Dialect())

	query := `
		CREATE TABLE IF NOT EXISTS departments (
			` + idColumn + `,
			name TEXT,
			location TEXT
		)`
	if err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create departments table: %w", err)
	}
	return nil
}

// DropTable drops the departments table if it exists.
func (r *DepartmentRepository) DropTable(ctx context.Context) error {
	if err := r.db.Exec(ctx, `DROP TABLE IF EXISTS departments`); err != nil {
		return fmt.Errorf("failed to drop departments table: %w", err)
	}
	return nil
}

// Create validates, inserts and returns a new department.
func (r *DepartmentRepository) Create(ctx context.Context, name, location string) (*Department, error) {
	d, err := NewDepartment(name, location)
	if err != nil {
		return nil, err
	}
	if err := r.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Save inserts d, assigns the store-generated id and registers d in the
// identity map. Records that bypassed NewDepartment are validated here.
func (r *DepartmentRepository) Save(ctx context.Context, d *Department) error {
	if d.Persisted() {
		return ErrAlreadyPersisted
	}
	if err := d.validate(); err != nil {
		return err
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO departments (name, location)
		VALUES (?, ?)
		RETURNING id
	`, d.name, d.location).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert department: %w", err)
	}

	d.id = id
	r.identity.put(id, d)
	return nil
}

// Update writes d's current fields to its row.
func (r *DepartmentRepository) Update(ctx context.Context, d *Department) error {
	if !d.Persisted() {
		return ErrNotPersisted
	}
	if err := d.validate(); err != nil {
		return err
	}

	err := r.db.Exec(ctx, `
		UPDATE departments SET name = ?, location = ? WHERE id = ?
	`, d.name, d.location, d.id)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

// Delete removes d's row, evicts it from the identity map and clears its id.
func (r *DepartmentRepository) Delete(ctx context.Context, d *Department) error {
	if !d.Persisted() {
		return ErrNotPersisted
	}

	if err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = ?`, d.id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	r.identity.evict(d.id)
	d.id = 0
	return nil
}

// FindByID returns the department with id, or nil if there is none.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*Department, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, location FROM departments WHERE id = ?
	`, id)
	return r.scanOne(row)
}

// FindByName returns the first department named name, or nil.
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*Department, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, location FROM departments WHERE name = ? ORDER BY id LIMIT 1
	`, name)
	return r.scanOne(row)
}

// GetAll returns every department ordered by id.
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*Department, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, location FROM departments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []*Department
	for rows.Next() {
		var (
			id             int64
			name, location string
		)
		if err := rows.Scan(&id, &name, &location); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		d, err := r.fromRow(id, name, location)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return departments, nil
}

// Employees returns the employees whose department_id is d's id.
func (r *DepartmentRepository) Employees(ctx context.Context, d *Department) ([]*Employee, error) {
	if r.employees == nil {
		return nil, errors.New("department repository has no employee lister")
	}
	return r.employees.FindByDepartmentID(ctx, d.id)
}

func (r *DepartmentRepository) scanOne(row database.Row) (*Department, error) {
	var (
		id             int64
		name, location string
	)
	err := row.Scan(&id, &name, &location)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return r.fromRow(id, name, location)
}

// fromRow reconciles a row with the identity map: a cached instance is
// refreshed in place, otherwise a new one is built and cached.
func (r *DepartmentRepository) fromRow(id int64, name, location string) (*Department, error) {
	if err := errors.Join(requireText("name", name), requireText("location", location)); err != nil {
		return nil, fmt.Errorf("department %d: %w", id, err)
	}

	d, ok := r.identity.get(id)
	if !ok {
		d = &Department{id: id}
		r.identity.put(id, d)
	}
	d.name = name
	d.location = location
	return d, nil
}
