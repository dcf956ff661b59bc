package repository

import (
	"context"

	"github.com/deppfellow/orgrecords/internal/database"
)

// Repositories is one session over the store: a department and an employee
// repository that share a connection and resolve each other.
type Repositories struct {
	Departments *DepartmentRepository
	Employees   *EmployeeRepository
}

// NewRepositories wires both repositories against db with empty identity maps.
func NewRepositories(db database.Conn) *Repositories {
	departments := NewDepartmentRepository(db)
	employees := NewEmployeeRepository(db, departments)
	departments.WithEmployees(employees)

	return &Repositories{
		Departments: departments,
		Employees:   employees,
	}
}

// CreateTables creates both tables, departments first for the foreign key.
func (r *Repositories) CreateTables(ctx context.Context) error {
	if err := r.Departments.CreateTable(ctx); err != nil {
		return err
	}
	return r.Employees.CreateTable(ctx)
}

// DropTables drops both tables, employees first.
func (r *Repositories) DropTables(ctx context.Context) error {
	if err := r.Employees.DropTable(ctx); err != nil {
		return err
	}
	return r.Departments.DropTable(ctx)
}
