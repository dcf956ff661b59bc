package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/deppfellow/orgrecords/internal/errs"
	"github.com/deppfellow/orgrecords/internal/repository"
	"github.com/deppfellow/orgrecords/internal/server"
)

// DirectoryService manages departments and their employees.
type DirectoryService struct {
	server *server.Server
}

func NewDirectoryService(s *server.Server) *DirectoryService {
	return &DirectoryService{server: s}
}

func departmentNotFound(id int64) error {
	return errs.NewNotFoundError(fmt.Sprintf("Department %d not found", id), true, nil)
}

func employeeNotFound(id int64) error {
	return errs.NewNotFoundError(fmt.Sprintf("Employee %d not found", id), true, nil)
}

func (s *DirectoryService) ListDepartments(ctx context.Context) ([]*repository.Department, error) {
	departments, err := s.server.NewSession().Departments.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list departments")
	}
	return departments, nil
}

func (s *DirectoryService) GetDepartment(ctx context.Context, id int64) (*repository.Department, error) {
	d, err := s.server.NewSession().Departments.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get department %d", id)
	}
	if d == nil {
		return nil, departmentNotFound(id)
	}
	return d, nil
}

// FindDepartmentByName returns the lowest-id department with the given name.
func (s *DirectoryService) FindDepartmentByName(ctx context.Context, name string) (*repository.Department, error) {
	d, err := s.server.NewSession().Departments.FindByName(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "find department %q", name)
	}
	if d == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("Department %q not found", name), true, nil)
	}
	return d, nil
}

func (s *DirectoryService) CreateDepartment(ctx context.Context, name, location string) (*repository.Department, error) {
	d, err := s.server.NewSession().Departments.Create(ctx, name, location)
	if err != nil {
		return nil, errors.Wrap(err, "create department")
	}
	return d, nil
}

// UpdateDepartment replaces both fields of an existing department.
func (s *DirectoryService) UpdateDepartment(ctx context.Context, id int64, name, location string) (*repository.Department, error) {
	repos := s.server.NewSession()

	d, err := repos.Departments.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get department %d", id)
	}
	if d == nil {
		return nil, departmentNotFound(id)
	}

	if err := d.SetName(name); err != nil {
		return nil, err
	}
	if err := d.SetLocation(location); err != nil {
		return nil, err
	}

	if err := repos.Departments.Update(ctx, d); err != nil {
		return nil, errors.Wrapf(err, "update department %d", id)
	}
	return d, nil
}

// DeleteDepartment fails with a conflict while employees still reference
// the department.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, id int64) error {
	repos := s.server.NewSession()

	d, err := repos.Departments.FindByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "get department %d", id)
	}
	if d == nil {
		return departmentNotFound(id)
	}

	if err := repos.Departments.Delete(ctx, d); err != nil {
		return errors.Wrapf(err, "delete department %d", id)
	}
	return nil
}

func (s *DirectoryService) DepartmentEmployees(ctx context.Context, id int64) ([]*repository.Employee, error) {
	repos := s.server.NewSession()

	d, err := repos.Departments.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get department %d", id)
	}
	if d == nil {
		return nil, departmentNotFound(id)
	}

	employees, err := repos.Departments.Employees(ctx, d)
	if err != nil {
		return nil, errors.Wrapf(err, "list employees of department %d", id)
	}
	return employees, nil
}

func (s *DirectoryService) ListEmployees(ctx context.Context) ([]*repository.Employee, error) {
	employees, err := s.server.NewSession().Employees.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list employees")
	}
	return employees, nil
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id int64) (*repository.Employee, error) {
	e, err := s.server.NewSession().Employees.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get employee %d", id)
	}
	if e == nil {
		return nil, employeeNotFound(id)
	}
	return e, nil
}

func (s *DirectoryService) FindEmployeeByName(ctx context.Context, name string) (*repository.Employee, error) {
	e, err := s.server.NewSession().Employees.FindByName(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "find employee %q", name)
	}
	if e == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("Employee %q not found", name), true, nil)
	}
	return e, nil
}

func (s *DirectoryService) CreateEmployee(ctx context.Context, name, jobTitle string, departmentID int64) (*repository.Employee, error) {
	e, err := s.server.NewSession().Employees.Create(ctx, name, jobTitle, departmentID)
	if err != nil {
		return nil, errors.Wrap(err, "create employee")
	}
	return e, nil
}

// UpdateEmployee replaces every field of an existing employee. The new
// department must exist.
func (s *DirectoryService) UpdateEmployee(ctx context.Context, id int64, name, jobTitle string, departmentID int64) (*repository.Employee, error) {
	repos := s.server.NewSession()

	e, err := repos.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get employee %d", id)
	}
	if e == nil {
		return nil, employeeNotFound(id)
	}

	if err := e.SetName(name); err != nil {
		return nil, err
	}
	if err := e.SetJobTitle(jobTitle); err != nil {
		return nil, err
	}
	if err := e.SetDepartmentID(ctx, departmentID); err != nil {
		return nil, err
	}

	if err := repos.Employees.Update(ctx, e); err != nil {
		return nil, errors.Wrapf(err, "update employee %d", id)
	}
	return e, nil
}

func (s *DirectoryService) DeleteEmployee(ctx context.Context, id int64) error {
	repos := s.server.NewSession()

	e, err := repos.Employees.FindByID(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "get employee %d", id)
	}
	if e == nil {
		return employeeNotFound(id)
	}

	if err := repos.Employees.Delete(ctx, e); err != nil {
		return errors.Wrapf(err, "delete employee %d", id)
	}
	return nil
}

// EmployeeDepartment resolves the department an employee belongs to.
func (s *DirectoryService) EmployeeDepartment(ctx context.Context, id int64) (*repository.Department, error) {
	repos := s.server.NewSession()

	e, err := repos.Employees.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get employee %d", id)
	}
	if e == nil {
		return nil, employeeNotFound(id)
	}

	d, err := e.Department(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "get department of employee %d", id)
	}
	if d == nil {
		return nil, departmentNotFound(e.DepartmentID())
	}
	return d, nil
}
