package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/deppfellow/orgrecords/internal/database"
	"github.com/deppfellow/orgrecords/internal/repository"
)

// RepositorySuite runs each test against a fresh sqlite file.
type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	db    *database.Database
	repos *repository.Repositories
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = openTestDB(s.T())
	s.repos = repository.NewRepositories(s.db)
	s.Require().NoError(s.repos.CreateTables(s.ctx))
}

func (s *RepositorySuite) TearDownTest() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func openTestDB(t *testing.T) *database.Database {
	t.Helper()
	log := zerolog.Nop()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), &log)
	require.NoError(t, err)
	return db
}

func (s *RepositorySuite) TestCreateThenFind() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	s.True(d.Persisted())
	s.NotZero(d.ID())

	found, err := s.repos.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("Engineering", found.Name())
	s.Equal("Building A", found.Location())
}

func (s *RepositorySuite) TestExampleScenario() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	s.Equal(int64(1), d.ID())

	e, err := s.repos.Employees.Create(s.ctx, "Alice", "Engineer", 1)
	s.Require().NoError(err)
	s.Equal(int64(1), e.ID())
	s.Equal(int64(1), e.DepartmentID())

	dept, err := e.Department(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(dept)
	s.Equal("Engineering", dept.Name())
	s.Same(d, dept)

	employees, err := s.repos.Departments.Employees(s.ctx, d)
	s.Require().NoError(err)
	s.Require().Len(employees, 1)
	s.Same(e, employees[0])

	s.Equal("Department 1: Engineering, Building A", d.String())
	s.Equal("Employee 1: Alice, Engineer, Department ID: 1", e.String())
}

func (s *RepositorySuite) TestSetterRejectsEmptyAndKeepsValue() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)

	err = d.SetName("")
	s.Require().Error(err)
	s.ErrorIs(err, repository.ErrValidation)
	s.Equal("Engineering", d.Name())

	err = d.SetLocation("")
	s.ErrorIs(err, repository.ErrValidation)
	s.Equal("Building A", d.Location())

	var verr *repository.ValidationError
	s.Require().ErrorAs(d.SetName(""), &verr)
	s.Equal("name", verr.Field)
}

func (s *RepositorySuite) TestEmployeeSettersRejectEmpty() {
	_, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	e, err := s.repos.Employees.Create(s.ctx, "Alice", "Engineer", 1)
	s.Require().NoError(err)

	s.ErrorIs(e.SetName(""), repository.ErrValidation)
	s.ErrorIs(e.SetJobTitle(""), repository.ErrValidation)
	s.ErrorIs(e.SetDepartmentID(s.ctx, 0), repository.ErrValidation)
	s.ErrorIs(e.SetDepartmentID(s.ctx, -3), repository.ErrValidation)
	s.ErrorIs(e.SetDepartmentID(s.ctx, 99), repository.ErrValidation)

	s.Equal("Alice", e.Name())
	s.Equal("Engineer", e.JobTitle())
	s.Equal(int64(1), e.DepartmentID())
}

func (s *RepositorySuite) TestCreateEmployeeWithMissingDepartment() {
	e, err := s.repos.Employees.Create(s.ctx, "Bob", "Engineer", 42)
	s.Require().Error(err)
	s.ErrorIs(err, repository.ErrValidation)
	s.Nil(e)

	all, err := s.repos.Employees.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *RepositorySuite) TestCreateDepartmentRejectsEmptyFields() {
	_, err := s.repos.Departments.Create(s.ctx, "", "Building A")
	s.ErrorIs(err, repository.ErrValidation)

	_, err = s.repos.Departments.Create(s.ctx, "Engineering", "")
	s.ErrorIs(err, repository.ErrValidation)

	all, err := s.repos.Departments.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *RepositorySuite) TestUpdate() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	s.Require().NoError(d.SetLocation("Building B"))
	s.Require().NoError(s.repos.Departments.Update(s.ctx, d))

	// a fresh session has no cached instance to hide stale rows
	other := repository.NewRepositories(s.db)
	found, err := other.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("Building B", found.Location())

	sales, err := s.repos.Departments.Create(s.ctx, "Sales", "Building C")
	s.Require().NoError(err)
	e, err := s.repos.Employees.Create(s.ctx, "Alice", "Engineer", d.ID())
	s.Require().NoError(err)
	s.Require().NoError(e.SetJobTitle("Manager"))
	s.Require().NoError(e.SetDepartmentID(s.ctx, sales.ID()))
	s.Require().NoError(s.repos.Employees.Update(s.ctx, e))

	fe, err := other.Employees.FindByID(s.ctx, e.ID())
	s.Require().NoError(err)
	s.Require().NotNil(fe)
	s.Equal("Manager", fe.JobTitle())
	s.Equal(sales.ID(), fe.DepartmentID())
}

func (s *RepositorySuite) TestDelete() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	e, err := s.repos.Employees.Create(s.ctx, "Alice", "Engineer", d.ID())
	s.Require().NoError(err)

	id := e.ID()
	s.Require().NoError(s.repos.Employees.Delete(s.ctx, e))
	s.False(e.Persisted())
	s.Zero(e.ID())

	found, err := s.repos.Employees.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(found)

	deptID := d.ID()
	s.Require().NoError(s.repos.Departments.Delete(s.ctx, d))
	s.Zero(d.ID())

	fd, err := s.repos.Departments.FindByID(s.ctx, deptID)
	s.Require().NoError(err)
	s.Nil(fd)
}

func (s *RepositorySuite) TestDeleteDepartmentWithEmployeesFails() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	_, err = s.repos.Employees.Create(s.ctx, "Alice", "Engineer", d.ID())
	s.Require().NoError(err)

	s.Require().Error(s.repos.Departments.Delete(s.ctx, d))
	s.True(d.Persisted())
}

func (s *RepositorySuite) TestIdentityMap() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)

	first, err := s.repos.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)
	second, err := s.repos.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)

	s.Same(first, second)
	s.Same(d, first)

	byName, err := s.repos.Departments.FindByName(s.ctx, "Engineering")
	s.Require().NoError(err)
	s.Same(d, byName)

	all, err := s.repos.Departments.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Same(d, all[0])
}

func (s *RepositorySuite) TestReconcileRefreshesCachedInstance() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)

	other := repository.NewRepositories(s.db)
	od, err := other.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)
	s.Require().NoError(od.SetName("Platform"))
	s.Require().NoError(other.Departments.Update(s.ctx, od))

	s.Equal("Engineering", d.Name())

	found, err := s.repos.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)
	s.Same(d, found)
	s.Equal("Platform", d.Name())
}

func (s *RepositorySuite) TestSessionsDoNotShareInstances() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)

	other := repository.NewRepositories(s.db)
	od, err := other.Departments.FindByID(s.ctx, d.ID())
	s.Require().NoError(err)
	s.NotSame(d, od)
}

func (s *RepositorySuite) TestFindMissing() {
	d, err := s.repos.Departments.FindByID(s.ctx, 5)
	s.Require().NoError(err)
	s.Nil(d)

	d, err = s.repos.Departments.FindByName(s.ctx, "Nowhere")
	s.Require().NoError(err)
	s.Nil(d)

	e, err := s.repos.Employees.FindByName(s.ctx, "Nobody")
	s.Require().NoError(err)
	s.Nil(e)
}

func (s *RepositorySuite) TestGetAllOrdered() {
	for _, name := range []string{"Engineering", "Sales", "Support"} {
		_, err := s.repos.Departments.Create(s.ctx, name, "HQ")
		s.Require().NoError(err)
	}

	all, err := s.repos.Departments.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Engineering", all[0].Name())
	s.Equal("Sales", all[1].Name())
	s.Equal("Support", all[2].Name())
	s.Less(all[0].ID(), all[1].ID())
}

func (s *RepositorySuite) TestFindByDepartmentID() {
	eng, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	sales, err := s.repos.Departments.Create(s.ctx, "Sales", "Building B")
	s.Require().NoError(err)

	alice, err := s.repos.Employees.Create(s.ctx, "Alice", "Engineer", eng.ID())
	s.Require().NoError(err)
	_, err = s.repos.Employees.Create(s.ctx, "Bob", "Seller", sales.ID())
	s.Require().NoError(err)
	carol, err := s.repos.Employees.Create(s.ctx, "Carol", "Engineer", eng.ID())
	s.Require().NoError(err)

	got, err := s.repos.Employees.FindByDepartmentID(s.ctx, eng.ID())
	s.Require().NoError(err)
	s.Equal([]*repository.Employee{alice, carol}, got)

	none, err := s.repos.Employees.FindByDepartmentID(s.ctx, 999)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestPersistenceStateErrors() {
	d, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
	s.ErrorIs(s.repos.Departments.Save(s.ctx, d), repository.ErrAlreadyPersisted)

	unsaved, err := repository.NewDepartment("Sales", "Building B")
	s.Require().NoError(err)
	s.ErrorIs(s.repos.Departments.Update(s.ctx, unsaved), repository.ErrNotPersisted)
	s.ErrorIs(s.repos.Departments.Delete(s.ctx, unsaved), repository.ErrNotPersisted)

	e, err := s.repos.Employees.New(s.ctx, "Alice", "Engineer", d.ID())
	s.Require().NoError(err)
	s.False(e.Persisted())
	s.ErrorIs(s.repos.Employees.Update(s.ctx, e), repository.ErrNotPersisted)
	s.ErrorIs(s.repos.Employees.Delete(s.ctx, e), repository.ErrNotPersisted)
	s.Require().NoError(s.repos.Employees.Save(s.ctx, e))
	s.ErrorIs(s.repos.Employees.Save(s.ctx, e), repository.ErrAlreadyPersisted)
}

func (s *RepositorySuite) TestSaveRejectsZeroValueRecords() {
	d := &repository.Department{}
	err := s.repos.Departments.Save(s.ctx, d)
	s.Require().ErrorIs(err, repository.ErrValidation)
	s.False(d.Persisted())

	departments, err := s.repos.Departments.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(departments)

	e := &repository.Employee{}
	err = s.repos.Employees.Save(s.ctx, e)
	s.Require().ErrorIs(err, repository.ErrValidation)
	s.False(e.Persisted())

	employees, err := s.repos.Employees.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(employees)
}

func (s *RepositorySuite) TestTablesIdempotent() {
	s.Require().NoError(s.repos.CreateTables(s.ctx))
	s.Require().NoError(s.repos.DropTables(s.ctx))
	s.Require().NoError(s.repos.DropTables(s.ctx))
	s.Require().NoError(s.repos.CreateTables(s.ctx))

	_, err := s.repos.Departments.Create(s.ctx, "Engineering", "Building A")
	s.Require().NoError(err)
}
