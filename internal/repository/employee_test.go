package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	departments map[int64]*Department
	err         error
	calls       int
}

func (f *stubFinder) FindByID(_ context.Context, id int64) (*Department, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.departments[id], nil
}

func TestNewEmployee(t *testing.T) {
	ctx := context.Background()
	finder := &stubFinder{departments: map[int64]*Department{
		1: {id: 1, name: "Engineering", location: "Building A"},
	}}

	tests := []struct {
		name         string
		empName      string
		jobTitle     string
		departmentID int64
		wantField    string
	}{
		{name: "valid", empName: "Alice", jobTitle: "Engineer", departmentID: 1},
		{name: "empty name", empName: "", jobTitle: "Engineer", departmentID: 1, wantField: "name"},
		{name: "empty job title", empName: "Alice", jobTitle: "", departmentID: 1, wantField: "job_title"},
		{name: "zero department", empName: "Alice", jobTitle: "Engineer", departmentID: 0, wantField: "department_id"},
		{name: "dangling department", empName: "Alice", jobTitle: "Engineer", departmentID: 7, wantField: "department_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEmployee(ctx, finder, tt.empName, tt.jobTitle, tt.departmentID)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.False(t, e.Persisted())
				assert.Equal(t, tt.departmentID, e.DepartmentID())
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Nil(t, e)
		})
	}
}

func TestEmployeeDepartmentIsNotCached(t *testing.T) {
	ctx := context.Background()
	finder := &stubFinder{departments: map[int64]*Department{
		1: {id: 1, name: "Engineering", location: "Building A"},
	}}

	e, err := NewEmployee(ctx, finder, "Alice", "Engineer", 1)
	require.NoError(t, err)
	before := finder.calls

	_, err = e.Department(ctx)
	require.NoError(t, err)
	_, err = e.Department(ctx)
	require.NoError(t, err)

	assert.Equal(t, before+2, finder.calls)
}

func TestSetDepartmentIDPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	finder := &stubFinder{departments: map[int64]*Department{1: {id: 1}}}

	e, err := NewEmployee(ctx, finder, "Alice", "Engineer", 1)
	require.NoError(t, err)

	boom := errors.New("connection reset")
	finder.err = boom

	err = e.SetDepartmentID(ctx, 1)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(1), e.DepartmentID())
}

func TestIdentityMap(t *testing.T) {
	m := newIdentityMap[Department]()
	d := &Department{id: 3}

	_, ok := m.get(3)
	assert.False(t, ok)

	m.put(3, d)
	got, ok := m.get(3)
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Equal(t, 1, m.len())

	m.evict(3)
	assert.Equal(t, 0, m.len())
}

func TestEmployeeWithoutFinder(t *testing.T) {
	ctx := context.Background()

	_, err := NewEmployee(ctx, nil, "Alice", "Engineer", 1)
	require.ErrorIs(t, err, ErrNoDepartmentFinder)
	assert.NotErrorIs(t, err, ErrValidation)

	var e Employee
	require.ErrorIs(t, e.SetDepartmentID(ctx, 1), ErrNoDepartmentFinder)
	assert.Zero(t, e.DepartmentID())

	d, err := e.Department(ctx)
	require.ErrorIs(t, err, ErrNoDepartmentFinder)
	assert.Nil(t, d)
}
