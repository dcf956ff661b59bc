package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/orgrecords/internal/database"
)

// recordingConn captures statements passed to Exec.
type recordingConn struct {
	dialect database.Dialect
	execs   []string
}

func (c *recordingConn) Dialect() database.Dialect { return c.dialect }

func (c *recordingConn) Exec(_ context.Context, query string, _ ...any) error {
	c.execs = append(c.execs, query)
	return nil
}

func (c *recordingConn) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (c *recordingConn) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, nil
}

func TestCreateTablesUseInt64Keys(t *testing.T) {
	tests := []struct {
		dialect  database.Dialect
		idColumn string
		refType  string
	}{
		{
			dialect:  database.DialectPostgres,
			idColumn: "id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
			refType:  "department_id BIGINT",
		},
		{
			dialect:  database.DialectSQLite,
			idColumn: "id INTEGER PRIMARY KEY",
			refType:  "department_id INTEGER",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			conn := &recordingConn{dialect: tt.dialect}
			require.NoError(t, NewRepositories(conn).CreateTables(context.Background()))
			require.Len(t, conn.execs, 2)

			departments, employees := conn.execs[0], conn.execs[1]
			assert.Contains(t, departments, "CREATE TABLE IF NOT EXISTS departments")
			assert.Contains(t, departments, tt.idColumn)
			assert.Contains(t, employees, "CREATE TABLE IF NOT EXISTS employees")
			assert.Contains(t, employees, tt.idColumn)
			assert.Contains(t, employees, tt.refType)
		})
	}
}
