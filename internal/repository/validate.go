package repository

import (
	"github.com/go-playground/validator/v10"

	"github.com/deppfellow/orgrecords/internal/database"
)

var validate = validator.New()

// requireText rejects empty strings for the named field.
func requireText(field, value string) error {
	if err := validate.Var(value, "required"); err != nil {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// requireID rejects ids that can never have been assigned by the store.
func requireID(field string, id int64) error {
	if err := validate.Var(id, "gt=0"); err != nil {
		return &ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return nil
}

// columnTypes returns the primary key definition and the integer type used
// for foreign key columns. Ids are int64, so postgres needs BIGINT.
func columnTypes(dialect database.Dialect) (idColumn, refType string) {
	if dialect == database.DialectPostgres {
		return "id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY", "BIGINT"
	}
	return "id INTEGER PRIMARY KEY", "INTEGER"
}
