package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/orgrecords/internal/errs"
)

type createEmployeePayload struct {
	Name         string `json:"name" validate:"required,max=10"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

func (p *createEmployeePayload) Validate() error { return Struct(p) }

type customPayload struct {
	Name string `json:"name"`
}

func (p *customPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return CustomValidationErrors{{Field: "name", Message: "must not be blank"}}
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	payload := &createEmployeePayload{}
	require.NoError(t, BindAndValidate(newContext(`{"name":"Alice","department_id":1}`), payload))
	assert.Equal(t, "Alice", payload.Name)
	assert.Equal(t, int64(1), payload.DepartmentID)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"Bartholomew Jr"}`), &createEmployeePayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "must not exceed 10 characters"},
		{Field: "department_id", Error: "is required"},
	}, httpErr.Errors)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &createEmployeePayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"  "}`), &customPayload{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "must not be blank"}}, httpErr.Errors)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "department_id", toSnakeCase("DepartmentID"))
	assert.Equal(t, "job_title", toSnakeCase("JobTitle"))
	assert.Equal(t, "id", toSnakeCase("ID"))
	assert.Equal(t, "name", toSnakeCase("Name"))
}
