package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/orgrecords/internal/repository"
	"github.com/deppfellow/orgrecords/internal/server"
	"github.com/deppfellow/orgrecords/internal/service"
	"github.com/deppfellow/orgrecords/internal/validation"
)

type EmployeeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	JobTitle     string `json:"job_title"`
	DepartmentID int64  `json:"department_id"`
}

func newEmployeeResponse(e *repository.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID(),
		Name:         e.Name(),
		JobTitle:     e.JobTitle(),
		DepartmentID: e.DepartmentID(),
	}
}

func newEmployeeResponses(employees []*repository.Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		res = append(res, newEmployeeResponse(e))
	}
	return res
}

type ListEmployeesRequest struct {
	Name string `query:"name"`
}

func (r *ListEmployeesRequest) Validate() error { return nil }

type EmployeeIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (r *EmployeeIDRequest) Validate() error { return validation.Struct(r) }

type CreateEmployeeRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	JobTitle     string `json:"job_title" validate:"required,max=255"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

func (r *CreateEmployeeRequest) Validate() error { return validation.Struct(r) }

type UpdateEmployeeRequest struct {
	ID           int64  `param:"id" json:"-" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=255"`
	JobTitle     string `json:"job_title" validate:"required,max=255"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

func (r *UpdateEmployeeRequest) Validate() error { return validation.Struct(r) }

// EmployeeHandler serves /api/v1/employees.
type EmployeeHandler struct {
	Handler
	directory *service.DirectoryService
}

func NewEmployeeHandler(s *server.Server, directory *service.DirectoryService) *EmployeeHandler {
	return &EmployeeHandler{Handler: NewHandler(s), directory: directory}
}

// List returns every employee, or the single match for ?name=.
func (h *EmployeeHandler) List(c echo.Context, req *ListEmployeesRequest) ([]EmployeeResponse, error) {
	ctx := c.Request().Context()

	if req.Name != "" {
		e, err := h.directory.FindEmployeeByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		return []EmployeeResponse{newEmployeeResponse(e)}, nil
	}

	employees, err := h.directory.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return newEmployeeResponses(employees), nil
}

func (h *EmployeeHandler) Get(c echo.Context, req *EmployeeIDRequest) (EmployeeResponse, error) {
	e, err := h.directory.GetEmployee(c.Request().Context(), req.ID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return newEmployeeResponse(e), nil
}

func (h *EmployeeHandler) Create(c echo.Context, req *CreateEmployeeRequest) (EmployeeResponse, error) {
	e, err := h.directory.CreateEmployee(c.Request().Context(), req.Name, req.JobTitle, req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return newEmployeeResponse(e), nil
}

func (h *EmployeeHandler) Update(c echo.Context, req *UpdateEmployeeRequest) (EmployeeResponse, error) {
	e, err := h.directory.UpdateEmployee(c.Request().Context(), req.ID, req.Name, req.JobTitle, req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return newEmployeeResponse(e), nil
}

func (h *EmployeeHandler) Delete(c echo.Context, req *EmployeeIDRequest) error {
	return h.directory.DeleteEmployee(c.Request().Context(), req.ID)
}

func (h *EmployeeHandler) Department(c echo.Context, req *EmployeeIDRequest) (DepartmentResponse, error) {
	d, err := h.directory.EmployeeDepartment(c.Request().Context(), req.ID)
	if err != nil {
		return DepartmentResponse{}, err
	}
	return newDepartmentResponse(d), nil
}

// Register mounts the employee routes on g.
func (h *EmployeeHandler) Register(g *echo.Group) {
	g.GET("", Handle(h.Handler, h.List, http.StatusOK, func() *ListEmployeesRequest { return &ListEmployeesRequest{} }))
	g.POST("", Handle(h.Handler, h.Create, http.StatusCreated, func() *CreateEmployeeRequest { return &CreateEmployeeRequest{} }))
	g.GET("/:id", Handle(h.Handler, h.Get, http.StatusOK, func() *EmployeeIDRequest { return &EmployeeIDRequest{} }))
	g.PUT("/:id", Handle(h.Handler, h.Update, http.StatusOK, func() *UpdateEmployeeRequest { return &UpdateEmployeeRequest{} }))
	g.DELETE("/:id", HandleNoContent(h.Handler, h.Delete, http.StatusNoContent, func() *EmployeeIDRequest { return &EmployeeIDRequest{} }))
	g.GET("/:id/department", Handle(h.Handler, h.Department, http.StatusOK, func() *EmployeeIDRequest { return &EmployeeIDRequest{} }))
}
