package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/orgrecords/internal/repository"
	"github.com/deppfellow/orgrecords/internal/server"
	"github.com/deppfellow/orgrecords/internal/service"
	"github.com/deppfellow/orgrecords/internal/validation"
)

type DepartmentResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func newDepartmentResponse(d *repository.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID(), Name: d.Name(), Location: d.Location()}
}

type ListDepartmentsRequest struct {
	Name string `query:"name"`
}

func (r *ListDepartmentsRequest) Validate() error { return nil }

type DepartmentIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (r *DepartmentIDRequest) Validate() error { return validation.Struct(r) }

type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Location string `json:"location" validate:"required,max=255"`
}

func (r *CreateDepartmentRequest) Validate() error { return validation.Struct(r) }

type UpdateDepartmentRequest struct {
	ID       int64  `param:"id" json:"-" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=255"`
	Location string `json:"location" validate:"required,max=255"`
}

func (r *UpdateDepartmentRequest) Validate() error { return validation.Struct(r) }

// DepartmentHandler serves /api/v1/departments.
type DepartmentHandler struct {
	Handler
	directory *service.DirectoryService
}

func NewDepartmentHandler(s *server.Server, directory *service.DirectoryService) *DepartmentHandler {
	return &DepartmentHandler{Handler: NewHandler(s), directory: directory}
}

// List returns every department, or the single match for ?name=.
func (h *DepartmentHandler) List(c echo.Context, req *ListDepartmentsRequest) ([]DepartmentResponse, error) {
	ctx := c.Request().Context()

	if req.Name != "" {
		d, err := h.directory.FindDepartmentByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		return []DepartmentResponse{newDepartmentResponse(d)}, nil
	}

	departments, err := h.directory.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		res = append(res, newDepartmentResponse(d))
	}
	return res, nil
}

func (h *DepartmentHandler) Get(c echo.Context, req *DepartmentIDRequest) (DepartmentResponse, error) {
	d, err := h.directory.GetDepartment(c.Request().Context(), req.ID)
	if err != nil {
		return DepartmentResponse{}, err
	}
	return newDepartmentResponse(d), nil
}

func (h *DepartmentHandler) Create(c echo.Context, req *CreateDepartmentRequest) (DepartmentResponse, error) {
	d, err := h.directory.CreateDepartment(c.Request().Context(), req.Name, req.Location)
	if err != nil {
		return DepartmentResponse{}, err
	}
	return newDepartmentResponse(d), nil
}

func (h *DepartmentHandler) Update(c echo.Context, req *UpdateDepartmentRequest) (DepartmentResponse, error) {
	d, err := h.directory.UpdateDepartment(c.Request().Context(), req.ID, req.Name, req.Location)
	if err != nil {
		return DepartmentResponse{}, err
	}
	return newDepartmentResponse(d), nil
}

func (h *DepartmentHandler) Delete(c echo.Context, req *DepartmentIDRequest) error {
	return h.directory.DeleteDepartment(c.Request().Context(), req.ID)
}

func (h *DepartmentHandler) Employees(c echo.Context, req *DepartmentIDRequest) ([]EmployeeResponse, error) {
	employees, err := h.directory.DepartmentEmployees(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return newEmployeeResponses(employees), nil
}

// Register mounts the department routes on g.
func (h *DepartmentHandler) Register(g *echo.Group) {
	g.GET("", Handle(h.Handler, h.List, http.StatusOK, func() *ListDepartmentsRequest { return &ListDepartmentsRequest{} }))
	g.POST("", Handle(h.Handler, h.Create, http.StatusCreated, func() *CreateDepartmentRequest { return &CreateDepartmentRequest{} }))
	g.GET("/:id", Handle(h.Handler, h.Get, http.StatusOK, func() *DepartmentIDRequest { return &DepartmentIDRequest{} }))
	g.PUT("/:id", Handle(h.Handler, h.Update, http.StatusOK, func() *UpdateDepartmentRequest { return &UpdateDepartmentRequest{} }))
	g.DELETE("/:id", HandleNoContent(h.Handler, h.Delete, http.StatusNoContent, func() *DepartmentIDRequest { return &DepartmentIDRequest{} }))
	g.GET("/:id/employees", Handle(h.Handler, h.Employees, http.StatusOK, func() *DepartmentIDRequest { return &DepartmentIDRequest{} }))
}
