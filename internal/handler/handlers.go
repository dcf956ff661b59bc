package handler

import (
	"github.com/deppfellow/orgrecords/internal/server"
	"github.com/deppfellow/orgrecords/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health      *HealthHandler
	Departments *DepartmentHandler
	Employees   *EmployeeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		Departments: NewDepartmentHandler(s, services.Directory),
		Employees:   NewEmployeeHandler(s, services.Directory),
	}
}
