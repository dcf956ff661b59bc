package service

import (
	"github.com/deppfellow/orgrecords/internal/server"
)

// Services groups the business services handed to the HTTP handlers.
type Services struct {
	Directory *DirectoryService
}

// NewServices builds every service against the shared server container.
func NewServices(s *server.Server) *Services {
	return &Services{
		Directory: NewDirectoryService(s),
	}
}
