package core

import (
	"github.com/go-chi/chi/v5"
)

// Service is a unit of HTTP routes mounted on the gateway router.
type Service interface {
	// Name identifies the service in logs.
	Name() string

	// RegisterRoutes sets up this service's routes on the provided router.
	RegisterRoutes(router chi.Router)
}

// Registry is the ordered set of services built at startup.
// It is filled before the router is constructed and read-only afterwards.
type Registry struct {
	services []Service
}

// NewRegistry returns a registry holding the given services in order.
func NewRegistry(services ...Service) *Registry {
	return &Registry{services: append([]Service(nil), services...)}
}

// Register appends a service.
func (r *Registry) Register(s Service) {
	r.services = append(r.services, s)
}

// Services returns the registered services in registration order.
func (r *Registry) Services() []Service {
	return r.services
}
