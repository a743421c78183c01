package streams

import (
	"fmt"
	"strings"
	"sync"
)

// Registry manages the supported streaming services
type Registry struct {
	mu       sync.RWMutex
	order    []ServiceType
	services map[ServiceType]Service
}

// NewRegistry creates a registry holding Twitch, YouTube and Kick
func NewRegistry() *Registry {
	r := &Registry{
		services: make(map[ServiceType]Service),
	}
	for _, s := range defaultServices() {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a service
func (r *Registry) Register(service Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[service.Type]; !ok {
		r.order = append(r.order, service.Type)
	}
	r.services[service.Type] = service
}

// Get retrieves a service by type, ignoring case
func (r *Registry) Get(serviceType string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, ok := r.services[ServiceType(strings.ToLower(strings.TrimSpace(serviceType)))]
	if !ok {
		return Service{}, fmt.Errorf("unknown stream service: %s", serviceType)
	}
	return service, nil
}

// List returns all services in registration order
func (r *Registry) List() []Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]Service, 0, len(r.order))
	for _, t := range r.order {
		services = append(services, r.services[t])
	}
	return services
}

// ValidateAll checks every non-empty URL keyed by service type and returns
// the first failure in registration order
func (r *Registry) ValidateAll(urls map[ServiceType]string) error {
	for _, s := range r.List() {
		url := urls[s.Type]
		if url == "" {
			continue
		}
		if err := s.ValidateURL(url); err != nil {
			return err
		}
	}
	for t := range urls {
		if _, err := r.Get(string(t)); err != nil {
			return err
		}
	}
	return nil
}
