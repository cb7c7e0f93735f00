package routes

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

/* Loader holds the event routes
 * Defaults come from configuration, a routes.yaml file may add or override events
 */

// Config represents the structure of routes.yaml
type Config struct {
	Routes []RouteConfig `yaml:"routes"`
}

// RouteConfig represents a single route in the YAML file
type RouteConfig struct {
	Event       string `yaml:"event"`
	Path        string `yaml:"path"`
	MaxAttempts *int   `yaml:"max_attempts"` // Optional: override global default
	Sync        bool   `yaml:"sync"`
}

// Loader holds the loaded routes
type Loader struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewLoader creates a new route loader
func NewLoader() *Loader {
	return &Loader{
		routes: make(map[string]*Route),
	}
}

// Register validates and stores a route, replacing any route for the same event
func (l *Loader) Register(route Route) error {
	if err := route.Validate(); err != nil {
		return fmt.Errorf("validating route: %w", err)
	}
	l.mu.Lock()
	l.routes[route.Event] = &route
	l.mu.Unlock()
	return nil
}

// Load reads and parses a routes.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading routes file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing routes YAML: %w", err)
	}

	for _, rc := range config.Routes {
		route := Route{
			Event:       rc.Event,
			Path:        rc.Path,
			MaxAttempts: rc.MaxAttempts,
			Sync:        rc.Sync,
		}
		if err := l.Register(route); err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a route by its event
func (l *Loader) Get(event string) (*Route, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	route, exists := l.routes[event]
	if !exists {
		return nil, fmt.Errorf("route not found: %s", event)
	}
	return route, nil
}

// List returns all loaded routes ordered by event
func (l *Loader) List() []*Route {
	l.mu.RLock()
	defer l.mu.RUnlock()
	routes := make([]*Route, 0, len(l.routes))
	for _, route := range l.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Event < routes[j].Event })
	return routes
}

// Exists checks if an event has a route
func (l *Loader) Exists(event string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.routes[event]
	return exists
}
