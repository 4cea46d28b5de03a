// Package registry provides the process-wide dependency registry used by the
// composition root to share wired components by well-known key.
package registry

import (
	"fmt"
	"sync"
)

// Well-known registry keys.
const (
	KeyUserRepository     = "userRepository"
	KeyCreateUser         = "createUser"
	KeyGetUser            = "getUser"
	KeyPutUser            = "putUser"
	KeyDeleteUser         = "deleteUser"
	KeyLogger             = "logger"
	KeyODM                = "odm"
	KeyDatabaseConnection = "databaseConnection"
)

// MissingDependencyError reports a dependency that was never provided.
type MissingDependencyError struct {
	Key string
}

// Error implements the error interface.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s dependency is missing", e.Key)
}

// Missing returns a MissingDependencyError for key.
func Missing(key string) error {
	return &MissingDependencyError{Key: key}
}

// Registry is a concurrency-safe key to instance store.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]any
}

var (
	instance     *Registry
	instanceOnce sync.Once
)

// GetInstance returns the process-wide registry.
func GetInstance() *Registry {
	instanceOnce.Do(func() {
		instance = New()
	})
	return instance
}

// New creates an isolated registry.
func New() *Registry {
	return &Registry{instances: make(map[string]any)}
}

// Provide stores instance under key, replacing any previous value.
func (r *Registry) Provide(key string, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[key] = instance
}

// Inject returns the instance stored under key.
func (r *Registry) Inject(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.instances[key]
	return value, ok
}

// Resolve looks up key and asserts it to T.
func Resolve[T any](r *Registry, key string) (T, error) {
	var zero T

	value, ok := r.Inject(key)
	if !ok || value == nil {
		return zero, Missing(key)
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%s dependency has unexpected type %T", key, value)
	}
	return typed, nil
}
