package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CleanupManager runs shutdown steps in registration order, bounded by a timeout.
type CleanupManager struct {
	mu          sync.Mutex
	resources   []CleanupResource
	timeout     time.Duration
	logger      *zap.Logger
	cleanupOnce sync.Once
	errs        []error
}

// CleanupResource represents a resource that needs cleanup
type CleanupResource interface {
	Cleanup() error
	Name() string
}

// CleanupFunc is a function-based cleanup resource
type CleanupFunc struct {
	name string
	fn   func() error
}

func (c *CleanupFunc) Cleanup() error {
	return c.fn()
}

func (c *CleanupFunc) Name() string {
	return c.name
}

// NewCleanupManager creates a new cleanup manager with the specified timeout.
// A nil logger discards output.
func NewCleanupManager(timeout time.Duration, logger *zap.Logger) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupManager{
		resources: make([]CleanupResource, 0),
		timeout:   timeout,
		logger:    logger,
	}
}

// Register adds a resource to be cleaned up
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers a cleanup function
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.Register(&CleanupFunc{name: name, fn: fn})
}

// Execute performs cleanup of all registered resources once. Later calls
// return the errors of the first run.
func (cm *CleanupManager) Execute() []error {
	cm.cleanupOnce.Do(func() {
		cm.errs = cm.executeWithTimeout()
	})
	return cm.errs
}

func (cm *CleanupManager) executeWithTimeout() []error {
	cm.mu.Lock()
	resources := make([]CleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	done := make(chan struct{})
	var cleanupErrors []error
	var mu sync.Mutex

	go func() {
		defer close(done)
		for _, resource := range resources {
			func() {
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						cleanupErrors = append(cleanupErrors, fmt.Errorf("%s: panic during cleanup: %v", resource.Name(), r))
						mu.Unlock()
						cm.logger.Error("cleanup: panic", zap.String("resource", resource.Name()), zap.Any("panic", r))
					}
				}()

				if err := resource.Cleanup(); err != nil {
					mu.Lock()
					cleanupErrors = append(cleanupErrors, fmt.Errorf("%s: %w", resource.Name(), err))
					mu.Unlock()
					cm.logger.Warn("cleanup: failed", zap.String("resource", resource.Name()), zap.Error(err))
				} else {
					cm.logger.Debug("cleanup: done", zap.String("resource", resource.Name()))
				}
			}()
		}
	}()

	select {
	case <-done:
		return cleanupErrors
	case <-ctx.Done():
		cm.logger.Warn("cleanup: timeout, some resources may not have been cleaned up", zap.Duration("timeout", cm.timeout))
		mu.Lock()
		defer mu.Unlock()
		out := append([]error(nil), cleanupErrors...)
		return append(out, errors.New("cleanup timeout exceeded"))
	}
}
