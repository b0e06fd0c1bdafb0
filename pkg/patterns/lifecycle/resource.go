package lifecycle

import (
	"context"
	"errors"
	"fmt"
)

// HealthStatus represents the health of a component.
type HealthStatus struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message,omitempty"`
}

// ManagedResource is a component with a start/stop lifecycle.
type ManagedResource interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) HealthStatus
}

// Named pairs a resource with the name used in errors and logs.
type Named struct {
	Name     string
	Resource ManagedResource
}

// Group starts resources in order and stops them in reverse.
type Group struct {
	resources []Named
	started   int
}

func NewGroup(resources ...Named) *Group {
	return &Group{resources: resources}
}

// Start starts every resource. On failure the resources already started
// are stopped and the start error is returned.
func (g *Group) Start(ctx context.Context) error {
	for i, r := range g.resources {
		if err := r.Resource.Start(ctx); err != nil {
			g.started = i
			stopErr := g.Stop(ctx)
			return errors.Join(fmt.Errorf("start %s: %w", r.Name, err), stopErr)
		}
	}
	g.started = len(g.resources)
	return nil
}

// Stop stops every started resource in reverse order and joins the errors.
func (g *Group) Stop(ctx context.Context) error {
	var errs []error
	for i := g.started - 1; i >= 0; i-- {
		r := g.resources[i]
		if err := r.Resource.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", r.Name, err))
		}
	}
	g.started = 0
	return errors.Join(errs...)
}

// Health reports ready only when every resource is ready.
func (g *Group) Health(ctx context.Context) HealthStatus {
	for _, r := range g.resources {
		if h := r.Resource.Health(ctx); !h.Ready {
			return HealthStatus{Ready: false, Message: r.Name + ": " + h.Message}
		}
	}
	return HealthStatus{Ready: true}
}

// Func adapts plain start and stop functions into a ManagedResource.
type Func struct {
	StartFn func(context.Context) error
	StopFn  func(context.Context) error
}

func (f Func) Start(ctx context.Context) error {
	if f.StartFn == nil {
		return nil
	}
	return f.StartFn(ctx)
}

func (f Func) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

func (Func) Health(context.Context) HealthStatus { return HealthStatus{Ready: true} }
