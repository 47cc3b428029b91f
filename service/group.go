// Package service defines the lifecycle contract for the long-running
// components of the application and a group runner that supervises
// them.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Service is implemented by types that provide a long-running service.
type Service interface {
	// Name returns the name of the service.
	Name() string

	// Run executes the service until the context is cancelled or an
	// error occurs.
	Run(ctx context.Context) error
}

// Group runs a set of services until the context is cancelled or any
// service fails.
type Group []Service

// Run starts every service in the group and blocks until they all
// exit. The first service failure cancels the shared context; the
// errors of all failed services are combined into the returned error.
func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, svc := range g {
		go func(svc Service) {
			defer wg.Done()
			if err := svc.Run(runCtx); err != nil {
				errCh <- fmt.Errorf("%s: %w", svc.Name(), err)
				cancelFn()
			}
		}(svc)
	}

	wg.Wait()
	close(errCh)

	var err error
	for svcErr := range errCh {
		err = multierror.Append(err, svcErr)
	}
	return err
}
