package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// TaskError accumulates the failures of a bulk import.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

// BulkImporter loads node and connection datasets through a worker pool.
// Nodes must be imported before the connections that reference them.
type BulkImporter struct {
	service *NetworkService
	workers int
}

// NewBulkImporter creates a BulkImporter running the given number of workers.
func NewBulkImporter(service *NetworkService, workers int) *BulkImporter {
	if workers <= 0 {
		workers = 4
	}
	return &BulkImporter{
		service: service,
		workers: workers,
	}
}

// ImportNodes stores nodes concurrently, keeping their ids.
func (bi *BulkImporter) ImportNodes(ctx context.Context, nodes []NodeInput) error {
	return bi.run(ctx, len(nodes), func(idx int) error {
		return bi.service.ImportNode(ctx, nodes[idx])
	})
}

// ImportEdges stores connections concurrently, skipping those already present.
func (bi *BulkImporter) ImportEdges(ctx context.Context, edges []EdgeInput) error {
	return bi.run(ctx, len(edges), func(idx int) error {
		e := edges[idx]
		if err := bi.service.ImportEdge(ctx, e); err != nil {
			return fmt.Errorf("connection %d->%d: %w", e.From, e.To, err)
		}
		return nil
	})
}

func (bi *BulkImporter) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				if err := workerFn(idx); err != nil {
					errCh <- err
				}
			}
		}()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.Errors = append(taskErr.Errors, err)
	}
	if len(taskErr.Errors) == 0 {
		return nil
	}
	return &taskErr
}
