package orders

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Completer settles pending orders after a fixed delay that models external
// payment settlement latency. Order ids are passed over a task channel to a
// pool of workers; enqueuing never blocks the request path.
type Completer struct {
	store   Store
	delay   time.Duration
	workers int

	tasks chan string
	wg    sync.WaitGroup

	mu  sync.Mutex
	ctx context.Context
}

func NewCompleter(store Store, delay time.Duration, workers int) *Completer {
	if workers < 1 {
		workers = 1
	}
	return &Completer{
		store:   store,
		delay:   delay,
		workers: workers,
		tasks:   make(chan string, 256),
	}
}

// Start launches the worker pool. The context bounds the settlement waits:
// on cancellation, tasks still waiting out their delay are abandoned and
// their orders stay pending.
func (c *Completer) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-c.tasks:
					c.process(ctx, id)
				}
			}
		}()
	}
}

// Stop waits for the workers to exit. Call after cancelling the Start
// context.
func (c *Completer) Stop() {
	c.wg.Wait()
}

// Enqueue schedules the completion step for an order. There is no
// cancellation once scheduled; deleting the order mid-flight is handled by
// the absence check in process. When the queue is full the task runs on its
// own goroutine rather than blocking the caller.
func (c *Completer) Enqueue(id string) {
	select {
	case c.tasks <- id:
	default:
		c.mu.Lock()
		ctx := c.ctx
		c.mu.Unlock()
		if ctx == nil {
			ctx = context.Background()
		}
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.process(ctx, id)
		}()
	}
}

func (c *Completer) process(ctx context.Context, id string) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		slog.Warn("shutting down before order settled, order stays pending", "order_id", id)
		return
	case <-timer.C:
	}
	c.settle(ctx, id)
}

// settle re-reads the order and transitions it to completed, publishing the
// final snapshot to the order_completed stream. Any failure after the order
// was found falls back to a best-effort failed-status write.
func (c *Completer) settle(ctx context.Context, id string) {
	fields, err := c.store.Get(ctx, Namespace, id)
	if err != nil {
		c.markFailed(ctx, id, err)
		return
	}
	if fields == nil {
		// deleted while the settlement delay was running
		slog.Warn("order vanished before completion", "order_id", id)
		return
	}
	order, err := decodeOrder(id, fields)
	if err != nil {
		c.markFailed(ctx, id, err)
		return
	}
	if order.Status != StatusPending {
		// completed and failed are terminal
		slog.Warn("order already settled", "order_id", id, "status", order.Status)
		return
	}

	order.Status = StatusCompleted
	if err := c.store.SaveID(ctx, Namespace, id, encodeOrder(*order)); err != nil {
		c.markFailed(ctx, id, err)
		return
	}

	// The completed state is already durable; a publish failure is not
	// rolled back.
	if err := c.store.Publish(ctx, StreamOrderCompleted, snapshot(*order)); err != nil {
		slog.Error("failed to publish completion event", "order_id", id, "error", err)
	}

	slog.Info("order completed", "order_id", id)
}

// markFailed is the recovery path: re-fetch the order and overwrite it with
// failed status. If that write also fails the order may stay pending
// indefinitely, which is logged and accepted.
func (c *Completer) markFailed(ctx context.Context, id string, cause error) {
	slog.Error("order completion failed", "order_id", id, "error", cause)

	fields, err := c.store.Get(ctx, Namespace, id)
	if err != nil || fields == nil {
		slog.Error("could not load order to mark failed, it may stay pending", "order_id", id, "error", err)
		return
	}
	order, err := decodeOrder(id, fields)
	if err != nil {
		slog.Error("could not decode order to mark failed", "order_id", id, "error", err)
		return
	}
	if order.Status != StatusPending {
		return
	}

	order.Status = StatusFailed
	if err := c.store.SaveID(ctx, Namespace, id, encodeOrder(*order)); err != nil {
		slog.Error("could not mark order failed, it may stay pending", "order_id", id, "error", err)
	}
}
