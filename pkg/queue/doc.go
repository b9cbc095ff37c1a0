// Package queue provides a storage-backed task queue for deferred work.
//
// An Enqueuer stores tasks with a JSON payload; a Worker claims due tasks,
// dispatches them to typed handlers and retries failures with backoff until
// MaxRetries is exhausted. Execution is therefore at-least-once: handlers
// that are not idempotent must document what re-execution does.
//
//	type SendEmail struct{ To string }
//
//	enqueuer, _ := queue.NewEnqueuer(storage)
//	_ = enqueuer.Enqueue(ctx, SendEmail{To: "a@b.c"})
//
//	worker, _ := queue.NewWorker(storage)
//	worker.RegisterHandlers(queue.NewTaskHandler(func(ctx context.Context, p SendEmail) error {
//		return send(ctx, p.To)
//	}))
//	_ = worker.Start(ctx)
//
// MemoryStorage implements both repository interfaces for tests and
// single-process deployments; any storage honoring the repository contracts
// (atomic claim, retry bookkeeping) can replace it.
package queue
