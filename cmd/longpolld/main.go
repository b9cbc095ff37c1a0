package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/longpoll/pkg/broadcaster"
	"github.com/dmitrymomot/longpoll/pkg/config"
	"github.com/dmitrymomot/longpoll/pkg/eventstore"
	"github.com/dmitrymomot/longpoll/pkg/httpapi"
	"github.com/dmitrymomot/longpoll/pkg/httpserver"
	"github.com/dmitrymomot/longpoll/pkg/logger"
	"github.com/dmitrymomot/longpoll/pkg/pg"
	"github.com/dmitrymomot/longpoll/pkg/query"
	"github.com/dmitrymomot/longpoll/pkg/queue"
	"github.com/dmitrymomot/longpoll/pkg/redis"
	"github.com/dmitrymomot/longpoll/pkg/retention"
	"github.com/dmitrymomot/longpoll/pkg/signal"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		logCfg    logger.Config
		pgCfg     pg.Config
		redisCfg  redis.Config
		sigCfg    signal.Config
		queueCfg  queue.Config
		retCfg    retention.Config
		apiCfg    httpapi.Config
		serverCfg httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&sigCfg) },
		func() error { return config.Load(&queueCfg) },
		func() error { return config.Load(&retCfg) },
		func() error { return config.Load(&apiCfg) },
		func() error { return config.Load(&serverCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log := logger.NewFromConfig(logCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	store := eventstore.NewPGStore(pool)

	publisher, err := signal.NewRedisPublisher(redisClient, sigCfg)
	if err != nil {
		return err
	}

	taskStorage := queue.NewMemoryStorage()
	defer taskStorage.Close()

	enqueuer, err := queue.NewEnqueuer(taskStorage, queue.WithDefaultQueue(queueCfg.BroadcastQueue))
	if err != nil {
		return err
	}

	caster, err := broadcaster.New(store, publisher,
		broadcaster.WithEnqueuer(enqueuer, queueCfg.BroadcastQueue),
		broadcaster.WithLogger(log),
	)
	if err != nil {
		return err
	}

	worker, err := queue.NewWorker(taskStorage,
		queue.WithQueues(queueCfg.BroadcastQueue),
		queue.WithPullInterval(queueCfg.PullInterval),
		queue.WithLockTimeout(queueCfg.LockTimeout),
		queue.WithMaxConcurrentTasks(queueCfg.MaxConcurrentTasks),
		queue.WithLogger(log),
	)
	if err != nil {
		return err
	}
	worker.RegisterHandlers(caster.TaskHandler())

	facade, err := query.New(store)
	if err != nil {
		return err
	}

	api, err := httpapi.NewService(facade, apiCfg, httpapi.WithLogger(log))
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Get("/healthz", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))
	router.Mount("/api/long-polling", api.Handle())

	srv := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))

	// The server handles interrupt/TERM itself; cancelling the group context
	// when it returns takes the worker and retention loop down with it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(worker.Run(ctx))
	eg.Go(func() error {
		defer cancel()
		return srv.Run(ctx, router)
	})

	if retCfg.TTL > 0 {
		policy, err := retention.New(store, retCfg.TTL, retention.WithLogger(log))
		if err != nil {
			return err
		}
		runner, err := retention.NewRunner(policy, retCfg.Interval)
		if err != nil {
			return err
		}
		eg.Go(func() error {
			if err := runner.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
