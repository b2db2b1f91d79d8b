package cmd

import (
	"context"
	"fmt"

	"github.com/jmehdipour/points-claimer/internal/config"
	"github.com/jmehdipour/points-claimer/internal/db"
	"github.com/jmehdipour/points-claimer/internal/kafka"
	"github.com/jmehdipour/points-claimer/internal/logger"
	"github.com/jmehdipour/points-claimer/internal/mytm"
	"github.com/jmehdipour/points-claimer/internal/outcome"
	"github.com/jmehdipour/points-claimer/internal/pipeline"
	"github.com/jmehdipour/points-claimer/internal/snapshot"
	"github.com/jmehdipour/points-claimer/internal/source"
	"github.com/jmehdipour/points-claimer/internal/transport"
	"go.uber.org/zap"
)

// app holds everything a command needs for one process lifetime.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	runner  *pipeline.Runner
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.log.Sync()
}

func loadApp(ctx context.Context, opts pipeline.Options) (*app, error) {
	// 1) load config
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg, log: logger.Init(cfg.Log.Level, cfg.Log.Encoding)}

	// 2) transport: the vendor client carries the device headers, the
	// phone-list/refresh endpoints get none
	topts := transport.Options{
		Timeout:         cfg.HTTP.Timeout,
		MaxIdleConns:    cfg.HTTP.MaxIdleConns,
		IdleConnTimeout: cfg.HTTP.IdleConnTimeout,
	}
	httpClient := transport.NewClient(transport.Headers{
		UserAgent:    cfg.Client.UserAgent,
		ServerSelect: cfg.Client.ServerSelect,
		DeviceName:   cfg.Client.DeviceName,
	}, topts)
	bareClient := transport.NewClient(transport.Headers{}, topts)
	a.closers = append(a.closers, httpClient.CloseIdleConnections, bareClient.CloseIdleConnections)

	// 3) snapshot store
	store, err := a.snapshotStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// 4) outcome sink
	var sink outcome.Sink = outcome.Nop{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducerFromConfig(kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		})
		a.closers = append(a.closers, func() { _ = producer.Close() })
		sink = outcome.NewBusSink(producer)
	}

	// 5) pipeline
	api := mytm.NewClient(httpClient, mytm.Config{
		BaseURL:        cfg.Endpoints.MyTMBase,
		Version:        cfg.Client.Version,
		IsFirstTime:    cfg.Dashboard.IsFirstTime,
		IsFirstInstall: cfg.Dashboard.IsFirstInstall,
	})
	limit := cfg.Pipeline.Concurrency

	opts.SkipDashboard = opts.SkipDashboard || cfg.Pipeline.SkipDashboard
	opts.SkipPhones = opts.SkipPhones || cfg.Pipeline.SkipPhones

	a.runner = &pipeline.Runner{
		Accounts:   source.NewAccounts(httpClient, cfg.Endpoints.Accounts, store, cfg.Source.FallbackToSnapshot, a.log.Named("source")),
		Phones:     source.NewPhones(bareClient, cfg.Endpoints.Phones),
		Dashboards: pipeline.NewDashboardRefresher(api, a.log.Named("dashboard"), limit),
		Claims:     pipeline.NewOrchestrator(api, sink, a.log.Named("claim"), limit),
		Refresher:  pipeline.NewPhoneRefresher(bareClient, cfg.Endpoints.PhoneRefresh, a.log.Named("refresh"), limit),
		Opts:       opts,
		Log:        a.log,
	}
	return a, nil
}

func (a *app) snapshotStore(ctx context.Context) (snapshot.Store, error) {
	sc := a.cfg.Snapshot
	switch sc.Backend {
	case "redis":
		rdb, err := db.NewRedisClient(ctx, db.RedisOpts{
			Addr:        a.cfg.Redis.Addr,
			Password:    a.cfg.Redis.Password,
			DB:          a.cfg.Redis.DB,
			DialTimeout: a.cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		return snapshot.NewRedisStore(rdb, sc.RedisKey, sc.TTL), nil
	case "memory":
		return snapshot.NewMemoryStore(sc.TTL), nil
	default:
		return snapshot.NewFileStore(sc.Path), nil
	}
}
