package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	institutionhandler "schoolgate/internal/institution/handler"
	institutionmetrics "schoolgate/internal/institution/metrics"
	institutionservice "schoolgate/internal/institution/service"
	institutionstore "schoolgate/internal/institution/store"
	"schoolgate/internal/jwttoken"
	"schoolgate/internal/platform/config"
	"schoolgate/internal/platform/httpserver"
	"schoolgate/internal/platform/logger"
	platformmetrics "schoolgate/internal/platform/metrics"
	platformredis "schoolgate/internal/platform/redis"
	policyhandler "schoolgate/internal/policy/handler"
	policymetrics "schoolgate/internal/policy/metrics"
	policyservice "schoolgate/internal/policy/service"
	policystore "schoolgate/internal/policy/store"
	presencehandler "schoolgate/internal/presence/handler"
	presencemetrics "schoolgate/internal/presence/metrics"
	presenceservice "schoolgate/internal/presence/service"
	studenthandler "schoolgate/internal/student/handler"
	studentmetrics "schoolgate/internal/student/metrics"
	studentservice "schoolgate/internal/student/service"
	studentstore "schoolgate/internal/student/store"
	httptransport "schoolgate/internal/transport/http"
	"schoolgate/pkg/platform/audit"
)

// main wires stores, services, and the HTTP surface. Business logic lives in
// the internal service packages; this file only assembles them.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db  *sql.DB
		err error
	)
	if cfg.PostgresURL != "" {
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		institutionStore institutionservice.Store
		policyStore      policyservice.Store
		studentStore     studentservice.Store
	)
	if db != nil {
		institutionStore = institutionstore.NewPostgres(db)
		policyStore = policystore.NewPostgres(db)
		studentStore = studentstore.NewPostgres(db)
		log.Info("using postgres-backed stores")
	} else {
		institutionStore = institutionstore.NewInMemory()
		policyStore = policystore.NewInMemory()
		studentStore = studentstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}
	if redisClient != nil {
		institutionStore = institutionstore.NewRedisCache(institutionStore, redisClient.Client, cfg.InstitutionCacheTTL)
		log.Info("institution cache enabled", "ttl", cfg.InstitutionCacheTTL)
	}

	auditPublisher := audit.NewChannelPublisher(256)
	auditStore := audit.NewInMemoryStore()
	auditWorker := audit.NewWorker(auditStore, auditPublisher.Inbox(), log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "schoolgate", "schoolgate-admin")
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	httpMetrics := platformmetrics.New()

	institutionService := institutionservice.New(institutionStore,
		institutionservice.WithLogger(log),
		institutionservice.WithAuditPublisher(auditPublisher),
		institutionservice.WithMetrics(institutionmetrics.New()),
	)
	policyService := policyservice.New(policyStore, institutionStore,
		policyservice.WithLogger(log),
		policyservice.WithAuditPublisher(auditPublisher),
		policyservice.WithMetrics(policymetrics.New()),
	)
	presenceService := presenceservice.New(institutionStore,
		presenceservice.WithLogger(log),
		presenceservice.WithMetrics(presencemetrics.New()),
	)
	studentService := studentservice.New(studentStore, institutionStore,
		studentservice.WithLogger(log),
		studentservice.WithAuditPublisher(auditPublisher),
		studentservice.WithMetrics(studentmetrics.New()),
	)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:       log,
		Metrics:      httpMetrics,
		Institutions: institutionhandler.New(institutionService, policyService, log, jwtValidator),
		Policies:     policyhandler.New(policyService, log, jwtValidator),
		Presence:     presencehandler.New(presenceService, log),
		Students:     studenthandler.New(studentService, log, jwtValidator),
		Health: func() error {
			if db != nil {
				if err := db.Ping(); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		auditWorker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("starting schoolgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
