package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/talentflow/internal/config"
	"github.com/maxaizer/talentflow/internal/logger"
	"github.com/maxaizer/talentflow/internal/metrics"
	"github.com/maxaizer/talentflow/internal/netsim"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/maxaizer/talentflow/internal/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func openStore(cfg *config.Config) *repositories.DbContext {
	var plugins []gorm.Plugin
	if cfg.Network.Enabled {
		plugins = append(plugins, netsim.New(netsim.Config{
			Latency:           cfg.Network.Latency,
			FailureRate:       cfg.Network.FailureRate,
			RequestsPerSecond: cfg.Network.RequestsPerSecond,
		}))
		log.Infof("simulated network enabled: latency %v, failure rate %.2f", cfg.Network.Latency, cfg.Network.FailureRate)
	}

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString, plugins...)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}

	if cfg.DB.BusyTimeout > 0 {
		if err = dbContext.SetBusyTimeout(cfg.DB.BusyTimeout); err != nil {
			log.Fatalf("can't configure db context: %v", err)
		}
	}

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}
	return dbContext
}

func seed(ctx context.Context, cfg config.SeedConfig, dbContext *repositories.DbContext) {
	if !cfg.Enabled {
		return
	}

	seeded, err := dbContext.Seed(ctx, repositories.SeedOptions{
		Jobs:        cfg.Jobs,
		Candidates:  cfg.Candidates,
		Assessments: cfg.Assessments,
	}, time.Now().UTC())
	if err != nil {
		log.Fatalf("can't seed store: %v", err)
	}
	if seeded {
		log.Infof("store seeded with %d jobs, %d candidates and %d assessments", cfg.Jobs, cfg.Candidates, cfg.Assessments)
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	if cfg.Metrics.Enabled {
		metrics.StartMetricsServer(cfg.Metrics.Port)
	}

	dbContext := openStore(cfg)
	defer dbContext.Close()

	seed(ctx, cfg.Seed, dbContext)

	store := dbContext.Store()
	bus := EventBus.New()

	directory, err := services.NewJobDirectory(store.Jobs, bus)
	if err != nil {
		log.Fatalf("can't create job directory: %v", err)
	}

	jobs, err := services.NewJobsController(store.Jobs, bus, services.JobsOptions{
		PageSize:       cfg.Pipeline.PageSize,
		FilterDebounce: cfg.Pipeline.FilterDebounce,
	})
	if err != nil {
		log.Fatalf("can't create jobs controller: %v", err)
	}
	defer jobs.Close()

	candidates, err := services.NewCandidatesController(store.Candidates, directory, bus, nil)
	if err != nil {
		log.Fatalf("can't create candidates controller: %v", err)
	}
	defer candidates.Close()

	dashboard, err := services.NewDashboard(store.Jobs, store.Candidates, store.Assessments, bus, cfg.Pipeline.StatsSchedule)
	if err != nil {
		log.Fatalf("can't create dashboard: %v", err)
	}
	defer dashboard.Stop()

	if err = jobs.Load(ctx); err != nil {
		log.Errorf("initial jobs load failed: %v", err)
	}
	if err = candidates.Load(ctx); err != nil {
		log.Errorf("initial candidates load failed: %v", err)
	}

	if snapshot, err := dashboard.Snapshot(ctx); err == nil {
		log.Infof("pipeline ready: %d active jobs, %d candidates, %d hired, %d assessments",
			snapshot.ActiveJobs, snapshot.TotalCandidates, snapshot.HiredCandidates, snapshot.Assessments)
	}

	<-ctx.Done()

	log.Info("Shutting down services...")
}
