package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/events"
	"github.com/maxaizer/talentflow/internal/logger"
	"github.com/maxaizer/talentflow/internal/metrics"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/maxaizer/talentflow/internal/state"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const eventRefreshDelay = time.Second

type jobCounter interface {
	Count(ctx context.Context, filter repositories.JobFilter) (int64, error)
}

type stageCounter interface {
	CountByStage(ctx context.Context) (map[entities.Stage]int64, error)
}

type assessmentCounter interface {
	Count(ctx context.Context) (int64, error)
}

type DashboardSnapshot struct {
	ActiveJobs        int64
	TotalCandidates   int64
	HiredCandidates   int64
	Assessments       int64
	CandidatesByStage map[entities.Stage]int64
}

// Dashboard summarizes the pipeline and keeps the matching gauges current.
type Dashboard struct {
	jobs        jobCounter
	candidates  stageCounter
	assessments assessmentCounter
	cron        *cron.Cron
	refresher   *state.Debouncer
	bus         EventBus.Bus
	handlers    map[string]any
}

func NewDashboard(jobs jobCounter, candidates stageCounter, assessments assessmentCounter,
	bus EventBus.Bus, schedule string) (*Dashboard, error) {

	d := &Dashboard{
		jobs:        jobs,
		candidates:  candidates,
		assessments: assessments,
		cron:        cron.New(),
		refresher:   state.NewDebouncer(eventRefreshDelay),
		bus:         bus,
	}

	if _, err := d.cron.AddFunc(schedule, d.refresh); err != nil {
		return nil, errors.Wrapf(err, "invalid stats schedule %q", schedule)
	}

	refreshSoon := func() { d.refresher.Trigger(d.refresh) }
	handlers := map[string]any{
		events.CandidateStageChangedTopic: func(events.CandidateStageChanged) { refreshSoon() },
		events.JobCreatedTopic:            func(events.JobCreated) { refreshSoon() },
		events.JobUpdatedTopic:            func(events.JobUpdated) { refreshSoon() },
	}
	d.handlers = make(map[string]any, len(handlers))
	for topic, handler := range handlers {
		if err := bus.Subscribe(topic, handler); err != nil {
			d.unsubscribe()
			return nil, err
		}
		d.handlers[topic] = handler
	}

	d.cron.Start()
	log.Infof("dashboard started, refresh schedule: %s", schedule)
	return d, nil
}

// Stop detaches the dashboard from the bus and waits for a running refresh.
func (d *Dashboard) Stop() {
	d.unsubscribe()
	d.refresher.Stop()
	<-d.cron.Stop().Done()
}

func (d *Dashboard) unsubscribe() {
	for topic, handler := range d.handlers {
		if err := d.bus.Unsubscribe(topic, handler); err != nil {
			log.Warnf("failed to unsubscribe dashboard from %s: %v", topic, err)
		}
	}
	d.handlers = nil
}

func (d *Dashboard) Snapshot(ctx context.Context) (*DashboardSnapshot, error) {
	defer observeAction("dashboard_snapshot", time.Now())

	activeJobs, err := d.jobs.Count(ctx, repositories.JobFilter{Status: entities.JobActive})
	if err != nil {
		return nil, errors.Wrap(err, "failed to count active jobs")
	}

	byStage, err := d.candidates.CountByStage(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count candidates")
	}

	assessments, err := d.assessments.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count assessments")
	}

	snapshot := &DashboardSnapshot{
		ActiveJobs:        activeJobs,
		HiredCandidates:   byStage[entities.StageHired],
		Assessments:       assessments,
		CandidatesByStage: byStage,
	}
	for _, count := range byStage {
		snapshot.TotalCandidates += count
	}
	return snapshot, nil
}

func (d *Dashboard) refresh() {
	snapshot, err := d.Snapshot(context.Background())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to refresh dashboard: %v", err)
		return
	}

	metrics.ActiveJobs.Set(float64(snapshot.ActiveJobs))
	for stage, count := range snapshot.CandidatesByStage {
		metrics.CandidatesByStage.WithLabelValues(string(stage)).Set(float64(count))
	}
}
