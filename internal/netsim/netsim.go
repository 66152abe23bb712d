// Package netsim slows down and breaks store calls the way a remote API would.
package netsim

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var ErrSimulatedFailure = errors.New("simulated network failure")

type Config struct {
	Latency           time.Duration
	FailureRate       float64
	RequestsPerSecond float64
}

// Simulator is a gorm plugin. Every statement waits for the limiter, sleeps
// for the latency and then fails with the configured probability.
type Simulator struct {
	cfg        Config
	limiter    *rate.Limiter
	failWrites atomic.Bool
	failReads  atomic.Bool
	mu         sync.Mutex
	random     *rand.Rand
}

func New(cfg Config) *Simulator {
	s := &Simulator{cfg: cfg, random: rand.New(rand.NewSource(time.Now().UnixNano()))}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return s
}

func (s *Simulator) Name() string {
	return "netsim"
}

// Initialize hooks the simulation in front of every statement. Writes fail
// before gorm opens its implicit transaction, so the caller sees the
// simulated or context error alone.
func (s *Simulator) Initialize(db *gorm.DB) error {
	callbacks := db.Callback()

	if err := callbacks.Query().Before("gorm:query").Register("netsim:query", s.read); err != nil {
		return err
	}
	if err := callbacks.Row().Before("gorm:row").Register("netsim:row", s.read); err != nil {
		return err
	}
	if err := callbacks.Create().Before("gorm:begin_transaction").Register("netsim:create", s.write); err != nil {
		return err
	}
	if err := callbacks.Update().Before("gorm:begin_transaction").Register("netsim:update", s.write); err != nil {
		return err
	}
	return callbacks.Delete().Before("gorm:begin_transaction").Register("netsim:delete", s.write)
}

// FailWrites makes every following create, update and delete fail until reset.
func (s *Simulator) FailWrites(fail bool) {
	s.failWrites.Store(fail)
}

func (s *Simulator) FailReads(fail bool) {
	s.failReads.Store(fail)
}

func (s *Simulator) read(db *gorm.DB) {
	s.simulate(db, s.failReads.Load())
}

func (s *Simulator) write(db *gorm.DB) {
	s.simulate(db, s.failWrites.Load())
}

func (s *Simulator) simulate(db *gorm.DB, forceFailure bool) {
	if db.Error != nil {
		return
	}

	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			_ = db.AddError(err)
			return
		}
	}

	if s.cfg.Latency > 0 {
		select {
		case <-time.After(s.cfg.Latency):
		case <-ctx.Done():
			_ = db.AddError(ctx.Err())
			return
		}
	}

	if forceFailure || s.roll() {
		log.Debugf("netsim: failing statement on table %q", db.Statement.Table)
		_ = db.AddError(ErrSimulatedFailure)
	}
}

func (s *Simulator) roll() bool {
	if s.cfg.FailureRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.random.Float64() < s.cfg.FailureRate
}
