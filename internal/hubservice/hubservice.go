package hubservice

import (
	"context"
	"sync"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/cleanup"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/agrotech/fieldwatch/internal/repository"
)

const DefaultWindow = 24 * time.Hour

// StatusCache is the optional store for evaluated sector monitors
type StatusCache interface {
	Get(ctx context.Context, sectorID, reducer string) (*models.SectorMonitor, bool, error)
	Set(ctx context.Context, monitor *models.SectorMonitor) error
	Invalidate(ctx context.Context, sectorID string) error
}

// Metrics receives evaluation and ingest observations
type Metrics interface {
	ObserveEvaluation(scope, reducer string, took time.Duration, alerts int)
	RecordIngest(source string, accepted bool)
}

type Options struct {
	Window    time.Duration
	Frost     alerting.FrostPolicy
	Retention time.Duration
	Cache     StatusCache
	Metrics   Metrics
	Clock     func() time.Time
}

// HubService contains all repositories and service-wide dependencies
type HubService struct {
	Sectors  repository.SectorRepository
	Sensors  repository.SensorRepository
	Readings repository.ReadingRepository
	Cleanup  *cleanup.CleanupService

	engine  *alerting.Engine
	window  time.Duration
	cache   StatusCache
	metrics Metrics
	now     func() time.Time

	// generations counts invalidations per sector so an evaluation that
	// overlapped a write is not cached.
	genMu       sync.Mutex
	generations map[string]uint64
}

// New creates a new HubService instance
func New(
	sectors repository.SectorRepository,
	sensors repository.SensorRepository,
	readings repository.ReadingRepository,
	opts Options,
) *HubService {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}
	return &HubService{
		Sectors:  sectors,
		Sensors:  sensors,
		Readings: readings,
		Cleanup:  cleanup.New(readings, opts.Retention),
		engine:   alerting.NewEngine(opts.Frost),
		window:   opts.Window,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		now:      opts.Clock,

		generations: make(map[string]uint64),
	}
}

// Validate checks if all required repositories are initialized
func (s *HubService) Validate() error {
	if s.Sectors == nil {
		return ErrMissingRepository("sectors")
	}
	if s.Sensors == nil {
		return ErrMissingRepository("sensors")
	}
	if s.Readings == nil {
		return ErrMissingRepository("readings")
	}
	return nil
}

func (s *HubService) Window() time.Duration {
	return s.window
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

type noopMetrics struct{}

func (noopMetrics) ObserveEvaluation(string, string, time.Duration, int) {}
func (noopMetrics) RecordIngest(string, bool)                            {}
