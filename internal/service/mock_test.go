package service_test

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/repo"
)

// mockTourRepo is a hand-written test double for repo.TourRepo.
// Each method is a function field; set only the ones your test needs.
type mockTourRepo struct {
	saveRun   func(ctx context.Context, run domain.ExpansionRun, tours []domain.Tour) (domain.ExpansionRun, error)
	getByID   func(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error)
	listByIDs func(ctx context.Context, space domain.IDSpace, ids []int64) ([]domain.Tour, error)
	listPaged func(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error)
	listAll   func(ctx context.Context) ([]domain.Tour, error)
	listRuns  func(ctx context.Context) ([]domain.ExpansionRun, error)
}

func (m *mockTourRepo) SaveRun(ctx context.Context, run domain.ExpansionRun, tours []domain.Tour) (domain.ExpansionRun, error) {
	return m.saveRun(ctx, run, tours)
}
func (m *mockTourRepo) GetByID(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error) {
	return m.getByID(ctx, space, id)
}
func (m *mockTourRepo) ListByIDs(ctx context.Context, space domain.IDSpace, ids []int64) ([]domain.Tour, error) {
	return m.listByIDs(ctx, space, ids)
}
func (m *mockTourRepo) ListPaged(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockTourRepo) ListAll(ctx context.Context) ([]domain.Tour, error) {
	return m.listAll(ctx)
}
func (m *mockTourRepo) ListRuns(ctx context.Context) ([]domain.ExpansionRun, error) {
	return m.listRuns(ctx)
}

// compile-time check: mockTourRepo must satisfy repo.TourRepo.
var _ repo.TourRepo = (*mockTourRepo)(nil)

// recordingRepo is a mockTourRepo whose SaveRun echoes the run back and
// remembers what it was given.
type recordingRepo struct {
	mockTourRepo
	saved      []domain.ExpansionRun
	savedTours [][]domain.Tour
}

func newRecordingRepo() *recordingRepo {
	r := &recordingRepo{}
	r.saveRun = func(_ context.Context, run domain.ExpansionRun, tours []domain.Tour) (domain.ExpansionRun, error) {
		r.saved = append(r.saved, run)
		r.savedTours = append(r.savedTours, tours)
		return run, nil
	}
	return r
}

// recordingMeterProvider hands out no-op instruments except for histograms,
// whose recorded values are kept.
type recordingMeterProvider struct {
	noop.MeterProvider
	hist *recordingHistogram
}

func newRecordingMeterProvider() *recordingMeterProvider {
	return &recordingMeterProvider{hist: &recordingHistogram{}}
}

func (p *recordingMeterProvider) Meter(string, ...metric.MeterOption) metric.Meter {
	return recordingMeter{hist: p.hist}
}

type recordingMeter struct {
	noop.Meter
	hist *recordingHistogram
}

func (m recordingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return m.hist, nil
}

type recordingHistogram struct {
	noop.Float64Histogram
	mu     sync.Mutex
	values []float64
}

func (h *recordingHistogram) Record(_ context.Context, v float64, _ ...metric.RecordOption) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, v)
}

var _ metric.MeterProvider = (*recordingMeterProvider)(nil)
