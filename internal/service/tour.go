// Package service contains the business logic for the tour expansion API.
// Services filter and check inputs, run the category processors and persist
// the result. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/repo"
	"github.com/pkordes/tourgen/internal/tours"
)

// instrumentationName names the tracer and meter of this package.
const instrumentationName = "github.com/pkordes/tourgen/internal/service"

// TourService expands tour frequency choices into tours and stores them.
type TourService struct {
	repo repo.TourRepo
	alts domain.AlternativesSet
	proc tours.Processor
	log  *slog.Logger

	tracer   trace.Tracer
	expanded metric.Int64Counter
	duration metric.Float64Histogram
}

type telemetry struct {
	tp trace.TracerProvider
	mp metric.MeterProvider
}

// Option configures a TourService.
type Option func(*telemetry)

// WithTracerProvider sets the provider expansion spans are created with.
// The global otel provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *telemetry) { t.tp = tp }
}

// WithMeterProvider sets the provider run metrics are recorded with.
// The global otel provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(t *telemetry) { t.mp = mp }
}

// NewTourService constructs a TourService backed by the provided TourRepo.
//
// Every alternatives table in alts is required. The person tables are checked
// against the person label space here, so a table that could generate a tour
// without a stable id fails at startup rather than on the first request.
// workers bounds the number of owner partitions expanded concurrently.
func NewTourService(r repo.TourRepo, alts domain.AlternativesSet, workers int, log *slog.Logger, opts ...Option) (*TourService, error) {
	if alts.Mandatory == nil || alts.NonMandatory == nil || alts.AtWorkSubtour == nil || alts.Joint == nil {
		return nil, fmt.Errorf("service.NewTourService: %w: every alternatives table is required", domain.ErrValidation)
	}

	checks := []struct {
		name     string
		alts     *domain.Alternatives
		subtours bool
	}{
		{"mandatory", alts.Mandatory, false},
		{"non_mandatory", alts.NonMandatory, false},
		{"atwork_subtour", alts.AtWorkSubtour, true},
	}
	for _, c := range checks {
		if err := tours.CheckCoverage(tours.PersonSpace(), c.alts, c.subtours); err != nil {
			return nil, fmt.Errorf("service.NewTourService: %s table: %w", c.name, err)
		}
	}
	if _, err := tours.JointSpace(alts.Joint); err != nil {
		return nil, fmt.Errorf("service.NewTourService: joint table: %w", err)
	}

	tel := telemetry{tp: otel.GetTracerProvider(), mp: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&tel)
	}
	meter := tel.mp.Meter(instrumentationName)
	expanded, err := meter.Int64Counter("tourgen.tours.expanded",
		metric.WithDescription("Tours generated by stored expansion runs"),
		metric.WithUnit("{tour}"),
	)
	if err != nil {
		return nil, fmt.Errorf("service.NewTourService: %w", err)
	}
	duration, err := meter.Float64Histogram("tourgen.expansion.duration",
		metric.WithDescription("Time spent expanding and storing one run"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("service.NewTourService: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}
	return &TourService{
		repo:     r,
		alts:     alts,
		proc:     tours.Processor{Workers: workers},
		log:      log,
		tracer:   tel.tp.Tracer(instrumentationName),
		expanded: expanded,
		duration: duration,
	}, nil
}

// ExpandMandatory expands the mandatory tour frequency of persons and replaces
// the stored mandatory tours. Persons without a choice make no mandatory tours
// and are skipped.
func (s *TourService) ExpandMandatory(ctx context.Context, persons []domain.Person) (domain.ExpansionResult, error) {
	ctx, span := s.tracer.Start(ctx, "TourService.ExpandMandatory")
	defer span.End()

	chosen := make([]domain.Person, 0, len(persons))
	for _, p := range persons {
		if p.MandatoryTourFrequency != "" {
			chosen = append(chosen, p)
		}
	}

	start := time.Now()
	out, err := s.proc.Mandatory(ctx, chosen, s.alts.Mandatory)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, domain.RunMandatory, "service.TourService.ExpandMandatory", err)
	}
	return s.save(ctx, domain.RunMandatory, len(chosen), out, start, "service.TourService.ExpandMandatory")
}

// ExpandNonMandatory expands person non-mandatory tour frequency choices and
// replaces the stored non-mandatory tours.
func (s *TourService) ExpandNonMandatory(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error) {
	ctx, span := s.tracer.Start(ctx, "TourService.ExpandNonMandatory")
	defer span.End()

	chosen := domain.Chosen(choices)

	start := time.Now()
	out, err := s.proc.NonMandatory(ctx, chosen, s.alts.NonMandatory)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, domain.RunNonMandatory, "service.TourService.ExpandNonMandatory", err)
	}
	return s.save(ctx, domain.RunNonMandatory, len(chosen), out, start, "service.TourService.ExpandNonMandatory")
}

// ExpandAtWorkSubtours expands at-work subtour frequency choices. Each choice
// is keyed by the tour id of a stored mandatory work tour; the parent's person
// and tour number are read from the repo.
func (s *TourService) ExpandAtWorkSubtours(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error) {
	ctx, span := s.tracer.Start(ctx, "TourService.ExpandAtWorkSubtours")
	defer span.End()

	chosen := domain.Chosen(choices)

	ids := make([]int64, len(chosen))
	for i, c := range chosen {
		ids[i] = c.OwnerID
	}
	parents, err := s.repo.ListByIDs(ctx, domain.SpacePerson, ids)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, domain.RunSubtour, "service.TourService.ExpandAtWorkSubtours", err)
	}
	workTours, err := WorkToursFor(parents, chosen)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, domain.RunSubtour, "service.TourService.ExpandAtWorkSubtours", err)
	}

	start := time.Now()
	out, err := s.proc.AtWorkSubtours(ctx, workTours, s.alts.AtWorkSubtour)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, domain.RunSubtour, "service.TourService.ExpandAtWorkSubtours", err)
	}
	return s.save(ctx, domain.RunSubtour, len(workTours), out, start, "service.TourService.ExpandAtWorkSubtours")
}

// ExpandJoint expands household joint tour frequency choices and replaces the
// stored joint tours.
func (s *TourService) ExpandJoint(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error) {
	ctx, span := s.tracer.Start(ctx, "TourService.ExpandJoint")
	defer span.End()

	chosen := domain.Chosen(choices)

	start := time.Now()
	out, err := s.proc.Joint(ctx, chosen, s.alts.Joint)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, domain.RunJoint, "service.TourService.ExpandJoint", err)
	}
	return s.save(ctx, domain.RunJoint, len(chosen), out, start, "service.TourService.ExpandJoint")
}

// Get returns a single stored tour.
func (s *TourService) Get(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error) {
	if !space.Valid() {
		return domain.Tour{}, fmt.Errorf("service.TourService.Get: %w: unknown id space %q", domain.ErrValidation, space)
	}
	t, err := s.repo.GetByID(ctx, space, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Get: %w", err)
	}
	return t, nil
}

// List returns one page of stored tours matching f and the total match count.
func (s *TourService) List(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error) {
	if f.Space != "" && !f.Space.Valid() {
		return nil, 0, fmt.Errorf("service.TourService.List: %w: unknown id space %q", domain.ErrValidation, f.Space)
	}
	if f.Category != nil && !f.Category.Valid() {
		return nil, 0, fmt.Errorf("service.TourService.List: %w: unknown category %q", domain.ErrValidation, *f.Category)
	}
	out, total, err := s.repo.ListPaged(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TourService.List: %w", err)
	}
	return out, total, nil
}

// Runs returns the stored expansion runs, newest first.
func (s *TourService) Runs(ctx context.Context) ([]domain.ExpansionRun, error) {
	runs, err := s.repo.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TourService.Runs: %w", err)
	}
	return runs, nil
}

func (s *TourService) save(ctx context.Context, kind domain.RunKind, owners int, out []domain.Tour, start time.Time, op string) (domain.ExpansionResult, error) {
	run := domain.ExpansionRun{
		ID:     uuid.New(),
		Kind:   kind,
		Space:  kind.Space(),
		Owners: owners,
		Tours:  len(out),
	}
	saved, err := s.repo.SaveRun(ctx, run, out)
	if err != nil {
		return domain.ExpansionResult{}, s.fail(ctx, kind, op, err)
	}
	elapsed := time.Since(start)

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("tourgen.run_id", saved.ID.String()),
		attribute.String("tourgen.kind", string(kind)),
		attribute.Int("tourgen.owners", owners),
		attribute.Int("tourgen.tours", len(out)),
	)
	kindAttr := metric.WithAttributes(attribute.String("kind", string(kind)))
	s.expanded.Add(ctx, int64(len(out)), kindAttr)
	s.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), kindAttr)

	s.log.InfoContext(ctx, "expansion saved",
		slog.String("run_id", saved.ID.String()),
		slog.String("kind", string(kind)),
		slog.Int("owners", owners),
		slog.Int("tours", len(out)),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	)
	return domain.ExpansionResult{Run: saved, Tours: out}, nil
}

// fail wraps an expansion error and marks the current span as failed.
// Invariant violations are also logged because they point at a configuration
// defect, not at the request.
func (s *TourService) fail(ctx context.Context, kind domain.RunKind, op string, err error) error {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, domain.ErrInvariant) {
		s.log.ErrorContext(ctx, "tour id invariant violated",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WorkToursFor pairs at-work subtour choices with their parent tours.
// Every choice must name a mandatory work tour among parents; the result
// follows the order of choices.
func WorkToursFor(parents []domain.Tour, choices []domain.Choice) ([]domain.WorkTour, error) {
	byID := make(map[int64]domain.Tour, len(parents))
	for _, p := range parents {
		byID[p.ID] = p
	}

	out := make([]domain.WorkTour, 0, len(choices))
	for _, c := range choices {
		p, ok := byID[c.OwnerID]
		if !ok {
			return nil, fmt.Errorf("%w: parent tour %d not found", domain.ErrValidation, c.OwnerID)
		}
		if p.Category != domain.CategoryMandatory || p.TourType != "work" {
			return nil, fmt.Errorf("%w: parent tour %d is not a mandatory work tour", domain.ErrValidation, c.OwnerID)
		}
		out = append(out, domain.WorkTour{
			TourID:                 p.ID,
			PersonID:               p.PersonID,
			TourNum:                p.TourNum,
			AtWorkSubtourFrequency: c.Alternative,
		})
	}
	return out, nil
}
