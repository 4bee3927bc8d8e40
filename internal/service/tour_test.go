package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/pkordes/tourgen/internal/config"
	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/service"
	"github.com/pkordes/tourgen/internal/tours"
)

// ---- helpers ---------------------------------------------------------------

func shippedAlts(t *testing.T) domain.AlternativesSet {
	t.Helper()
	alts, err := config.LoadAlternatives("../../configs/tour_frequency_alternatives.yaml")
	require.NoError(t, err)
	return alts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTourService(t *testing.T, r *recordingRepo, workers int) *service.TourService {
	t.Helper()
	svc, err := service.NewTourService(r, shippedAlts(t), workers, discardLogger())
	require.NoError(t, err)
	return svc
}

// personID*19 + rank in the person label space.
func personTourID(t *testing.T, personID int64, label string) int64 {
	t.Helper()
	rank, ok := tours.PersonSpace().Rank(label)
	require.True(t, ok, label)
	return personID*int64(tours.PersonSpace().Len()) + int64(rank)
}

// ---- NewTourService --------------------------------------------------------

func TestNewTourService_MissingTable(t *testing.T) {
	alts := shippedAlts(t)
	alts.Joint = nil

	_, err := service.NewTourService(newRecordingRepo(), alts, 1, discardLogger())

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewTourService_TableOutsidePersonSpace(t *testing.T) {
	alts := shippedAlts(t)
	wide, err := domain.NewAlternatives([]string{"shopping"}, map[string][]int{"two": {2}})
	require.NoError(t, err)
	alts.NonMandatory = wide

	_, err = service.NewTourService(newRecordingRepo(), alts, 1, discardLogger())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvariant)
	assert.Contains(t, err.Error(), "shopping2")
}

// ---- ExpandMandatory -------------------------------------------------------

func TestTourService_ExpandMandatory(t *testing.T) {
	r := newRecordingRepo()
	svc := newTourService(t, r, 1)

	res, err := svc.ExpandMandatory(context.Background(), []domain.Person{
		{ID: 1, MandatoryTourFrequency: "work1", IsWorker: true, WorkplaceTAZ: 10},
		{ID: 2, MandatoryTourFrequency: domain.WorkAndSchool, SchoolTAZ: 20, WorkplaceTAZ: 30},
		{ID: 3}, // no mandatory tours
	})

	require.NoError(t, err)
	require.Len(t, r.saved, 1)
	assert.Equal(t, domain.RunMandatory, res.Run.Kind)
	assert.Equal(t, domain.SpacePerson, res.Run.Space)
	assert.Equal(t, 2, res.Run.Owners)
	assert.Equal(t, 3, res.Run.Tours)
	assert.Equal(t, res.Tours, r.savedTours[0])

	got := map[int64]domain.Tour{}
	for _, tr := range res.Tours {
		got[tr.ID] = tr
	}
	work := got[personTourID(t, 2, "work1")]
	school := got[personTourID(t, 2, "school1")]
	assert.Equal(t, 2, work.TourNum, "non-worker goes to school first")
	assert.Equal(t, 1, school.TourNum)
	assert.Equal(t, int64(30), *work.Destination)
	assert.Equal(t, int64(20), *school.Destination)
	assert.Contains(t, got, personTourID(t, 1, "work1"))
}

func TestTourService_ExpandMandatory_UnknownAlternative(t *testing.T) {
	r := newRecordingRepo()
	svc := newTourService(t, r, 1)

	_, err := svc.ExpandMandatory(context.Background(), []domain.Person{
		{ID: 1, MandatoryTourFrequency: "work9"},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, r.saved, "nothing is stored when expansion fails")
}

// ---- ExpandNonMandatory ----------------------------------------------------

func TestTourService_ExpandNonMandatory_ParallelMatchesSequential(t *testing.T) {
	choices := make([]domain.Choice, 0, 500)
	for i := range 500 {
		choices = append(choices, domain.Choice{OwnerID: int64(i + 1), Alternative: []string{"0", "1", "7", "95", ""}[i%5]})
	}

	seq := newRecordingRepo()
	par := newRecordingRepo()
	a, err := newTourService(t, seq, 1).ExpandNonMandatory(context.Background(), choices)
	require.NoError(t, err)
	b, err := newTourService(t, par, 8).ExpandNonMandatory(context.Background(), choices)
	require.NoError(t, err)

	assert.Equal(t, a.Tours, b.Tours)
	assert.Equal(t, 400, a.Run.Owners, "empty choices are skipped")
}

func TestTourService_ExpandNonMandatory_SaveError(t *testing.T) {
	r := newRecordingRepo()
	boom := errors.New("db down")
	r.saveRun = func(context.Context, domain.ExpansionRun, []domain.Tour) (domain.ExpansionRun, error) {
		return domain.ExpansionRun{}, boom
	}
	svc := newTourService(t, r, 1)

	_, err := svc.ExpandNonMandatory(context.Background(), []domain.Choice{{OwnerID: 1, Alternative: "1"}})

	assert.ErrorIs(t, err, boom)
}

func TestTourService_ExpandNonMandatory_LogsRun(t *testing.T) {
	var buf bytes.Buffer
	svc, err := service.NewTourService(newRecordingRepo(), shippedAlts(t), 1, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)

	_, err = svc.ExpandNonMandatory(context.Background(), []domain.Choice{{OwnerID: 1, Alternative: "1"}})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "expansion saved", entry["msg"])
	assert.Equal(t, "non_mandatory", entry["kind"])
	assert.EqualValues(t, 1, entry["tours"])
	assert.NotEmpty(t, entry["run_id"])
}

func newTracedService(t *testing.T, r *recordingRepo) (*service.TourService, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	svc, err := service.NewTourService(r, shippedAlts(t), 1, discardLogger(),
		service.WithTracerProvider(tp),
		service.WithMeterProvider(noop.NewMeterProvider()),
	)
	require.NoError(t, err)
	return svc, rec
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTourService_ExpandNonMandatory_RecordsSpan(t *testing.T) {
	svc, rec := newTracedService(t, newRecordingRepo())

	_, err := svc.ExpandNonMandatory(context.Background(), []domain.Choice{
		{OwnerID: 1, Alternative: "1"},
		{OwnerID: 2, Alternative: "95"},
	})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "TourService.ExpandNonMandatory", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	kind, ok := spanAttr(spans[0], "tourgen.kind")
	require.True(t, ok)
	assert.Equal(t, "non_mandatory", kind.AsString())
	n, ok := spanAttr(spans[0], "tourgen.tours")
	require.True(t, ok)
	assert.EqualValues(t, 8, n.AsInt64())
}

func TestTourService_ExpandNonMandatory_RecordsSubMillisecondDuration(t *testing.T) {
	mp := newRecordingMeterProvider()
	svc, err := service.NewTourService(newRecordingRepo(), shippedAlts(t), 1, discardLogger(),
		service.WithMeterProvider(mp),
	)
	require.NoError(t, err)

	_, err = svc.ExpandNonMandatory(context.Background(), []domain.Choice{{OwnerID: 1, Alternative: "1"}})
	require.NoError(t, err)

	require.Len(t, mp.hist.values, 1)
	assert.Greater(t, mp.hist.values[0], 0.0, "durations keep their fraction of a millisecond")
}

func TestTourService_ExpandMandatory_FailedSpan(t *testing.T) {
	svc, rec := newTracedService(t, newRecordingRepo())

	_, err := svc.ExpandMandatory(context.Background(), []domain.Person{
		{ID: 1, MandatoryTourFrequency: "work9"},
	})
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events(), "the error is recorded as a span event")
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

// ---- ExpandAtWorkSubtours --------------------------------------------------

func workParent(id, personID int64, tourNum int) domain.Tour {
	return domain.Tour{
		ID: id, Space: domain.SpacePerson, PersonID: personID,
		TourType: "work", TourNum: tourNum, Category: domain.CategoryMandatory, Mandatory: true,
	}
}

func TestTourService_ExpandAtWorkSubtours(t *testing.T) {
	r := newRecordingRepo()
	parent := workParent(personTourID(t, 1, "work1"), 1, 1)
	r.listByIDs = func(_ context.Context, space domain.IDSpace, ids []int64) ([]domain.Tour, error) {
		assert.Equal(t, domain.SpacePerson, space)
		assert.Equal(t, []int64{parent.ID}, ids)
		return []domain.Tour{parent}, nil
	}
	svc := newTourService(t, r, 1)

	res, err := svc.ExpandAtWorkSubtours(context.Background(), []domain.Choice{
		{OwnerID: parent.ID, Alternative: "eat"},
	})

	require.NoError(t, err)
	require.Len(t, res.Tours, 1)
	sub := res.Tours[0]
	assert.Equal(t, personTourID(t, 1, "eat1_1"), sub.ID)
	assert.Equal(t, int64(1), sub.PersonID)
	assert.Equal(t, 1, sub.ParentTourNum)
	require.NotNil(t, sub.ParentTourID)
	assert.Equal(t, parent.ID, *sub.ParentTourID)
	assert.Equal(t, domain.RunSubtour, res.Run.Kind)
}

func TestTourService_ExpandAtWorkSubtours_UnknownParent(t *testing.T) {
	r := newRecordingRepo()
	r.listByIDs = func(context.Context, domain.IDSpace, []int64) ([]domain.Tour, error) {
		return nil, nil
	}
	svc := newTourService(t, r, 1)

	_, err := svc.ExpandAtWorkSubtours(context.Background(), []domain.Choice{{OwnerID: 99, Alternative: "eat"}})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, r.saved)
}

// ---- WorkToursFor ----------------------------------------------------------

func TestWorkToursFor_FollowsChoiceOrder(t *testing.T) {
	parents := []domain.Tour{workParent(36, 1, 1), workParent(55, 2, 2)}

	got, err := service.WorkToursFor(parents, []domain.Choice{
		{OwnerID: 55, Alternative: "business2"},
		{OwnerID: 36, Alternative: "eat"},
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.WorkTour{
		{TourID: 55, PersonID: 2, TourNum: 2, AtWorkSubtourFrequency: "business2"},
		{TourID: 36, PersonID: 1, TourNum: 1, AtWorkSubtourFrequency: "eat"},
	}, got)
}

func TestWorkToursFor_ParentMustBeMandatoryWork(t *testing.T) {
	school := workParent(32, 1, 1)
	school.TourType = "school"

	_, err := service.WorkToursFor([]domain.Tour{school}, []domain.Choice{{OwnerID: 32, Alternative: "eat"}})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- ExpandJoint -----------------------------------------------------------

func TestTourService_ExpandJoint(t *testing.T) {
	r := newRecordingRepo()
	alts := shippedAlts(t)
	svc := newTourService(t, r, 1)

	res, err := svc.ExpandJoint(context.Background(), []domain.Choice{
		{OwnerID: 5, Alternative: "1_Shop"},
		{OwnerID: 6, Alternative: ""},
	})

	require.NoError(t, err)
	space, err := tours.JointSpace(alts.Joint)
	require.NoError(t, err)
	rank, ok := space.Rank("shopping1")
	require.True(t, ok)

	require.Len(t, res.Tours, 1)
	assert.Equal(t, 5*int64(space.Len())+int64(rank), res.Tours[0].ID)
	assert.Equal(t, domain.SpaceJoint, res.Tours[0].Space)
	assert.Equal(t, domain.CategoryNone, res.Tours[0].Category)
	assert.Equal(t, domain.SpaceJoint, res.Run.Space)
	assert.Equal(t, 1, res.Run.Owners)
}

// ---- Get / List / Runs -----------------------------------------------------

func TestTourService_Get(t *testing.T) {
	r := newRecordingRepo()
	r.getByID = func(_ context.Context, space domain.IDSpace, id int64) (domain.Tour, error) {
		if space == domain.SpacePerson && id == 36 {
			return domain.Tour{ID: 36}, nil
		}
		return domain.Tour{}, domain.ErrNotFound
	}
	svc := newTourService(t, r, 1)

	got, err := svc.Get(context.Background(), domain.SpacePerson, 36)
	require.NoError(t, err)
	assert.Equal(t, int64(36), got.ID)

	_, err = svc.Get(context.Background(), domain.SpaceJoint, 36)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "household", 36)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTourService_List_RejectsUnknownCategory(t *testing.T) {
	svc := newTourService(t, newRecordingRepo(), 1)
	bad := domain.Category("leisure")

	_, _, err := svc.List(context.Background(), domain.TourFilter{Category: &bad}, domain.NewPaginationParams(nil, nil))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTourService_List_PassesFilterThrough(t *testing.T) {
	r := newRecordingRepo()
	owner := int64(7)
	r.listPaged = func(_ context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error) {
		assert.Equal(t, domain.SpacePerson, f.Space)
		assert.Equal(t, &owner, f.OwnerID)
		assert.Equal(t, 2, p.Page)
		return []domain.Tour{{ID: 1}}, 41, nil
	}
	svc := newTourService(t, r, 1)
	page := 2

	got, total, err := svc.List(context.Background(),
		domain.TourFilter{Space: domain.SpacePerson, OwnerID: &owner},
		domain.NewPaginationParams(&page, nil))

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(41), total)
}

func TestTourService_Runs(t *testing.T) {
	r := newRecordingRepo()
	r.listRuns = func(context.Context) ([]domain.ExpansionRun, error) {
		return []domain.ExpansionRun{{Kind: domain.RunJoint}}, nil
	}
	svc := newTourService(t, r, 1)

	runs, err := svc.Runs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunJoint, runs[0].Kind)
}
