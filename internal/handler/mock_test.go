package handler_test

import (
	"context"
	"net/http"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/handler"
)

// mockTourServicer is a hand-written test double for handler.TourServicer.
// Each method is a function field; set only the ones your test needs.
type mockTourServicer struct {
	expandMandatory    func(ctx context.Context, persons []domain.Person) (domain.ExpansionResult, error)
	expandNonMandatory func(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)
	expandSubtours     func(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)
	expandJoint        func(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)
	get                func(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error)
	list               func(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error)
	runs               func(ctx context.Context) ([]domain.ExpansionRun, error)
}

func (m *mockTourServicer) ExpandMandatory(ctx context.Context, persons []domain.Person) (domain.ExpansionResult, error) {
	return m.expandMandatory(ctx, persons)
}
func (m *mockTourServicer) ExpandNonMandatory(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error) {
	return m.expandNonMandatory(ctx, choices)
}
func (m *mockTourServicer) ExpandAtWorkSubtours(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error) {
	return m.expandSubtours(ctx, choices)
}
func (m *mockTourServicer) ExpandJoint(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error) {
	return m.expandJoint(ctx, choices)
}
func (m *mockTourServicer) Get(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error) {
	return m.get(ctx, space, id)
}
func (m *mockTourServicer) List(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error) {
	return m.list(ctx, f, p)
}
func (m *mockTourServicer) Runs(ctx context.Context) ([]domain.ExpansionRun, error) {
	return m.runs(ctx)
}

// compile-time check: mockTourServicer must satisfy handler.TourServicer.
var _ handler.TourServicer = (*mockTourServicer)(nil)

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.Tour, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.Tour, error) {
	return m.export(ctx)
}

// compile-time check: mockExportServicer must satisfy handler.ExportServicer.
var _ handler.ExportServicer = (*mockExportServicer)(nil)

// newHTTPHandler wires a Server around the given mocks. Either may be nil
// when the test does not reach it.
func newHTTPHandler(tours handler.TourServicer, export handler.ExportServicer) http.Handler {
	return handler.NewServer(tours, export, nil).Handler()
}
