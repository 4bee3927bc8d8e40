package service

import (
	"context"
	"fmt"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/repo"
)

// ExportService assembles a full flat export of every stored tour.
type ExportService struct {
	tours repo.TourRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(tours repo.TourRepo) *ExportService {
	return &ExportService{tours: tours}
}

// Export returns every stored tour, person-space tours first, each space
// ordered by tour id.
func (s *ExportService) Export(ctx context.Context) ([]domain.Tour, error) {
	out, err := s.tours.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return out, nil
}
