package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tourgen/internal/domain"
)

func (r *pgTourRepo) ListRuns(ctx context.Context) ([]domain.ExpansionRun, error) {
	const q = `
		SELECT id, kind, id_space, owners, tours, created_at
		FROM expansion_runs
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListRuns: %w", err)
	}
	defer rows.Close()

	runs := []domain.ExpansionRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TourRepo.ListRuns: scan: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListRuns: rows: %w", err)
	}
	return runs, nil
}

// scanRun maps a single database row into a domain.ExpansionRun.
func scanRun(s scanner) (domain.ExpansionRun, error) {
	var (
		run   domain.ExpansionRun
		id    pgtype.UUID
		kind  string
		space string
	)
	err := s.Scan(&id, &kind, &space, &run.Owners, &run.Tours, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExpansionRun{}, domain.ErrNotFound
		}
		return domain.ExpansionRun{}, err
	}
	run.ID = uuid.UUID(id.Bytes)
	run.Kind = domain.RunKind(kind)
	run.Space = domain.IDSpace(space)
	return run, nil
}
