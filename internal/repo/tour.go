// Package repo contains all database access logic for the tour service.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tourgen/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. Begin on a
// pgx.Tx opens a savepoint, so SaveRun stays atomic in both cases.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// TourRepo defines the persistence operations for expanded tours.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TourRepo interface {
	// SaveRun stores run and bulk-copies its tours in one transaction.
	// Runs of the same kind saved earlier are deleted together with their
	// tours first, so re-running an expansion replaces its previous output.
	// Returns the run with the DB-generated created_at populated.
	SaveRun(ctx context.Context, run domain.ExpansionRun, tours []domain.Tour) (domain.ExpansionRun, error)

	// GetByID retrieves a single tour by id space and tour id.
	// Returns domain.ErrNotFound if no such tour exists.
	GetByID(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error)

	// ListByIDs returns the tours of space whose ids are in ids, ordered by id.
	// Unknown ids are skipped.
	ListByIDs(ctx context.Context, space domain.IDSpace, ids []int64) ([]domain.Tour, error)

	// ListPaged returns one page of tours matching f ordered by (id_space,
	// tour_id), and the total number of matching tours.
	ListPaged(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error)

	// ListAll returns every stored tour ordered by (id_space, tour_id).
	ListAll(ctx context.Context) ([]domain.Tour, error)

	// ListRuns returns the stored expansion runs, newest first.
	ListRuns(ctx context.Context) ([]domain.ExpansionRun, error)
}

// pgTourRepo is the Postgres implementation of TourRepo.
type pgTourRepo struct {
	db db
}

// NewTourRepo constructs a TourRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTourRepo(db db) TourRepo {
	return &pgTourRepo{db: db}
}

// tourColumns is the COPY column list; copyRow must produce values in this order.
var tourColumns = []string{
	"id_space", "tour_id", "run_id", "owner_kind", "owner_id",
	"person_id", "household_id", "parent_tour_id", "parent_tour_num",
	"tour_type", "tour_type_num", "tour_type_count", "tour_num", "tour_count",
	"tour_category", "mandatory", "non_mandatory", "destination",
}

const selectTours = `
	SELECT id_space, tour_id, owner_kind, owner_id,
	       person_id, household_id, parent_tour_id, parent_tour_num,
	       tour_type, tour_type_num, tour_type_count, tour_num, tour_count,
	       tour_category, mandatory, non_mandatory, destination
	FROM tours`

func (r *pgTourRepo) SaveRun(ctx context.Context, run domain.ExpansionRun, tours []domain.Tour) (domain.ExpansionRun, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.ExpansionRun{}, fmt.Errorf("repo.TourRepo.SaveRun: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM expansion_runs WHERE kind = @kind`,
		pgx.NamedArgs{"kind": string(run.Kind)}); err != nil {
		return domain.ExpansionRun{}, fmt.Errorf("repo.TourRepo.SaveRun: delete previous: %w", err)
	}

	const q = `
		INSERT INTO expansion_runs (id, kind, id_space, owners, tours)
		VALUES (@id, @kind, @id_space, @owners, @tours)
		RETURNING id, kind, id_space, owners, tours, created_at`

	row := tx.QueryRow(ctx, q, pgx.NamedArgs{
		"id":       run.ID,
		"kind":     string(run.Kind),
		"id_space": string(run.Space),
		"owners":   run.Owners,
		"tours":    run.Tours,
	})
	saved, err := scanRun(row)
	if err != nil {
		return domain.ExpansionRun{}, fmt.Errorf("repo.TourRepo.SaveRun: insert run: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"tours"}, tourColumns,
		pgx.CopyFromSlice(len(tours), func(i int) ([]any, error) {
			return copyRow(run, tours[i]), nil
		}))
	if err != nil {
		return domain.ExpansionRun{}, fmt.Errorf("repo.TourRepo.SaveRun: copy tours: %w", err)
	}
	if n != int64(len(tours)) {
		return domain.ExpansionRun{}, fmt.Errorf("repo.TourRepo.SaveRun: copied %d of %d tours", n, len(tours))
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ExpansionRun{}, fmt.Errorf("repo.TourRepo.SaveRun: commit: %w", err)
	}
	return saved, nil
}

func (r *pgTourRepo) GetByID(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error) {
	const q = selectTours + `
	WHERE id_space = @id_space AND tour_id = @tour_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id_space": string(space), "tour_id": id})
	t, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetByID: %w", err)
	}
	return t, nil
}

func (r *pgTourRepo) ListByIDs(ctx context.Context, space domain.IDSpace, ids []int64) ([]domain.Tour, error) {
	const q = selectTours + `
	WHERE id_space = @id_space AND tour_id = ANY(@ids)
	ORDER BY tour_id`

	tours, err := r.list(ctx, q, pgx.NamedArgs{"id_space": string(space), "ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListByIDs: %w", err)
	}
	return tours, nil
}

// filterClause matches rows against a domain.TourFilter. NULL parameters
// disable their condition.
const filterClause = `
	WHERE (@id_space::text IS NULL OR id_space = @id_space)
	  AND (@category::text IS NULL OR tour_category = @category)
	  AND (@owner_id::bigint IS NULL OR owner_id = @owner_id)`

func filterArgs(f domain.TourFilter) pgx.NamedArgs {
	args := pgx.NamedArgs{"id_space": nil, "category": nil, "owner_id": nil}
	if f.Space != "" {
		args["id_space"] = string(f.Space)
	}
	if f.Category != nil {
		args["category"] = string(*f.Category)
	}
	if f.OwnerID != nil {
		args["owner_id"] = *f.OwnerID
	}
	return args
}

func (r *pgTourRepo) ListPaged(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error) {
	args := filterArgs(f)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tours`+filterClause, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	q := selectTours + filterClause + `
	ORDER BY id_space, tour_id
	LIMIT @limit OFFSET @offset`

	tours, err := r.list(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TourRepo.ListPaged: %w", err)
	}
	return tours, total, nil
}

func (r *pgTourRepo) ListAll(ctx context.Context) ([]domain.Tour, error) {
	tours, err := r.list(ctx, selectTours+` ORDER BY id_space, tour_id`, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.ListAll: %w", err)
	}
	return tours, nil
}

func (r *pgTourRepo) list(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Tour, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tours := []domain.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return tours, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// copyRow encodes a tour in tourColumns order. Owner columns that do not
// apply to the tour are written as NULL.
func copyRow(run domain.ExpansionRun, t domain.Tour) []any {
	return []any{
		string(t.Space), t.ID, run.ID, t.Owner.String(), t.OwnerID,
		nullIfZero(t.PersonID), nullIfZero(t.HouseholdID), t.ParentTourID, nullIfZero(int64(t.ParentTourNum)),
		t.TourType, t.TourTypeNum, t.TourTypeCount, t.TourNum, t.TourCount,
		string(t.Category), t.Mandatory, t.NonMandatory, t.Destination,
	}
}

func nullIfZero(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

// scanTour maps a single database row into a domain.Tour.
func scanTour(s scanner) (domain.Tour, error) {
	var (
		t             domain.Tour
		space         string
		ownerKind     string
		category      string
		personID      pgtype.Int8
		householdID   pgtype.Int8
		parentTourID  pgtype.Int8
		parentTourNum pgtype.Int4
		destination   pgtype.Int8
	)

	err := s.Scan(&space, &t.ID, &ownerKind, &t.OwnerID,
		&personID, &householdID, &parentTourID, &parentTourNum,
		&t.TourType, &t.TourTypeNum, &t.TourTypeCount, &t.TourNum, &t.TourCount,
		&category, &t.Mandatory, &t.NonMandatory, &destination)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tour{}, domain.ErrNotFound
		}
		return domain.Tour{}, err
	}

	t.Space = domain.IDSpace(space)
	t.Category = domain.Category(category)
	kind, ok := domain.ParseOwnerKind(ownerKind)
	if !ok {
		return domain.Tour{}, fmt.Errorf("unknown owner kind %q", ownerKind)
	}
	t.Owner = kind
	t.PersonID = personID.Int64
	t.HouseholdID = householdID.Int64
	t.ParentTourNum = int(parentTourNum.Int32)
	if parentTourID.Valid {
		v := parentTourID.Int64
		t.ParentTourID = &v
	}
	if destination.Valid {
		v := destination.Int64
		t.Destination = &v
	}
	return t, nil
}
