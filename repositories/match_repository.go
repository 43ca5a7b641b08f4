package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/openleague/league-system/models"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchDivisionInvalid = errors.New("match division conflict or invalid")
	ErrMatchEntryInvalid    = errors.New("match entry conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByDivision(ctx context.Context, divisionID int, statusFilter *models.MatchStatus) ([]*models.Match, error)
	ListByStatus(ctx context.Context, status models.MatchStatus) ([]*models.Match, error)
	CountByDivision(ctx context.Context, exec SQLExecutor, divisionID int) (int, error)
	UpdateScoreState(ctx context.Context, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (division_id, home_entry_id, away_entry_id, scheduled_at, status, round_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		match.DivisionID,
		match.HomeEntryID,
		match.AwayEntryID,
		match.ScheduledAt,
		match.Status,
		match.RoundNumber,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "matches_division_id_fkey":
				return ErrMatchDivisionInvalid
			case "matches_home_entry_id_fkey", "matches_away_entry_id_fkey":
				return ErrMatchEntryInvalid
			}
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

const matchSelectSQL = `
	SELECT id, division_id, home_entry_id, away_entry_id, home_score, away_score,
	       first_report_home_score, first_report_away_score, first_reporter_entry_id,
	       scheduled_at, status, round_number, created_at, updated_at
	FROM matches`

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := scanMatch(r.db.QueryRowContext(ctx, matchSelectSQL+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByDivision(ctx context.Context, divisionID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(matchSelectSQL)
	queryBuilder.WriteString(` WHERE division_id = $1`)

	args := []interface{}{divisionID}
	if statusFilter != nil {
		queryBuilder.WriteString(` AND status = $` + strconv.Itoa(len(args)+1))
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(` ORDER BY round_number ASC, id ASC`)

	return r.queryMatches(ctx, queryBuilder.String(), args...)
}

func (r *postgresMatchRepository) ListByStatus(ctx context.Context, status models.MatchStatus) ([]*models.Match, error) {
	return r.queryMatches(ctx, matchSelectSQL+` WHERE status = $1 ORDER BY updated_at ASC, id ASC`, status)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByDivision(ctx context.Context, exec SQLExecutor, divisionID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE division_id = $1`, divisionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for division %d: %w", divisionID, err)
	}
	return count, nil
}

// UpdateScoreState persists the score, first-report and status fields of a
// match after a lifecycle transition. updated_at is bumped by the database.
func (r *postgresMatchRepository) UpdateScoreState(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2,
		    first_report_home_score = $3, first_report_away_score = $4, first_reporter_entry_id = $5,
		    status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		match.HomeScore,
		match.AwayScore,
		match.FirstReportHomeScore,
		match.FirstReportAwayScore,
		match.FirstReporterEntryID,
		match.Status,
		match.ID,
	).Scan(&match.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to update match %d score state: %w", match.ID, err)
	}
	return nil
}

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.DivisionID, &m.HomeEntryID, &m.AwayEntryID, &m.HomeScore, &m.AwayScore,
		&m.FirstReportHomeScore, &m.FirstReportAwayScore, &m.FirstReporterEntryID,
		&m.ScheduledAt, &m.Status, &m.RoundNumber, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
