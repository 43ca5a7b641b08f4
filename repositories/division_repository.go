package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/openleague/league-system/models"
)

var (
	ErrDivisionNotFound      = errors.New("division not found")
	ErrDivisionLeagueInvalid = errors.New("division league conflict or invalid")
)

type DivisionRepository interface {
	Create(ctx context.Context, division *models.Division) error
	GetByID(ctx context.Context, id int) (*models.Division, error)
	List(ctx context.Context) ([]*models.Division, error)
	// LockByID takes a row lock on the division for the lifetime of the
	// surrounding transaction, serializing schedule generation per division.
	LockByID(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresDivisionRepository struct {
	db *sql.DB
}

func NewPostgresDivisionRepository(db *sql.DB) DivisionRepository {
	return &postgresDivisionRepository{db: db}
}

func (r *postgresDivisionRepository) Create(ctx context.Context, division *models.Division) error {
	query := `
		INSERT INTO divisions (name, platform, league_id, slots)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		division.Name,
		division.Platform,
		division.LeagueID,
		division.Slots,
	).Scan(&division.ID, &division.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "divisions_league_id_fkey" {
			return ErrDivisionLeagueInvalid
		}
		return fmt.Errorf("failed to create division: %w", err)
	}
	return nil
}

func (r *postgresDivisionRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) error {
	executor := exec
	if executor == nil {
		executor = r.db
	}
	var lockedID int
	err := executor.QueryRowContext(ctx, `SELECT id FROM divisions WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDivisionNotFound
		}
		return fmt.Errorf("failed to lock division %d: %w", id, err)
	}
	return nil
}

const divisionSelectSQL = `
	SELECT d.id, d.name, d.platform, d.league_id, d.slots, d.created_at,
	       l.id, l.title, l.game, l.rules_url, l.season_id,
	       s.id, s.name, s.start_date, s.end_date, s.is_open
	FROM divisions d
	JOIN leagues l ON d.league_id = l.id
	JOIN seasons s ON l.season_id = s.id`

func (r *postgresDivisionRepository) GetByID(ctx context.Context, id int) (*models.Division, error) {
	row := r.db.QueryRowContext(ctx, divisionSelectSQL+` WHERE d.id = $1`, id)

	division, err := scanDivision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to scan division %d: %w", id, err)
	}
	return division, nil
}

func (r *postgresDivisionRepository) List(ctx context.Context) ([]*models.Division, error) {
	rows, err := r.db.QueryContext(ctx, divisionSelectSQL+` ORDER BY d.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query divisions: %w", err)
	}
	defer rows.Close()

	divisions := make([]*models.Division, 0)
	for rows.Next() {
		division, scanErr := scanDivision(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan division row: %w", scanErr)
		}
		divisions = append(divisions, division)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during division rows iteration: %w", err)
	}
	return divisions, nil
}

func scanDivision(rowScanner interface{ Scan(...interface{}) error }) (*models.Division, error) {
	var d models.Division
	var l models.League
	var s models.Season
	err := rowScanner.Scan(
		&d.ID, &d.Name, &d.Platform, &d.LeagueID, &d.Slots, &d.CreatedAt,
		&l.ID, &l.Title, &l.Game, &l.RulesURL, &l.SeasonID,
		&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsOpen,
	)
	if err != nil {
		return nil, err
	}
	l.Season = &s
	d.League = &l
	return &d, nil
}
