package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openleague/league-system/models"
)

var ErrLeagueNotFound = errors.New("league not found")

type LeagueRepository interface {
	GetByID(ctx context.Context, id int) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

const leagueSelectSQL = `
	SELECT l.id, l.title, l.game, l.rules_url, l.season_id,
	       s.id, s.name, s.start_date, s.end_date, s.is_open
	FROM leagues l
	JOIN seasons s ON l.season_id = s.id`

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	row := r.db.QueryRowContext(ctx, leagueSelectSQL+` WHERE l.id = $1`, id)

	league, err := scanLeague(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league %d: %w", id, err)
	}
	return league, nil
}

func (r *postgresLeagueRepository) List(ctx context.Context) ([]*models.League, error) {
	rows, err := r.db.QueryContext(ctx, leagueSelectSQL+` ORDER BY l.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		league, scanErr := scanLeague(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", scanErr)
		}
		leagues = append(leagues, league)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during league rows iteration: %w", err)
	}
	return leagues, nil
}

func scanLeague(rowScanner interface{ Scan(...interface{}) error }) (*models.League, error) {
	var l models.League
	var s models.Season
	err := rowScanner.Scan(
		&l.ID, &l.Title, &l.Game, &l.RulesURL, &l.SeasonID,
		&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.IsOpen,
	)
	if err != nil {
		return nil, err
	}
	l.Season = &s
	return &l, nil
}
