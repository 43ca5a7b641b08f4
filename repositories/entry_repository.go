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
	ErrEntryNotFound        = errors.New("entry not found")
	ErrEntryConflict        = errors.New("entry conflict: user already registered for this division")
	ErrEntryUserInvalid     = errors.New("entry user conflict or invalid")
	ErrEntryDivisionInvalid = errors.New("entry division conflict or invalid")
)

type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id int) (*models.Entry, error)
	FindByDivisionAndUser(ctx context.Context, divisionID, userID int) (*models.Entry, error)
	ListByDivision(ctx context.Context, divisionID int) ([]*models.Entry, error)
	CountByDivision(ctx context.Context, exec SQLExecutor, divisionID int) (int, error)
	UpdatePaid(ctx context.Context, id int, paid bool) error
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

func (r *postgresEntryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (division_id, user_id, paid, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.DivisionID,
		entry.UserID,
		entry.Paid,
		entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "entries_division_id_user_id_key" {
					return ErrEntryConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "entries_user_id_fkey":
					return ErrEntryUserInvalid
				case "entries_division_id_fkey":
					return ErrEntryDivisionInvalid
				}
			}
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

const entrySelectSQL = `
	SELECT e.id, e.division_id, e.user_id, e.paid, e.status, e.created_at,
	       u.id, u.name, u.gamer_tag, u.email, u.role, u.created_at
	FROM entries e
	JOIN users u ON e.user_id = u.id`

func (r *postgresEntryRepository) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	return r.findOne(ctx, entrySelectSQL+` WHERE e.id = $1`, id)
}

func (r *postgresEntryRepository) FindByDivisionAndUser(ctx context.Context, divisionID, userID int) (*models.Entry, error) {
	return r.findOne(ctx, entrySelectSQL+` WHERE e.division_id = $1 AND e.user_id = $2`, divisionID, userID)
}

func (r *postgresEntryRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Entry, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	return entry, nil
}

func (r *postgresEntryRepository) ListByDivision(ctx context.Context, divisionID int) ([]*models.Entry, error) {
	query := entrySelectSQL + ` WHERE e.division_id = $1 ORDER BY e.created_at ASC, e.id ASC`
	rows, err := r.db.QueryContext(ctx, query, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for division %d: %w", divisionID, err)
	}
	defer rows.Close()

	entries := make([]*models.Entry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during entry rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresEntryRepository) CountByDivision(ctx context.Context, exec SQLExecutor, divisionID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE division_id = $1`, divisionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries for division %d: %w", divisionID, err)
	}
	return count, nil
}

func (r *postgresEntryRepository) UpdatePaid(ctx context.Context, id int, paid bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE entries SET paid = $1 WHERE id = $2`, paid, id)
	if err != nil {
		return fmt.Errorf("failed to update entry payment flag: %w", err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func scanEntry(rowScanner interface{ Scan(...interface{}) error }) (*models.Entry, error) {
	var e models.Entry
	var u models.User
	err := rowScanner.Scan(
		&e.ID, &e.DivisionID, &e.UserID, &e.Paid, &e.Status, &e.CreatedAt,
		&u.ID, &u.Name, &u.GamerTag, &u.Email, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.User = &u
	return &e, nil
}
