package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/openleague/league-system/models"
)

var ErrEvidenceMatchInvalid = errors.New("evidence match conflict or invalid")

type EvidenceRepository interface {
	Create(ctx context.Context, evidence *models.Evidence) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Evidence, error)
}

type postgresEvidenceRepository struct {
	db *sql.DB
}

func NewPostgresEvidenceRepository(db *sql.DB) EvidenceRepository {
	return &postgresEvidenceRepository{db: db}
}

func (r *postgresEvidenceRepository) Create(ctx context.Context, evidence *models.Evidence) error {
	query := `
		INSERT INTO evidence (match_id, submitted_by, evidence_url, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		evidence.MatchID,
		evidence.SubmittedBy,
		evidence.EvidenceURL,
		evidence.Description,
	).Scan(&evidence.ID, &evidence.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "evidence_match_id_fkey" {
			return ErrEvidenceMatchInvalid
		}
		return fmt.Errorf("failed to create evidence: %w", err)
	}
	return nil
}

func (r *postgresEvidenceRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Evidence, error) {
	query := `
		SELECT id, match_id, submitted_by, evidence_url, description, created_at
		FROM evidence
		WHERE match_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence for match %d: %w", matchID, err)
	}
	defer rows.Close()

	records := make([]*models.Evidence, 0)
	for rows.Next() {
		var e models.Evidence
		if scanErr := rows.Scan(&e.ID, &e.MatchID, &e.SubmittedBy, &e.EvidenceURL, &e.Description, &e.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan evidence row: %w", scanErr)
		}
		records = append(records, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during evidence rows iteration: %w", err)
	}
	return records, nil
}
