package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
	"github.com/openleague/league-system/storage"
)

type SubmitEvidenceInput struct {
	MatchID     int
	EvidenceURL string
	SubmittedBy string
	Description *string
}

type UploadEvidenceFileInput struct {
	MatchID     int
	FileName    string
	ContentType string
	Body        io.Reader
	SubmittedBy string
	Description *string
}

type EvidenceService interface {
	SubmitEvidence(ctx context.Context, input SubmitEvidenceInput) (*models.Evidence, error)
	ListEvidence(ctx context.Context, matchID int) ([]*models.Evidence, error)
	UploadEvidenceFile(ctx context.Context, input UploadEvidenceFileInput) (*models.Evidence, error)
}

type evidenceService struct {
	evidenceRepo repositories.EvidenceRepository
	matchRepo    repositories.MatchRepository
	uploader     storage.FileUploader // nil when uploads are not configured
}

func NewEvidenceService(
	evidenceRepo repositories.EvidenceRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
) EvidenceService {
	return &evidenceService{
		evidenceRepo: evidenceRepo,
		matchRepo:    matchRepo,
		uploader:     uploader,
	}
}

// SubmitEvidence appends a dispute-supporting link to the match's evidence
// log. The log is append-only: no limit per match, no deduplication.
func (s *evidenceService) SubmitEvidence(ctx context.Context, input SubmitEvidenceInput) (*models.Evidence, error) {
	if !isAbsoluteURL(input.EvidenceURL) {
		return nil, ErrInvalidEvidenceURL
	}

	if err := s.checkMatch(ctx, input.MatchID); err != nil {
		return nil, err
	}

	evidence := &models.Evidence{
		MatchID:     input.MatchID,
		SubmittedBy: input.SubmittedBy,
		EvidenceURL: input.EvidenceURL,
		Description: input.Description,
	}
	if err := s.evidenceRepo.Create(ctx, evidence); err != nil {
		if errors.Is(err, repositories.ErrEvidenceMatchInvalid) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}
	return evidence, nil
}

func (s *evidenceService) ListEvidence(ctx context.Context, matchID int) ([]*models.Evidence, error) {
	if err := s.checkMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.evidenceRepo.ListByMatch(ctx, matchID)
}

// UploadEvidenceFile pushes a screenshot or clip to object storage and
// records its public URL as an evidence row.
func (s *evidenceService) UploadEvidenceFile(ctx context.Context, input UploadEvidenceFileInput) (*models.Evidence, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}

	if err := s.checkMatch(ctx, input.MatchID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("evidence/%d/%s%s", input.MatchID, uuid.NewString(), path.Ext(input.FileName))
	result, err := s.uploader.Upload(ctx, key, input.ContentType, input.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload evidence file for match %d: %w", input.MatchID, err)
	}

	return s.SubmitEvidence(ctx, SubmitEvidenceInput{
		MatchID:     input.MatchID,
		EvidenceURL: result.Location,
		SubmittedBy: input.SubmittedBy,
		Description: input.Description,
	})
}

func (s *evidenceService) checkMatch(ctx context.Context, matchID int) error {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
