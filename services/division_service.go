package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

type CreateDivisionInput struct {
	Name     string `json:"name" validate:"required"`
	Platform string `json:"platform" validate:"required"`
	LeagueID int    `json:"league_id" validate:"required,gt=0"`
	Slots    int    `json:"slots" validate:"gte=0"`
}

type DivisionService interface {
	CreateDivision(ctx context.Context, input CreateDivisionInput) (*models.Division, error)
	GetDivisionByID(ctx context.Context, id int) (*models.Division, error)
	ListDivisions(ctx context.Context) ([]*models.Division, error)
	ListLeagues(ctx context.Context) ([]*models.League, error)
	Register(ctx context.Context, divisionID, userID int) (*models.Entry, error)
	ListEntries(ctx context.Context, divisionID int) ([]*models.Entry, error)
	MarkEntryPaid(ctx context.Context, entryID int, paid bool) (*models.Entry, error)
}

type divisionService struct {
	divisionRepo repositories.DivisionRepository
	entryRepo    repositories.EntryRepository
	leagueRepo   repositories.LeagueRepository
	userRepo     repositories.UserRepository
	validate     *validator.Validate
}

func NewDivisionService(
	divisionRepo repositories.DivisionRepository,
	entryRepo repositories.EntryRepository,
	leagueRepo repositories.LeagueRepository,
	userRepo repositories.UserRepository,
) DivisionService {
	return &divisionService{
		divisionRepo: divisionRepo,
		entryRepo:    entryRepo,
		leagueRepo:   leagueRepo,
		userRepo:     userRepo,
		validate:     validator.New(),
	}
}

func (s *divisionService) CreateDivision(ctx context.Context, input CreateDivisionInput) (*models.Division, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.leagueRepo.GetByID(ctx, input.LeagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to check league %d: %w", input.LeagueID, err)
	}

	division := &models.Division{
		Name:     input.Name,
		Platform: input.Platform,
		LeagueID: input.LeagueID,
		Slots:    input.Slots,
	}
	if err := s.divisionRepo.Create(ctx, division); err != nil {
		if errors.Is(err, repositories.ErrDivisionLeagueInvalid) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to create division: %w", err)
	}
	return division, nil
}

func (s *divisionService) GetDivisionByID(ctx context.Context, id int) (*models.Division, error) {
	division, err := s.divisionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division %d: %w", id, err)
	}

	entries, err := s.entryRepo.ListByDivision(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for division %d: %w", id, err)
	}
	division.Entries = entries
	return division, nil
}

func (s *divisionService) ListDivisions(ctx context.Context) ([]*models.Division, error) {
	return s.divisionRepo.List(ctx)
}

func (s *divisionService) ListLeagues(ctx context.Context) ([]*models.League, error) {
	return s.leagueRepo.List(ctx)
}

// Register creates an entry for the user in the division. The slot cap and
// the one-entry-per-user rule are both enforced here, not by the data model;
// the unique constraint on (division_id, user_id) backstops a racing
// duplicate registration.
func (s *divisionService) Register(ctx context.Context, divisionID, userID int) (*models.Entry, error) {
	division, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division %d: %w", divisionID, err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check user %d: %w", userID, err)
	}

	count, err := s.entryRepo.CountByDivision(ctx, nil, divisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries for division %d: %w", divisionID, err)
	}
	if count >= division.Slots {
		return nil, ErrDivisionFull
	}

	existing, err := s.entryRepo.FindByDivisionAndUser(ctx, divisionID, userID)
	if err != nil && !errors.Is(err, repositories.ErrEntryNotFound) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	entry := &models.Entry{
		DivisionID: divisionID,
		UserID:     userID,
		Paid:       false,
		Status:     models.EntryStatusConfirmed,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repositories.ErrEntryConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

func (s *divisionService) ListEntries(ctx context.Context, divisionID int) ([]*models.Entry, error) {
	if _, err := s.divisionRepo.GetByID(ctx, divisionID); err != nil {
		if errors.Is(err, repositories.ErrDivisionNotFound) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get division %d: %w", divisionID, err)
	}
	return s.entryRepo.ListByDivision(ctx, divisionID)
}

func (s *divisionService) MarkEntryPaid(ctx context.Context, entryID int, paid bool) (*models.Entry, error) {
	if err := s.entryRepo.UpdatePaid(ctx, entryID, paid); err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to update entry %d payment: %w", entryID, err)
	}
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload entry %d: %w", entryID, err)
	}
	return entry, nil
}
