package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name                string
	Species             string
	Breed               string
	Sex                 string
	DescriptionPublic   string
	DescriptionInternal string
	PhotoURL            string
}

func (s *Service) Create(ctx context.Context, orgID string, in CreateInput) (Animal, error) {
	if strings.TrimSpace(orgID) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Species) == "" {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:                  uuid.NewString(),
		OrgID:               orgID,
		Name:                strings.TrimSpace(in.Name),
		Species:             strings.TrimSpace(in.Species),
		Breed:               strings.TrimSpace(in.Breed),
		Sex:                 strings.TrimSpace(in.Sex),
		Status:              StatusIntake,
		DescriptionPublic:   strings.TrimSpace(in.DescriptionPublic),
		DescriptionInternal: strings.TrimSpace(in.DescriptionInternal),
		PhotoURL:            strings.TrimSpace(in.PhotoURL),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, orgID, id string) (Animal, error) {
	if strings.TrimSpace(orgID) == "" || strings.TrimSpace(id) == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID string, f ListFilter) ([]Animal, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, orgID, f)
}
