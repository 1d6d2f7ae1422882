package fosters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("foster profile already exists")
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
	ContactName         string
	ContactEmail        string
	ExperienceLevel     string
	PreferredSpecies    string
	PreferredAges       string
	MaxCapacity         int
	CanHandleMedical    bool
	CanHandleBehavioral bool
	IsAvailable         *bool // nil => true
}

// Create da de alta el perfil del caller. Único por (org, user).
func (s *Service) Create(ctx context.Context, orgID, userID string, in CreateInput) (Profile, error) {
	orgID = strings.TrimSpace(orgID)
	userID = strings.TrimSpace(userID)
	if orgID == "" || userID == "" {
		return Profile{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByUser(ctx, orgID, userID); err == nil {
		return Profile{}, ErrAlreadyExists
	}

	level := ExperienceLevel(strings.TrimSpace(in.ExperienceLevel))
	if level == "" {
		level = ExperienceNone
	}
	if !ValidExperienceLevel(level) {
		return Profile{}, ErrInvalidInput
	}

	maxCap := in.MaxCapacity
	if maxCap == 0 {
		maxCap = 1
	}
	if maxCap < 1 {
		return Profile{}, ErrInvalidInput
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	now := s.now()
	p := Profile{
		ID:                  uuid.NewString(),
		UserID:              userID,
		OrgID:               orgID,
		ContactName:         strings.TrimSpace(in.ContactName),
		ContactEmail:        strings.TrimSpace(in.ContactEmail),
		ExperienceLevel:     level,
		PreferredSpecies:    strings.TrimSpace(in.PreferredSpecies),
		PreferredAges:       strings.TrimSpace(in.PreferredAges),
		MaxCapacity:         maxCap,
		CurrentCapacity:     0,
		CanHandleMedical:    in.CanHandleMedical,
		CanHandleBehavioral: in.CanHandleBehavioral,
		IsAvailable:         available,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, orgID, id string) (Profile, error) {
	if strings.TrimSpace(orgID) == "" || strings.TrimSpace(id) == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, orgID, id)
}

func (s *Service) GetMine(ctx context.Context, orgID, userID string) (Profile, error) {
	if strings.TrimSpace(orgID) == "" || strings.TrimSpace(userID) == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByUser(ctx, orgID, userID)
}

func (s *Service) List(ctx context.Context, orgID string, f ListFilter) ([]Profile, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, orgID, f)
}

// UpdateInput aplica PATCH real: nil = no tocar.
// CurrentCapacity no es editable: lo deriva el ledger del historial de
// placements (ver decisión en DESIGN.md).
type UpdateInput struct {
	ContactName         *string
	ContactEmail        *string
	ExperienceLevel     *string
	PreferredSpecies    *string
	PreferredAges       *string
	MaxCapacity         *int
	CanHandleMedical    *bool
	CanHandleBehavioral *bool
	IsAvailable         *bool
}

// UpdateMine modifica el perfil del caller.
func (s *Service) UpdateMine(ctx context.Context, orgID, userID string, in UpdateInput) (Profile, error) {
	orgID = strings.TrimSpace(orgID)
	userID = strings.TrimSpace(userID)
	if orgID == "" || userID == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByUser(ctx, orgID, userID)
	if err != nil {
		return Profile{}, ErrNotFound
	}

	if in.ContactName != nil {
		p.ContactName = strings.TrimSpace(*in.ContactName)
	}
	if in.ContactEmail != nil {
		p.ContactEmail = strings.TrimSpace(*in.ContactEmail)
	}
	if in.ExperienceLevel != nil {
		level := ExperienceLevel(strings.TrimSpace(*in.ExperienceLevel))
		if !ValidExperienceLevel(level) {
			return Profile{}, ErrInvalidInput
		}
		p.ExperienceLevel = level
	}
	if in.PreferredSpecies != nil {
		p.PreferredSpecies = strings.TrimSpace(*in.PreferredSpecies)
	}
	if in.PreferredAges != nil {
		p.PreferredAges = strings.TrimSpace(*in.PreferredAges)
	}
	if in.MaxCapacity != nil {
		// No puede bajar de los animales que ya tiene en casa.
		if *in.MaxCapacity < 1 || *in.MaxCapacity < p.CurrentCapacity {
			return Profile{}, ErrInvalidInput
		}
		p.MaxCapacity = *in.MaxCapacity
	}
	if in.CanHandleMedical != nil {
		p.CanHandleMedical = *in.CanHandleMedical
	}
	if in.CanHandleBehavioral != nil {
		p.CanHandleBehavioral = *in.CanHandleBehavioral
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// AdminUpdateInput cubre los campos que solo toca un coordinator/admin.
type AdminUpdateInput struct {
	BackgroundCheckStatus *string
	BackgroundCheckDate   *time.Time
	InsuranceVerified     *bool
	ReferencesChecked     *bool
	NotesInternal         *string
	Rating                *float64
}

// AdminUpdate modifica los campos administrativos de un perfil.
func (s *Service) AdminUpdate(ctx context.Context, orgID, profileID string, in AdminUpdateInput) (Profile, error) {
	orgID = strings.TrimSpace(orgID)
	profileID = strings.TrimSpace(profileID)
	if orgID == "" || profileID == "" {
		return Profile{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, orgID, profileID)
	if err != nil {
		return Profile{}, ErrNotFound
	}

	if in.BackgroundCheckStatus != nil {
		st := strings.TrimSpace(*in.BackgroundCheckStatus)
		switch st {
		case "", "pending", "approved", "denied":
			p.BackgroundCheckStatus = st
		default:
			return Profile{}, ErrInvalidInput
		}
	}
	if in.BackgroundCheckDate != nil {
		d := *in.BackgroundCheckDate
		p.BackgroundCheckDate = &d
	}
	if in.InsuranceVerified != nil {
		p.InsuranceVerified = *in.InsuranceVerified
	}
	if in.ReferencesChecked != nil {
		p.ReferencesChecked = *in.ReferencesChecked
	}
	if in.NotesInternal != nil {
		p.NotesInternal = strings.TrimSpace(*in.NotesInternal)
	}
	if in.Rating != nil {
		if *in.Rating < 0 || *in.Rating > 5 {
			return Profile{}, ErrInvalidInput
		}
		r := *in.Rating
		p.Rating = &r
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
