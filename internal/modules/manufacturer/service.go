package manufacturer

import (
	"context"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/google/uuid"
)

// Linker executes the paired writes that attach and detach manufacturers
// from their owning user account. Implemented by the relation manager.
type Linker interface {
	// LinkManufacturer persists m and appends it to the configured admin
	// user's manufacturer list in one atomic unit. Sets m.UserID.
	LinkManufacturer(ctx context.Context, m *Manufacturer) error

	// UnlinkManufacturer deletes m and pulls it from its owner's list in
	// one atomic unit.
	UnlinkManufacturer(ctx context.Context, m *Manufacturer) error
}

// Cleaner schedules best-effort removal of stored assets.
type Cleaner interface {
	Release(path string)
}

// Service defines manufacturer business logic.
type Service interface {
	GetManufacturer(ctx context.Context, id string) (*Manufacturer, error)
	ListByUser(ctx context.Context, userID string) ([]*Manufacturer, error)
	CreateManufacturer(ctx context.Context, req CreateRequest) (*Manufacturer, error)
	UpdateManufacturer(ctx context.Context, id string, req UpdateRequest, identity *auth.Identity) (*Manufacturer, error)
	DeleteManufacturer(ctx context.Context, id string, identity *auth.Identity) error
}

type service struct {
	repo    Repository
	linker  Linker
	cleaner Cleaner
}

// NewService creates a new manufacturer service.
func NewService(repo Repository, linker Linker, cleaner Cleaner) Service {
	return &service{repo: repo, linker: linker, cleaner: cleaner}
}

func (s *service) GetManufacturer(ctx context.Context, id string) (*Manufacturer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Manufacturer, error) {
	return s.repo.ListByOwnerUserID(ctx, userID)
}

func (s *service) CreateManufacturer(ctx context.Context, req CreateRequest) (*Manufacturer, error) {
	m := &Manufacturer{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		ImagePath:   req.ImagePath,
		TraderIDs:   []uuid.UUID{},
		ProductIDs:  []uuid.UUID{},
	}
	if err := s.linker.LinkManufacturer(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) UpdateManufacturer(ctx context.Context, id string, req UpdateRequest, identity *auth.Identity) (*Manufacturer, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwner(m.UserID, identity); err != nil {
		return nil, err
	}

	m.Title = req.Title
	m.Description = req.Description
	if req.Address != "" {
		m.Address = req.Address
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) DeleteManufacturer(ctx context.Context, id string, identity *auth.Identity) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(m.UserID, identity); err != nil {
		return err
	}

	if err := s.linker.UnlinkManufacturer(ctx, m); err != nil {
		return err
	}

	// Asset cleanup is detached from the request: the record deletion is
	// already committed and must not be undone by a missing file.
	s.cleaner.Release(m.ImagePath)
	return nil
}
