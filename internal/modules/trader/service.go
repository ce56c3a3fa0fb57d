package trader

import (
	"context"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/google/uuid"
)

// Linker executes the paired writes that attach and detach traders from
// their owning manufacturer. Implemented by the relation manager.
type Linker interface {
	// LinkTrader resolves the manufacturer owned by ownerUserID, persists t
	// and appends it to that manufacturer's trader list in one atomic unit.
	// Sets t.ManufacturerID.
	LinkTrader(ctx context.Context, t *Trader, ownerUserID uuid.UUID) error

	// UnlinkTrader deletes t, pulls it from its manufacturer's list and
	// drops its product edges in one atomic unit.
	UnlinkTrader(ctx context.Context, t *Trader) error
}

// OwnerResolver reports which user account owns a manufacturer.
type OwnerResolver interface {
	OwnerUserID(ctx context.Context, manufacturerID uuid.UUID) (uuid.UUID, error)
}

// Cleaner schedules best-effort removal of stored assets.
type Cleaner interface {
	Release(path string)
}

// Service defines trader business logic.
type Service interface {
	GetTrader(ctx context.Context, id string) (*Trader, error)
	ListByManufacturer(ctx context.Context, manufacturerID string) ([]*Trader, error)
	CreateTrader(ctx context.Context, req CreateRequest, identity *auth.Identity) (*Trader, error)
	UpdateTrader(ctx context.Context, id string, req UpdateRequest, identity *auth.Identity) (*Trader, error)
	DeleteTrader(ctx context.Context, id string, identity *auth.Identity) error
}

type service struct {
	repo    Repository
	linker  Linker
	owners  OwnerResolver
	cleaner Cleaner
}

// NewService creates a new trader service.
func NewService(repo Repository, linker Linker, owners OwnerResolver, cleaner Cleaner) Service {
	return &service{repo: repo, linker: linker, owners: owners, cleaner: cleaner}
}

func (s *service) GetTrader(ctx context.Context, id string) (*Trader, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByManufacturer(ctx context.Context, manufacturerID string) ([]*Trader, error) {
	return s.repo.ListByManufacturerID(ctx, manufacturerID)
}

func (s *service) CreateTrader(ctx context.Context, req CreateRequest, identity *auth.Identity) (*Trader, error) {
	t := &Trader{
		ID:         uuid.New(),
		Title:      req.Title,
		Email:      req.Email,
		Address:    req.Address,
		ImagePath:  req.ImagePath,
		ProductIDs: []uuid.UUID{},
	}
	if err := s.linker.LinkTrader(ctx, t, identity.UserID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) UpdateTrader(ctx context.Context, id string, req UpdateRequest, identity *auth.Identity) (*Trader, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, t, identity); err != nil {
		return nil, err
	}

	t.Title = req.Title
	t.Email = req.Email
	if req.Address != "" {
		t.Address = req.Address
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) DeleteTrader(ctx context.Context, id string, identity *auth.Identity) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, t, identity); err != nil {
		return err
	}

	if err := s.linker.UnlinkTrader(ctx, t); err != nil {
		return err
	}

	s.cleaner.Release(t.ImagePath)
	return nil
}

// authorize resolves the trader's owning manufacturer and checks that the
// caller is that manufacturer's account.
func (s *service) authorize(ctx context.Context, t *Trader, identity *auth.Identity) error {
	ownerID, err := s.owners.OwnerUserID(ctx, t.ManufacturerID)
	if err != nil {
		return err
	}
	return auth.RequireOwner(ownerID, identity)
}
