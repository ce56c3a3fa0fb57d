package product

import (
	"context"
	"strconv"

	"github.com/ewpharma/tradelink-backend/internal/modules/auth"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/google/uuid"
)

// Linker executes the paired writes that attach and detach products from
// their owning manufacturer and maintain the trader edge set. Implemented
// by the relation manager.
type Linker interface {
	// LinkProduct resolves the manufacturer owned by ownerUserID, persists
	// p, appends it to that manufacturer's product list and writes both
	// sides of the trader edge set in one atomic unit. Sets p.ManufacturerID.
	LinkProduct(ctx context.Context, p *Product, ownerUserID uuid.UUID) error

	// UnlinkProduct deletes p, pulls it from its manufacturer's list and
	// drops its trader edges in one atomic unit.
	UnlinkProduct(ctx context.Context, p *Product) error

	// ReplaceProductTraders rewrites the product's trader edge set atomically.
	ReplaceProductTraders(ctx context.Context, productID uuid.UUID, traderIDs []uuid.UUID) error
}

// OwnerResolver reports which user account owns a manufacturer.
type OwnerResolver interface {
	OwnerUserID(ctx context.Context, manufacturerID uuid.UUID) (uuid.UUID, error)
}

// Cleaner schedules best-effort removal of stored assets.
type Cleaner interface {
	Release(path string)
}

// Service defines product business logic, including the paginated
// manufacturer listing.
type Service interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListByManufacturerOwner(ctx context.Context, userID, page, size string) (*ListPage, error)
	ListByTrader(ctx context.Context, traderID string) ([]*Product, error)
	CreateProduct(ctx context.Context, req CreateRequest, identity *auth.Identity) (*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateRequest, identity *auth.Identity) (*Product, error)
	DeleteProduct(ctx context.Context, id string, identity *auth.Identity) error
	FindByAssetPath(ctx context.Context, field, path string) (*Product, error)
}

const (
	defaultPage = 1
	defaultSize = 10
)

type service struct {
	repo    Repository
	linker  Linker
	owners  OwnerResolver
	cleaner Cleaner

	// serialNoBase is the per-page multiplier for serial numbers.
	// Historically pinned to 10 whatever the requested size; see config.
	serialNoBase int
}

// NewService creates a new product service.
func NewService(repo Repository, linker Linker, owners OwnerResolver, cleaner Cleaner, serialNoBase int) Service {
	if serialNoBase <= 0 {
		serialNoBase = defaultSize
	}
	return &service{repo: repo, linker: linker, owners: owners, cleaner: cleaner, serialNoBase: serialNoBase}
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByManufacturerOwner returns one page of the products owned by the
// manufacturer attached to userID, sorted ascending by title. Total is an
// independent count of the whole collection. A missing manufacturer or an
// empty collection yields an empty page, not an error.
func (s *service) ListByManufacturerOwner(ctx context.Context, userID, page, size string) (*ListPage, error) {
	pageNum := parsePositive(page, defaultPage)
	sizeNum := parsePositive(size, defaultSize)
	offset := (pageNum - 1) * sizeNum

	total, err := s.repo.CountByOwnerUserID(ctx, userID)
	if err != nil {
		if storage.IsNotFound(err) {
			return &ListPage{Products: []PagedProduct{}, Size: sizeNum}, nil
		}
		return nil, err
	}

	products, err := s.repo.ListByOwnerUserID(ctx, userID, sizeNum, offset)
	if err != nil {
		if storage.IsNotFound(err) {
			return &ListPage{Products: []PagedProduct{}, Size: sizeNum}, nil
		}
		return nil, err
	}

	paged := make([]PagedProduct, 0, len(products))
	for i, p := range products {
		paged = append(paged, PagedProduct{
			Product:  p,
			SerialNo: (pageNum-1)*s.serialNoBase + i + 1,
		})
	}
	return &ListPage{Products: paged, Total: total, Size: sizeNum}, nil
}

func (s *service) ListByTrader(ctx context.Context, traderID string) ([]*Product, error) {
	return s.repo.ListByTraderID(ctx, traderID)
}

func (s *service) CreateProduct(ctx context.Context, req CreateRequest, identity *auth.Identity) (*Product, error) {
	folder := req.Folder
	if folder == "" {
		folder = "miscellaneous"
	}
	p := &Product{
		ID:             uuid.New(),
		Folder:         folder,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		ImagePath:      req.ImagePath,
		COAPath:        req.COAPath,
		MSDSPath:       req.MSDSPath,
		CEPPath:        req.CEPPath,
		QOSPath:        req.QOSPath,
		DMF:            req.DMF,
		Impurities:     req.Impurities,
		RefStandards:   req.RefStandards,
		Pharmacopoeias: req.Pharmacopoeias,
		TraderIDs:      req.TraderIDs,
	}
	if p.TraderIDs == nil {
		p.TraderIDs = []uuid.UUID{}
	}
	if err := s.linker.LinkProduct(ctx, p, identity.UserID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateRequest, identity *auth.Identity) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, p, identity); err != nil {
		return nil, err
	}

	p.Title = req.Title
	p.Description = req.Description
	p.Price = req.Price
	p.ImagePath = req.ImagePath
	p.COAPath = req.COAPath
	p.MSDSPath = req.MSDSPath
	p.CEPPath = req.CEPPath
	p.QOSPath = req.QOSPath
	p.DMF = req.DMF
	p.Impurities = req.Impurities
	p.RefStandards = req.RefStandards
	p.Pharmacopoeias = req.Pharmacopoeias

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	traderIDs := make([]uuid.UUID, 0, len(req.TraderIDs))
	for _, raw := range req.TraderIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			return nil, storage.ErrValidation
		}
		traderIDs = append(traderIDs, tid)
	}
	if err := s.linker.ReplaceProductTraders(ctx, p.ID, traderIDs); err != nil {
		return nil, err
	}
	p.TraderIDs = traderIDs
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string, identity *auth.Identity) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, p, identity); err != nil {
		return err
	}

	if err := s.linker.UnlinkProduct(ctx, p); err != nil {
		return err
	}

	// Asset cleanup is detached: the deletion is committed and stays
	// committed whether or not the files are still on disk.
	for _, path := range []string{p.ImagePath, p.COAPath, p.MSDSPath, p.CEPPath, p.QOSPath} {
		s.cleaner.Release(path)
	}
	return nil
}

func (s *service) FindByAssetPath(ctx context.Context, field, path string) (*Product, error) {
	return s.repo.FindByAssetPath(ctx, field, path)
}

func (s *service) authorize(ctx context.Context, p *Product, identity *auth.Identity) error {
	ownerID, err := s.owners.OwnerUserID(ctx, p.ManufacturerID)
	if err != nil {
		return err
	}
	return auth.RequireOwner(ownerID, identity)
}

// parsePositive parses a page or size parameter, falling back to the
// default when absent, non-numeric or non-positive.
func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
