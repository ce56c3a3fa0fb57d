package product

import (
	"time"

	"github.com/google/uuid"
)

// Product is a chemical or pharmaceutical product owned by exactly one
// manufacturer. The five asset paths point at the uploaded image and
// certificate documents. TraderIDs is read from the trader_products edge
// set; both sides of that edge are maintained by the relation manager.
type Product struct {
	ID             uuid.UUID   `json:"id"`
	Folder         string      `json:"folder"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Price          string      `json:"price"`
	ImagePath      string      `json:"image"`
	COAPath        string      `json:"coa"`
	MSDSPath       string      `json:"msds"`
	CEPPath        string      `json:"cep"`
	QOSPath        string      `json:"qos"`
	DMF            string      `json:"dmf"`
	Impurities     string      `json:"impurities"`
	RefStandards   string      `json:"refStandards"`
	Pharmacopoeias string      `json:"pharmacopoeias"`
	ManufacturerID uuid.UUID   `json:"manufacturer"`
	TraderIDs      []uuid.UUID `json:"traders"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// PagedProduct is a listed product annotated with its 1-based position in
// the overall listing sequence.
type PagedProduct struct {
	*Product
	SerialNo int `json:"serialNo"`
}

// ListPage is one window of a manufacturer's product listing. Total counts
// the full child collection, not the returned slice.
type ListPage struct {
	Products []PagedProduct
	Total    int
	Size     int
}

// CreateRequest carries the multipart form fields for a new product.
type CreateRequest struct {
	Folder         string
	Title          string `validate:"required"`
	Description    string `validate:"required,min=5"`
	Price          string
	DMF            string
	Impurities     string
	RefStandards   string
	Pharmacopoeias string
	TraderIDs      []uuid.UUID
	ImagePath      string
	COAPath        string
	MSDSPath       string
	CEPPath        string
	QOSPath        string
}

// UpdateRequest is the payload for editing a product.
type UpdateRequest struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description" validate:"required,min=5"`
	Price          string   `json:"price"`
	ImagePath      string   `json:"image"`
	COAPath        string   `json:"coa"`
	MSDSPath       string   `json:"msds"`
	CEPPath        string   `json:"cep"`
	QOSPath        string   `json:"qos"`
	DMF            string   `json:"dmf"`
	Impurities     string   `json:"impurities"`
	RefStandards   string   `json:"refStandards"`
	Pharmacopoeias string   `json:"pharmacopoeias"`
	TraderIDs      []string `json:"traders"`
}
