// internal/workers/store/update-plant-price/models.go
package updateplantprice

import (
	"context"

	"solar-reports/internal/store"
)

type Input struct {
	Plant string `json:"plant"`
	Price string `json:"price"`
	Date  string `json:"date"`
}

type Output struct {
	Success bool   `json:"success"`
	Plant   string `json:"plant"`
}

// Updater is the part of store.ValidatedStore the handler needs.
type Updater interface {
	Update(ctx context.Context, collectionPath, schemaPath string, loc store.Locator, mut store.Mutator) error
}
