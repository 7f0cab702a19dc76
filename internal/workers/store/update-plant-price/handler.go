// internal/workers/store/update-plant-price/handler.go
package updateplantprice

import (
	"context"
	"net/http"
	"strings"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/store"
)

const TaskType = "update-plant-price"

type Handler struct {
	config  *Config
	updater Updater
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, updater Updater, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		updater: updater,
		errors:  errs,
		logger:  log.With(logger.Fields{"taskType": TaskType}),
	}
}

// ServeHTTP handles POST /updateData with plant, price and date form fields.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.errors.WriteHTTPError(w, r, apperrors.NewInvalidInputError("parse form: %v", err))
		return
	}

	input := &Input{
		Plant: r.PostFormValue("plant"),
		Price: r.PostFormValue("price"),
		Date:  r.PostFormValue("date"),
	}
	if _, err := h.Execute(r.Context(), input); err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Execute appends a dated price to the named plant.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	plant := strings.TrimSpace(input.Plant)
	price := strings.TrimSpace(input.Price)
	date := strings.TrimSpace(input.Date)

	if plant == "" || price == "" || date == "" {
		return nil, apperrors.NewInvalidInputError("missing required fields: plant, price, date")
	}

	h.logger.Info("updating plant price", logger.Fields{
		"plant": plant,
		"price": price,
		"date":  date,
	})

	if err := h.updater.Update(ctx, h.config.DatabasePath, h.config.DatabaseSchema, store.ByName(plant), store.SetPrice(price, date)); err != nil {
		return nil, err
	}
	return &Output{Success: true, Plant: plant}, nil
}
