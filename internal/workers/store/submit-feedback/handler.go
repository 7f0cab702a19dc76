// internal/workers/store/submit-feedback/handler.go
package submitfeedback

import (
	"context"
	"net/http"
	"strings"
	"time"

	"solar-reports/internal/common/logger"
	"solar-reports/internal/store"
)

const TaskType = "submit-feedback"

type Handler struct {
	config   *Config
	appender Appender
	logger   logger.Logger
	now      func() time.Time
}

func NewHandler(config *Config, appender Appender, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		appender: appender,
		logger:   log.With(logger.Fields{"taskType": TaskType}),
		now:      time.Now,
	}
}

// ServeHTTP handles POST /submit-feedback. The outcome is reported through
// a redirect to the feedback page, never through the status code.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse feedback form", logger.Fields{"error": err})
		h.redirect(w, r, false)
		return
	}

	_, err := h.Execute(r.Context(), &Input{
		Username: r.PostFormValue("username"),
		Rating:   r.PostFormValue("rating"),
		Comment:  r.PostFormValue("comment"),
	})
	h.redirect(w, r, err == nil)
}

// Execute appends one feedback entry. Blank username and rating fall back
// to the configured defaults.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	user := strings.TrimSpace(input.Username)
	if user == "" {
		user = h.config.DefaultUser
	}
	rating := strings.TrimSpace(input.Rating)
	if rating == "" {
		rating = h.config.DefaultRating
	}
	date := h.now().UTC()

	err := h.appender.Append(ctx, h.config.FeedbackPath, h.config.FeedbackSchema, store.Record{
		"user":    user,
		"rating":  rating,
		"comment": strings.TrimSpace(input.Comment),
		"date":    date.Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("feedback rejected", logger.Fields{"user": user, "error": err})
		return nil, err
	}

	h.logger.Info("feedback stored", logger.Fields{"user": user, "rating": rating})
	return &Output{Success: true, User: user, Date: date}, nil
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, ok bool) {
	target := h.config.RedirectPath + "?error=true"
	if ok {
		target = h.config.RedirectPath + "?success=true"
	}
	http.Redirect(w, r, target, http.StatusFound)
}
