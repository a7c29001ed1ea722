package insight

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/insight"
)

type Handler struct {
	svc      *insight.Service
	validate *validator.Validate
}

func NewHandler(svc *insight.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/insights", h.insights)
	r.Post("/insights/promote", h.promote)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, d)
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Analyze(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, report)
}

type promoteRequest struct {
	Name     string          `json:"name" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	DueDay   int             `json:"due_day" validate:"min=0,max=31"`
	Category string          `json:"category"`
}

func (h *Handler) promote(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bill, err := h.svc.PromoteRecurring(r.Context(), insight.PromoteParams{
		Name:     req.Name,
		Amount:   req.Amount,
		DueDay:   req.DueDay,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, insight.ErrInvalidPromotion) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(bill); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
