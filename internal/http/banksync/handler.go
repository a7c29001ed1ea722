package banksync

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/penny/internal/banksync"
	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

type Handler struct {
	svc      *banksync.Service
	validate *validator.Validate
}

func NewHandler(svc *banksync.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/link-token", h.createLinkToken)
	r.Post("/exchange", h.exchange)
	r.Post("/sync", h.sync)
	r.Delete("/accounts/{itemID}", h.disconnect)
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

func (h *Handler) createLinkToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.svc.CreateLinkToken(r.Context())
	if err != nil {
		if errors.Is(err, banksync.ErrNotConfigured) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, linkTokenResponse{LinkToken: token})
}

type exchangeRequest struct {
	PublicToken     string `json:"public_token" validate:"required"`
	InstitutionName string `json:"institution_name"`
}

type accountResponse struct {
	InstitutionName string `json:"institution_name"`
	ItemID          string `json:"item_id"`
}

func (h *Handler) exchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.svc.Link(r.Context(), req.PublicToken, req.InstitutionName)
	if err != nil {
		if errors.Is(err, banksync.ErrNotConfigured) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{
		InstitutionName: account.InstitutionName,
		ItemID:          account.ItemID,
	})
}

type syncResponse struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SyncAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := syncResponse{
		Imported: result.Imported,
		Errors:   result.Errors,
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Disconnect(r.Context(), itemID); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
