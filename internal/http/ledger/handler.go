package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/penny/internal/ledger"
)

type Handler struct {
	svc      *ledger.Service
	validate *validator.Validate
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/income", func(r chi.Router) {
		r.Get("/", h.listIncome)
		r.Post("/", h.addIncome)
		r.Delete("/{index}", h.deleteIncome)
	})

	r.Route("/bills", func(r chi.Router) {
		r.Get("/", h.listBills)
		r.Post("/", h.addBill)
		r.Delete("/{index}", h.deleteBill)
	})

	r.Route("/budget", func(r chi.Router) {
		r.Get("/", h.getBudget)
		r.Put("/", h.setBudget)
	})

	r.Route("/debts", func(r chi.Router) {
		r.Get("/", h.listDebts)
		r.Post("/", h.addDebt)
		r.Delete("/{index}", h.deleteDebt)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", h.listTransactions)
		r.Post("/", h.addTransaction)
	})
}

type addIncomeRequest struct {
	Source    string          `json:"source" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency" validate:"required"`
}

func (h *Handler) addIncome(w http.ResponseWriter, r *http.Request) {
	var req addIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	inc := ledger.Income{
		Source:    req.Source,
		Amount:    req.Amount,
		Frequency: req.Frequency,
	}

	if err := h.svc.AddIncome(r.Context(), inc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) listIncome(w http.ResponseWriter, r *http.Request) {
	led, err := h.svc.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, orEmpty(led.Income))
}

func (h *Handler) deleteIncome(w http.ResponseWriter, r *http.Request) {
	h.deleteByIndex(w, r, h.svc.DeleteIncome)
}

type addBillRequest struct {
	Name     string          `json:"name" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	DueDay   int             `json:"due_day" validate:"min=1,max=31"`
	Category string          `json:"category"`
}

func (h *Handler) addBill(w http.ResponseWriter, r *http.Request) {
	var req addBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	category := req.Category
	if category == "" {
		category = "Other"
	}

	bill := ledger.Bill{
		Name:     req.Name,
		Amount:   req.Amount,
		DueDay:   req.DueDay,
		Category: category,
	}

	if err := h.svc.AddBill(r.Context(), bill); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	led, err := h.svc.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, orEmpty(led.Bills))
}

func (h *Handler) deleteBill(w http.ResponseWriter, r *http.Request) {
	h.deleteByIndex(w, r, h.svc.DeleteBill)
}

type budgetRequest struct {
	Groceries     decimal.Decimal `json:"groceries"`
	Savings       decimal.Decimal `json:"savings"`
	Miscellaneous decimal.Decimal `json:"miscellaneous"`
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Groceries.IsNegative() || req.Savings.IsNegative() || req.Miscellaneous.IsNegative() {
		http.Error(w, "budget amounts cannot be negative", http.StatusBadRequest)
		return
	}

	b := ledger.Budget{
		Groceries:     req.Groceries,
		Savings:       req.Savings,
		Miscellaneous: req.Miscellaneous,
	}

	if err := h.svc.SetBudget(r.Context(), b); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, b)
}

func (h *Handler) getBudget(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Budget(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, b)
}

type addDebtRequest struct {
	Name         string          `json:"name" validate:"required"`
	Balance      decimal.Decimal `json:"balance"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	MinPayment   decimal.Decimal `json:"min_payment"`
}

func (h *Handler) addDebt(w http.ResponseWriter, r *http.Request) {
	var req addDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Balance.IsNegative() || req.InterestRate.IsNegative() || req.MinPayment.IsNegative() {
		http.Error(w, "debt amounts cannot be negative", http.StatusBadRequest)
		return
	}

	debt := ledger.Debt{
		Name:         req.Name,
		Balance:      req.Balance,
		InterestRate: req.InterestRate,
		MinPayment:   req.MinPayment,
	}

	if err := h.svc.AddDebt(r.Context(), debt); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	led, err := h.svc.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, orEmpty(led.Debts))
}

func (h *Handler) deleteDebt(w http.ResponseWriter, r *http.Request) {
	h.deleteByIndex(w, r, h.svc.DeleteDebt)
}

type addTransactionRequest struct {
	Date         string          `json:"date" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description" validate:"required"`
	Category     string          `json:"category"`
	MerchantName string          `json:"merchant_name"`
}

func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := ledger.Transaction{
		Date:         req.Date,
		Amount:       req.Amount,
		Description:  req.Description,
		Category:     req.Category,
		MerchantName: req.MerchantName,
	}

	if err := h.svc.AddTransaction(r.Context(), tx); err != nil {
		if errors.Is(err, ledger.ErrDuplicate) {
			http.Error(w, "transaction already recorded", http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.Transactions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, orEmpty(txs))
}

func (h *Handler) deleteByIndex(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, index int) error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	if err := del(r.Context(), index); err != nil {
		if errors.Is(err, ledger.ErrIndexOutOfRange) {
			http.Error(w, "index out of range", http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// orEmpty keeps list endpoints returning [] instead of null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
