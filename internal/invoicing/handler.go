package invoicing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/martpos/martpos/internal/domain"
	"github.com/martpos/martpos/internal/platform/httpx"
)

// Handler wires invoice HTTP endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers invoice routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/{id}/order-status", h.toggleOrderStatus)
	r.Get("/{id}/share", h.share)
}

type createInvoiceRequest struct {
	CompanyID  string      `json:"companyId" validate:"required"`
	Items      []ItemInput `json:"items" validate:"required,min=1,dive"`
	PaidAmount float64     `json:"paidAmount" validate:"gte=0"`
	Type       string      `json:"type" validate:"omitempty,oneof=PURCHASE ORDER"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.List())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	invoice, err := h.service.Create(CreateInvoiceInput{
		CompanyID:  req.CompanyID,
		Items:      req.Items,
		PaidAmount: req.PaidAmount,
		Type:       domain.InvoiceType(req.Type),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) toggleOrderStatus(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.service.ToggleOrderStatus(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, invoice)
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.ShareLink(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": link})
}
