package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	request "contract_billing/internal/adapter/http/dto/request"
	response "contract_billing/internal/adapter/http/dto/response"
	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
)

// InvoiceHandler serves the invoice registry.
type InvoiceHandler struct {
	conversions usecase.IConversionUseCase
	registry    usecase.IInvoiceRegistry
	now         func() time.Time
}

func NewInvoiceHandler(conversions usecase.IConversionUseCase, registry usecase.IInvoiceRegistry) *InvoiceHandler {
	return &InvoiceHandler{conversions: conversions, registry: registry, now: time.Now}
}

// CreateInvoice godoc
// @Summary  Create an ad hoc invoice
// @Tags     invoices
// @Accept   json
// @Produce  json
// @Param    body  body      request.AdHocInvoiceRequest  true  "Invoice lines"
// @Success  201   {object}  response.InvoiceResponse
// @Failure  400   {object}  pkg.HTTPError
// @Router   /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var payload request.AdHocInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidPayload)
		return
	}
	req, err := payload.ToUseCase()
	if err != nil {
		abortWith(c, invalidPayload(err))
		return
	}

	inv, warnings, err := h.conversions.CreateAdHocInvoice(c.Request.Context(), req)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	res := response.FromInvoice(inv, h.now())
	res.Warnings = warnings
	c.JSON(http.StatusCreated, res)
}

// ListInvoices godoc
// @Summary  List invoices
// @Tags     invoices
// @Produce  json
// @Param    status       query  string  false  "Invoice status"
// @Param    contract_id  query  string  false  "Contract id"
// @Param    client       query  string  false  "Client name or company (substring)"
// @Success  200  {array}  response.InvoiceResponse
// @Router   /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter, ok := invoiceFilter(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(h.registry.List(c.Request.Context(), filter), h.now()))
}

// GetInvoice godoc
// @Summary  Get an invoice by id or number
// @Tags     invoices
// @Produce  json
// @Param    id   path      string  true  "Invoice id or number"
// @Success  200  {object}  response.InvoiceResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv, h.now()))
}

// UpdateStatus godoc
// @Summary  Move an invoice through its lifecycle
// @Tags     invoices
// @Accept   json
// @Produce  json
// @Param    id    path      string                        true  "Invoice id or number"
// @Param    body  body      request.InvoiceStatusRequest  true  "Target status"
// @Success  200   {object}  response.InvoiceResponse
// @Failure  409   {object}  pkg.HTTPError
// @Router   /invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var payload request.InvoiceStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidPayload)
		return
	}
	status, paidDate, err := payload.Resolve()
	if err != nil {
		abortWith(c, invalidPayload(err))
		return
	}

	inv, err := h.registry.UpdateStatus(c.Request.Context(), c.Param("id"), status, paidDate)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv, h.now()))
}

// RecordPayment godoc
// @Summary  Record a (partial) payment
// @Tags     invoices
// @Accept   json
// @Produce  json
// @Param    id    path      string                  true  "Invoice id or number"
// @Param    body  body      request.PaymentRequest  true  "Amount received"
// @Success  200   {object}  response.InvoiceResponse
// @Failure  422   {object}  pkg.HTTPError
// @Router   /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var payload request.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidPayload)
		return
	}
	at := h.now().UTC()
	paidAt, err := request.ParseDate(payload.PaidAt)
	if err != nil {
		abortWith(c, invalidPayload(err))
		return
	}
	if paidAt != nil {
		at = *paidAt
	}

	inv, err := h.registry.RecordPayment(c.Request.Context(), c.Param("id"), payload.Amount, at)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv, h.now()))
}

// ListOverdue godoc
// @Summary  Open invoices past their due date, oldest first
// @Tags     invoices
// @Produce  json
// @Success  200  {array}  response.InvoiceResponse
// @Router   /invoices/overdue [get]
func (h *InvoiceHandler) ListOverdue(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromInvoices(h.registry.GetOverdue(c.Request.Context()), h.now()))
}

// RefreshOverdue godoc
// @Summary  Flag sent or viewed invoices past due as overdue
// @Tags     invoices
// @Produce  json
// @Success  200  {array}  response.InvoiceResponse
// @Router   /invoices/overdue/refresh [post]
func (h *InvoiceHandler) RefreshOverdue(c *gin.Context) {
	moved, err := h.registry.RefreshOverdue(c.Request.Context())
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(moved, h.now()))
}

// ExportCSV godoc
// @Summary  Export invoices as CSV
// @Tags     invoices
// @Produce  text/csv
// @Param    status       query  string  false  "Invoice status"
// @Param    contract_id  query  string  false  "Contract id"
// @Param    client       query  string  false  "Client name or company (substring)"
// @Success  200
// @Router   /invoices/export.csv [get]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	filter, ok := invoiceFilter(c)
	if !ok {
		return
	}
	now := h.now()
	invs := h.registry.List(c.Request.Context(), filter)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoices-%s.csv"`, now.UTC().Format("2006-01-02")))
	c.Status(http.StatusOK)
	if err := usecase.WriteInvoicesCSV(c.Writer, invs, now); err != nil {
		_ = c.Error(err)
	}
}

// ListReminders godoc
// @Summary  Reminders scheduled for one invoice
// @Tags     reminders
// @Produce  json
// @Param    id   path     string  true  "Invoice id or number"
// @Success  200  {array}  response.ReminderResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /invoices/{id}/reminders [get]
func (h *InvoiceHandler) ListReminders(c *gin.Context) {
	inv, err := h.registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromReminders(h.registry.Reminders().ForInvoice(inv.ID)))
}

func invoiceFilter(c *gin.Context) (usecase.InvoiceFilter, bool) {
	f := usecase.InvoiceFilter{
		ContractID: strings.TrimSpace(c.Query("contract_id")),
		Client:     strings.TrimSpace(c.Query("client")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		s, err := entities.ParseInvoiceStatus(raw)
		if err != nil {
			abortWith(c, invalidRequest(err))
			return usecase.InvoiceFilter{}, false
		}
		f.Status = s
	}
	return f, true
}
