package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	request "contract_billing/internal/adapter/http/dto/request"
	response "contract_billing/internal/adapter/http/dto/response"
	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
	"contract_billing/pkg"
)

// ConversionHandler exposes quote conversion and the contract side of the ledger.
type ConversionHandler struct {
	usecase usecase.IConversionUseCase
	now     func() time.Time
}

func NewConversionHandler(uc usecase.IConversionUseCase) *ConversionHandler {
	return &ConversionHandler{usecase: uc, now: time.Now}
}

// Convert godoc
// @Summary      Convert an accepted quote
// @Description  Builds the payment schedule, the contract and (by default) one invoice per milestone.
// @Tags         conversions
// @Accept       json
// @Produce      json
// @Param        body  body      request.ConversionRequest  true  "Quote and conversion options"
// @Success      201   {object}  response.ConversionResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      422   {object}  pkg.HTTPError
// @Router       /conversions [post]
func (h *ConversionHandler) Convert(c *gin.Context) {
	var payload request.ConversionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidPayload)
		return
	}
	opts, err := payload.ResolveOptions()
	if err != nil {
		abortWith(c, invalidPayload(err))
		return
	}

	result, err := h.usecase.Convert(c.Request.Context(), payload.Quote.ToQuote(), opts)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromConversion(result, h.now()))
}

// ListTemplates godoc
// @Summary  List contract templates
// @Tags     contracts
// @Produce  json
// @Success  200  {array}  usecase.ContractTemplate
// @Router   /templates [get]
func (h *ConversionHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Templates())
}

// GetContract godoc
// @Summary  Get a contract by id or number
// @Tags     contracts
// @Produce  json
// @Param    id   path      string  true  "Contract id or number"
// @Success  200  {object}  response.ContractResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /contracts/{id} [get]
func (h *ConversionHandler) GetContract(c *gin.Context) {
	contract, err := h.usecase.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromContract(contract))
}

// PreviewContract godoc
// @Summary  Render the contract template
// @Tags     contracts
// @Produce  json
// @Param    id      path      string  true   "Contract id or number"
// @Param    locale  query     string  false  "BCP 47 locale, defaults to en-US"
// @Success  200     {object}  usecase.PopulatedContract
// @Failure  404     {object}  pkg.HTTPError
// @Router   /contracts/{id}/preview [get]
func (h *ConversionHandler) PreviewContract(c *gin.Context) {
	populated, err := h.usecase.PreviewContract(c.Request.Context(), c.Param("id"), c.Query("locale"))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, populated)
}

// InvoiceMilestone godoc
// @Summary  Invoice one milestone
// @Tags     contracts
// @Accept   json
// @Produce  json
// @Param    id      path      string                            true   "Contract id or number"
// @Param    number  path      int                               true   "Milestone number"
// @Param    body    body      request.MilestoneInvoiceRequest  false  "Invoice options"
// @Success  201     {object}  response.InvoiceResponse
// @Failure  404     {object}  pkg.HTTPError
// @Failure  409     {object}  pkg.HTTPError
// @Router   /contracts/{id}/milestones/{number}/invoices [post]
func (h *ConversionHandler) InvoiceMilestone(c *gin.Context) {
	number, ok := milestoneNumber(c)
	if !ok {
		return
	}
	var payload request.MilestoneInvoiceRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		abortWith(c, errInvalidPayload)
		return
	}

	inv, warnings, err := h.usecase.InvoiceMilestone(c.Request.Context(), c.Param("id"), number, payload.ToOptions())
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	res := response.FromInvoice(inv, h.now())
	res.Warnings = warnings
	c.JSON(http.StatusCreated, res)
}

// UpdateMilestoneStatus godoc
// @Summary  Advance a milestone's work status
// @Tags     contracts
// @Accept   json
// @Produce  json
// @Param    id      path      string                          true  "Contract id or number"
// @Param    number  path      int                             true  "Milestone number"
// @Param    body    body      request.MilestoneStatusRequest  true  "pending, in_progress or completed"
// @Success  200     {object}  response.ContractResponse
// @Failure  409     {object}  pkg.HTTPError
// @Router   /contracts/{id}/milestones/{number} [patch]
func (h *ConversionHandler) UpdateMilestoneStatus(c *gin.Context) {
	number, ok := milestoneNumber(c)
	if !ok {
		return
	}
	var payload request.MilestoneStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidPayload)
		return
	}

	contract, err := h.usecase.UpdateMilestoneStatus(c.Request.Context(), c.Param("id"), number, entities.MilestoneStatus(payload.Status))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromContract(contract))
}

func milestoneNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		abortWith(c, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Milestone number must be a positive integer", http.StatusBadRequest))
		return 0, false
	}
	return n, true
}
