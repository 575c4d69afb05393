package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	response "contract_billing/internal/adapter/http/dto/response"
	"contract_billing/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves portfolio reports and the reminder queue.
type ReportHandler struct {
	registry usecase.IInvoiceRegistry
	now      func() time.Time
}

func NewReportHandler(registry usecase.IInvoiceRegistry) *ReportHandler {
	return &ReportHandler{registry: registry, now: time.Now}
}

// Aging godoc
// @Summary  Accounts receivable aging
// @Tags     reports
// @Produce  json
// @Success  200  {object}  response.AgingReportResponse
// @Router   /reports/aging [get]
func (h *ReportHandler) Aging(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromAgingReport(h.registry.GenerateAgingReport(c.Request.Context()), h.now()))
}

// AgingXLSX godoc
// @Summary  Accounts receivable aging as a workbook
// @Tags     reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success  200
// @Router   /reports/aging.xlsx [get]
func (h *ReportHandler) AgingXLSX(c *gin.Context) {
	now := h.now()
	report := h.registry.GenerateAgingReport(c.Request.Context())

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="aging-%s.xlsx"`, now.UTC().Format("2006-01-02")))
	c.Status(http.StatusOK)
	if err := usecase.WriteAgingXLSX(c.Writer, report, now); err != nil {
		_ = c.Error(err)
	}
}

// Metrics godoc
// @Summary  Portfolio metrics
// @Tags     reports
// @Produce  json
// @Success  200  {object}  response.MetricsResponse
// @Router   /reports/metrics [get]
func (h *ReportHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromMetrics(h.registry.GetMetrics(c.Request.Context())))
}

// DueReminders godoc
// @Summary  Pending reminders whose date has passed
// @Tags     reminders
// @Produce  json
// @Success  200  {array}  response.ReminderResponse
// @Router   /reminders/due [get]
func (h *ReportHandler) DueReminders(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromReminders(h.registry.Reminders().Due(h.now())))
}

// MarkReminderSent godoc
// @Summary  Record that a reminder was delivered
// @Tags     reminders
// @Produce  json
// @Param    id   path      string  true  "Reminder id"
// @Success  200  {object}  response.ReminderResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /reminders/{id}/sent [post]
func (h *ReportHandler) MarkReminderSent(c *gin.Context) {
	r, err := h.registry.Reminders().MarkSent(c.Param("id"), h.now().UTC())
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromReminder(r))
}

// MarkReminderFailed godoc
// @Summary  Record that a reminder could not be delivered
// @Tags     reminders
// @Produce  json
// @Param    id   path      string  true  "Reminder id"
// @Success  200  {object}  response.ReminderResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /reminders/{id}/failed [post]
func (h *ReportHandler) MarkReminderFailed(c *gin.Context) {
	r, err := h.registry.Reminders().MarkFailed(c.Param("id"))
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromReminder(r))
}
