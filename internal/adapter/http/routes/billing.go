package routes

import (
	"contract_billing/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathConversions = "/conversions"
	PathTemplates   = "/templates"
	PathContracts   = "/contracts"
	PathInvoices    = "/invoices"
	PathReports     = "/reports"
	PathReminders   = "/reminders"
)

// Handlers groups everything mounted under /v1.
type Handlers struct {
	Conversion *handlers.ConversionHandler
	Invoice    *handlers.InvoiceHandler
	Report     *handlers.ReportHandler
}

func addBillingRoutes(rg *gin.RouterGroup, h Handlers) {
	rg.POST(PathConversions, h.Conversion.Convert)
	rg.GET(PathTemplates, h.Conversion.ListTemplates)

	contracts := rg.Group(PathContracts)
	{
		contracts.GET("/:id", h.Conversion.GetContract)
		contracts.GET("/:id/preview", h.Conversion.PreviewContract)
		contracts.POST("/:id/milestones/:number/invoices", h.Conversion.InvoiceMilestone)
		contracts.PATCH("/:id/milestones/:number", h.Conversion.UpdateMilestoneStatus)
	}

	invoices := rg.Group(PathInvoices)
	{
		invoices.POST("", h.Invoice.CreateInvoice)
		invoices.GET("", h.Invoice.ListInvoices)
		invoices.GET("/overdue", h.Invoice.ListOverdue)
		invoices.POST("/overdue/refresh", h.Invoice.RefreshOverdue)
		invoices.GET("/export.csv", h.Invoice.ExportCSV)
		invoices.GET("/:id", h.Invoice.GetInvoice)
		invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
		invoices.POST("/:id/payments", h.Invoice.RecordPayment)
		invoices.GET("/:id/reminders", h.Invoice.ListReminders)
	}

	reports := rg.Group(PathReports)
	{
		reports.GET("/aging", h.Report.Aging)
		reports.GET("/aging.xlsx", h.Report.AgingXLSX)
		reports.GET("/metrics", h.Report.Metrics)
	}

	reminders := rg.Group(PathReminders)
	{
		reminders.GET("/due", h.Report.DueReminders)
		reminders.POST("/:id/sent", h.Report.MarkReminderSent)
		reminders.POST("/:id/failed", h.Report.MarkReminderFailed)
	}
}
