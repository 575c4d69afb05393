package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"contract_billing/internal/adapter/http/handlers/mocks"
	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
)

func newReportRouter(reg usecase.IInvoiceRegistry) *gin.Engine {
	h := NewReportHandler(reg)
	h.now = func() time.Time { return handlerNow }
	r := gin.New()
	r.GET("/v1/reports/aging", h.Aging)
	r.GET("/v1/reports/aging.xlsx", h.AgingXLSX)
	r.GET("/v1/reports/metrics", h.Metrics)
	r.GET("/v1/reminders/due", h.DueReminders)
	r.POST("/v1/reminders/:id/sent", h.MarkReminderSent)
	r.POST("/v1/reminders/:id/failed", h.MarkReminderFailed)
	return r
}

func overdueInvoice() entities.Invoice {
	inv := sampleInvoice()
	inv.Status = entities.InvoiceStatusOverdue
	inv.DueDate = handlerNow.AddDate(0, 0, -45)
	return inv
}

func TestReportHandler_Aging(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().GenerateAgingReport(gomock.Any()).Return(usecase.BuildAgingReport([]entities.Invoice{overdueInvoice()}, handlerNow))

		w := doJSON(newReportRouter(reg), http.MethodGet, "/v1/reports/aging", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Buckets []struct {
				Bucket string `json:"bucket"`
				Count  int    `json:"count"`
			} `json:"buckets"`
			GrandTotal string `json:"grand_total"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(body.Buckets) != 5 || body.Buckets[2].Count != 1 || body.GrandTotal != "1087.50" {
			t.Fatalf("unexpected report: %s", w.Body.String())
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().GenerateAgingReport(gomock.Any()).Return(usecase.BuildAgingReport([]entities.Invoice{overdueInvoice()}, handlerNow))

		w := doJSON(newReportRouter(reg), http.MethodGet, "/v1/reports/aging.xlsx", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		if err != nil {
			t.Fatalf("invalid workbook: %v", err)
		}
		defer f.Close()
		if idx, _ := f.GetSheetIndex("Summary"); idx < 0 {
			t.Fatalf("summary sheet missing: %v", f.GetSheetList())
		}
	})
}

func TestReportHandler_Metrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	reg := mocks.NewMockIInvoiceRegistry(ctrl)
	reg.EXPECT().GetMetrics(gomock.Any()).Return(usecase.InvoiceMetrics{
		TotalAmount: decimal.NewFromInt(3000),
		PaidAmount:  decimal.NewFromInt(1000),
		TotalCount:  3,
		PaidCount:   1,
		PaymentRate: decimal.RequireFromString("0.3333"),
	})

	w := doJSON(newReportRouter(reg), http.MethodGet, "/v1/reports/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["total_amount"] != "3000.00" || body["payment_rate"] != "0.3333" {
		t.Fatalf("unexpected metrics: %s", w.Body.String())
	}
}

func TestReportHandler_Reminders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	scheduler := usecase.NewReminderScheduler(nil)
	scheduler.Schedule(overdueInvoice())

	t.Run("due", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().Reminders().Return(scheduler)

		w := doJSON(newReportRouter(reg), http.MethodGet, "/v1/reminders/due", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 3 {
			t.Fatalf("expected three due reminders, got %s", w.Body.String())
		}
	})

	t.Run("mark sent then sent again", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().Reminders().Return(scheduler).Times(2)
		r := newReportRouter(reg)

		w := doJSON(r, http.MethodPost, "/v1/reminders/inv-1-gentle/sent", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		w = doJSON(r, http.MethodPost, "/v1/reminders/inv-1-gentle/sent", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("unknown reminder", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().Reminders().Return(scheduler)

		w := doJSON(newReportRouter(reg), http.MethodPost, "/v1/reminders/nope/failed", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
