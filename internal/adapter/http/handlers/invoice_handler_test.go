package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"contract_billing/internal/adapter/http/handlers/mocks"
	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

var handlerNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func newInvoiceRouter(conv usecase.IConversionUseCase, reg usecase.IInvoiceRegistry) *gin.Engine {
	h := NewInvoiceHandler(conv, reg)
	h.now = func() time.Time { return handlerNow }
	r := gin.New()
	r.POST("/v1/invoices", h.CreateInvoice)
	r.GET("/v1/invoices", h.ListInvoices)
	r.GET("/v1/invoices/overdue", h.ListOverdue)
	r.POST("/v1/invoices/overdue/refresh", h.RefreshOverdue)
	r.GET("/v1/invoices/export.csv", h.ExportCSV)
	r.GET("/v1/invoices/:id", h.GetInvoice)
	r.PATCH("/v1/invoices/:id/status", h.UpdateStatus)
	r.POST("/v1/invoices/:id/payments", h.RecordPayment)
	r.GET("/v1/invoices/:id/reminders", h.ListReminders)
	return r
}

func sampleInvoice() entities.Invoice {
	return entities.Invoice{
		ID:          "inv-1",
		Number:      "INV-2026-0001",
		Client:      entities.ClientInfo{Name: "Dana Reyes", Company: "Acme Bakery"},
		Type:        entities.InvoiceTypeDeposit,
		TotalAmount: decimal.RequireFromString("1087.50"),
		AmountPaid:  decimal.Zero,
		AmountDue:   decimal.RequireFromString("1087.50"),
		Status:      entities.InvoiceStatusSent,
		IssueDate:   handlerNow.AddDate(0, 0, -20),
		DueDate:     handlerNow.AddDate(0, 0, 10),
		Currency:    "USD",
	}
}

func TestInvoiceHandler_CreateInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("items are required", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPost, "/v1/invoices", `{"client":{"name":"Dana"},"items":[]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("bad due date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPost, "/v1/invoices", `{"items":[{"description":"Hosting","unit_price":100}],"due_date":"tomorrow"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)

		conv.EXPECT().CreateAdHocInvoice(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req usecase.AdHocInvoiceRequest) (entities.Invoice, []usecase.Issue, error) {
				if len(req.Items) != 1 || req.Items[0].Description != "Hosting" {
					t.Fatalf("unexpected items: %+v", req.Items)
				}
				inv := sampleInvoice()
				inv.Type = entities.InvoiceTypeCustom
				return inv, nil, nil
			})

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPost, "/v1/invoices", `{"client":{"name":"Dana"},"items":[{"description":"Hosting","unit_price":"1000"}]}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_ListAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("filter is parsed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().List(gomock.Any(), usecase.InvoiceFilter{Status: entities.InvoiceStatusSent, ContractID: "con-1", Client: "acme"}).
			Return([]entities.Invoice{sampleInvoice()})

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodGet, "/v1/invoices?status=Pending&contract_id=con-1&client=acme", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 1 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		if body[0]["total_amount"] != "1087.50" {
			t.Fatalf("unexpected total: %v", body[0]["total_amount"])
		}
	})

	t.Run("unknown status filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodGet, "/v1/invoices?status=lost", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("get not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().Get(gomock.Any(), "nope").Return(entities.Invoice{}, &usecase.NotFoundError{Kind: "invoice", ID: "nope"})

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodGet, "/v1/invoices/nope", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("overdue list is not shadowed by id route", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().GetOverdue(gomock.Any()).Return(nil)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodGet, "/v1/invoices/overdue", "")
		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})
}

func TestInvoiceHandler_StatusAndPayments(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid transition is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().UpdateStatus(gomock.Any(), "inv-1", entities.InvoiceStatusDraft, nil).
			Return(entities.Invoice{}, &usecase.StateError{Message: "cannot move from paid to draft"})

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPatch, "/v1/invoices/inv-1/status", `{"status":"draft"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("paid with date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		paid := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		reg.EXPECT().UpdateStatus(gomock.Any(), "inv-1", entities.InvoiceStatusPaid, &paid).
			Return(sampleInvoice(), nil)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPatch, "/v1/invoices/inv-1/status", `{"status":"Paid","paid_date":"2026-06-01"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("overpayment maps to 422", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().RecordPayment(gomock.Any(), "inv-1", gomock.Any(), handlerNow).
			DoAndReturn(func(_ any, _ string, amount decimal.Decimal, _ time.Time) (entities.Invoice, error) {
				if !amount.Equal(decimal.NewFromInt(5000)) {
					t.Fatalf("unexpected amount %s", amount)
				}
				return entities.Invoice{}, &usecase.BusinessRuleError{Issues: []usecase.Issue{{Code: "OVERPAID", Message: "payment exceeds amount due"}}}
			})

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPost, "/v1/invoices/inv-1/payments", `{"amount":5000}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "OVERPAID" {
			t.Fatalf("unexpected code %s", body.Code)
		}
	})

	t.Run("refresh overdue", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		moved := sampleInvoice()
		moved.Status = entities.InvoiceStatusOverdue
		reg.EXPECT().RefreshOverdue(gomock.Any()).Return([]entities.Invoice{moved}, nil)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodPost, "/v1/invoices/overdue/refresh", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestInvoiceHandler_ExportAndReminders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("csv export", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		reg.EXPECT().List(gomock.Any(), usecase.InvoiceFilter{}).Return([]entities.Invoice{sampleInvoice()})

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodGet, "/v1/invoices/export.csv", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Fatalf("unexpected content type %q", ct)
		}
		if !strings.Contains(w.Body.String(), `"INV-2026-0001"`) {
			t.Fatalf("csv missing invoice row: %s", w.Body.String())
		}
	})

	t.Run("reminders for invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		conv := mocks.NewMockIConversionUseCase(ctrl)
		reg := mocks.NewMockIInvoiceRegistry(ctrl)
		scheduler := usecase.NewReminderScheduler(nil)
		scheduler.Schedule(sampleInvoice())
		reg.EXPECT().Get(gomock.Any(), "INV-2026-0001").Return(sampleInvoice(), nil)
		reg.EXPECT().Reminders().Return(scheduler)

		w := doJSON(newInvoiceRouter(conv, reg), http.MethodGet, "/v1/invoices/INV-2026-0001/reminders", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 3 {
			t.Fatalf("expected three reminders, got %s", w.Body.String())
		}
	})
}
