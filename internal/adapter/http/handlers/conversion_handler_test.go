package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contract_billing/internal/adapter/http/handlers/mocks"
	"contract_billing/internal/domain/entities"
	"contract_billing/internal/usecase"
	"contract_billing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newConversionRouter(uc usecase.IConversionUseCase) *gin.Engine {
	h := NewConversionHandler(uc)
	r := gin.New()
	r.POST("/v1/conversions", h.Convert)
	r.GET("/v1/templates", h.ListTemplates)
	r.GET("/v1/contracts/:id", h.GetContract)
	r.GET("/v1/contracts/:id/preview", h.PreviewContract)
	r.POST("/v1/contracts/:id/milestones/:number/invoices", h.InvoiceMilestone)
	r.PATCH("/v1/contracts/:id/milestones/:number", h.UpdateMilestoneStatus)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkg.HTTPError {
	t.Helper()
	var body pkg.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestConversionHandler_Convert(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/conversions", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "INVALID_PAYLOAD" {
			t.Fatalf("expected INVALID_PAYLOAD, got %s", body.Code)
		}
	})

	t.Run("missing business name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/conversions", `{"quote":{"final_price":1000}}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown payment structure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/conversions", `{"quote":{"business_name":"Acme","final_price":1000},"options":{"payment_structure":"weekly"}}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "INVALID_PAYLOAD" {
			t.Fatalf("expected INVALID_PAYLOAD, got %s", body.Code)
		}
	})

	t.Run("schema error carries fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().Convert(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(usecase.ConversionResult{}, &usecase.SchemaError{Fields: map[string]string{"final_price": "must be positive"}})

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/conversions", `{"quote":{"business_name":"Acme","final_price":0}}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "VALIDATION_FAILED" || body.Details == nil {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("business rule maps to 422", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().Convert(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(usecase.ConversionResult{}, &usecase.BusinessRuleError{Issues: []usecase.Issue{{Code: "PERCENTAGE_SUM", Message: "percentages must sum to 100"}}})

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/conversions", `{"quote":{"business_name":"Acme","final_price":1000}}`)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "PERCENTAGE_SUM" {
			t.Fatalf("unexpected code: %s", body.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)

		uc.EXPECT().Convert(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, q entities.Quote, opts usecase.ConvertOptions) (usecase.ConversionResult, error) {
				if q.BusinessName != "Acme" || !q.FinalPrice.Equal(decimal.NewFromInt(1000)) {
					t.Fatalf("unexpected quote: %+v", q)
				}
				if opts.PaymentStructure != entities.PaymentStructureSingle {
					t.Fatalf("unexpected structure: %s", opts.PaymentStructure)
				}
				return usecase.ConversionResult{
					Contract: entities.Contract{ID: "con-1", Number: "CON-2026-000001", TotalAmount: q.FinalPrice},
					Summary:  usecase.ConversionSummary{TotalAmount: q.FinalPrice, NumberOfInvoices: 1, PreservedQuoteData: true},
				}, nil
			})

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/conversions", `{"quote":{"business_name":"Acme","final_price":"1000"},"options":{"payment_structure":"single"}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}

		var body struct {
			Contract struct {
				ID          string `json:"id"`
				TotalAmount string `json:"total_amount"`
			} `json:"contract"`
			Summary struct {
				TotalAmount string `json:"total_amount"`
			} `json:"summary"`
			Warnings []usecase.Issue `json:"warnings"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json response: %v", err)
		}
		if body.Contract.ID != "con-1" || body.Contract.TotalAmount != "1000.00" || body.Summary.TotalAmount != "1000.00" {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}
		if body.Warnings == nil {
			t.Fatalf("expected warnings array, got null")
		}
	})
}

func TestConversionHandler_Contracts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("contract not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().GetContract(gomock.Any(), "missing").Return(entities.Contract{}, &usecase.NotFoundError{Kind: "contract", ID: "missing"})

		w := doJSON(newConversionRouter(uc), http.MethodGet, "/v1/contracts/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "CONTRACT_NOT_FOUND" {
			t.Fatalf("unexpected code: %s", body.Code)
		}
	})

	t.Run("preview passes locale", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().PreviewContract(gomock.Any(), "con-1", "de-DE").Return(usecase.PopulatedContract{TemplateID: "standard", Locale: "de-DE"}, nil)

		w := doJSON(newConversionRouter(uc), http.MethodGet, "/v1/contracts/con-1/preview?locale=de-DE", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("templates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().Templates().Return(usecase.DefaultTemplates())

		w := doJSON(newConversionRouter(uc), http.MethodGet, "/v1/templates", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body []usecase.ContractTemplate
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || len(body) != 3 {
			t.Fatalf("unexpected templates: %s", w.Body.String())
		}
	})
}

func TestConversionHandler_Milestones(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("bad milestone number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/contracts/con-1/milestones/zero/invoices", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "INVALID_REQUEST" {
			t.Fatalf("expected INVALID_REQUEST, got %s", body.Code)
		}
	})

	t.Run("invoice milestone without body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		now := time.Now().UTC()
		uc.EXPECT().InvoiceMilestone(gomock.Any(), "con-1", 2, usecase.InvoiceOptions{}).
			Return(entities.Invoice{ID: "inv-2", Number: "INV-2026-0002", Status: entities.InvoiceStatusDraft, DueDate: now}, []usecase.Issue{{Code: "SMALL_MILESTONE", Message: "small"}}, nil)

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/contracts/con-1/milestones/2/invoices", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("already invoiced is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().InvoiceMilestone(gomock.Any(), "con-1", 1, gomock.Any()).
			Return(entities.Invoice{}, nil, &usecase.StateError{Message: "milestone 1 of contract CON-1 is already invoiced"})

		w := doJSON(newConversionRouter(uc), http.MethodPost, "/v1/contracts/con-1/milestones/1/invoices", `{"include_detailed_items":true}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("update milestone status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().UpdateMilestoneStatus(gomock.Any(), "con-1", 1, entities.MilestoneStatusInProgress).
			Return(entities.Contract{ID: "con-1"}, nil)

		w := doJSON(newConversionRouter(uc), http.MethodPatch, "/v1/contracts/con-1/milestones/1", `{"status":"in_progress"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unexpected error is internal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIConversionUseCase(ctrl)
		uc.EXPECT().UpdateMilestoneStatus(gomock.Any(), "con-1", 1, gomock.Any()).
			Return(entities.Contract{}, errors.New("mirror unavailable"))

		w := doJSON(newConversionRouter(uc), http.MethodPatch, "/v1/contracts/con-1/milestones/1", `{"status":"completed"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
