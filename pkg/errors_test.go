package pkg

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("boom")
	e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "INTERNAL_ERROR: An internal error occurred: boom", e.Error())
	assert.Equal(t, HTTPError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}, e.ToHTTPError())

	simple := NewDomainErrorSimple("INVOICE_NOT_FOUND", "Invoice not found", http.StatusNotFound).
		WithDetails(map[string]string{"id": "inv-1"})
	assert.Equal(t, "INVOICE_NOT_FOUND: Invoice not found", simple.Error())
	assert.Equal(t, map[string]string{"id": "inv-1"}, simple.ToHTTPError().Details)
	assert.Nil(t, errors.Unwrap(simple))
}
