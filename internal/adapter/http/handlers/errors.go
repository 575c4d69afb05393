package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contract_billing/internal/usecase"
	"contract_billing/pkg"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_PAYLOAD", "Invalid request payload", http.StatusBadRequest)
)

// invalidPayload reports a body field that bound but could not be interpreted.
func invalidPayload(err error) *pkg.AppError {
	return pkg.NewDomainErrorSimple("INVALID_PAYLOAD", err.Error(), http.StatusBadRequest)
}

// invalidRequest reports a bad path or query parameter.
func invalidRequest(err error) *pkg.AppError {
	return pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
}

// mapUseCaseError translates the engine error taxonomy to HTTP.
func mapUseCaseError(err error) *pkg.AppError {
	var (
		schemaErr   *usecase.SchemaError
		ruleErr     *usecase.BusinessRuleError
		notFoundErr *usecase.NotFoundError
		stateErr    *usecase.StateError
	)
	switch {
	case errors.As(err, &schemaErr):
		return pkg.NewDomainErrorSimple("VALIDATION_FAILED", "Validation failed", http.StatusBadRequest).
			WithDetails(schemaErr.Fields)
	case errors.As(err, &ruleErr):
		code := "BUSINESS_RULE_VIOLATION"
		if len(ruleErr.Issues) == 1 {
			code = ruleErr.Issues[0].Code
		}
		return pkg.NewDomainErrorSimple(code, "Business rule violated", http.StatusUnprocessableEntity).
			WithDetails(ruleErr.Issues)
	case errors.As(err, &notFoundErr):
		code := strings.ToUpper(strings.ReplaceAll(notFoundErr.Kind, " ", "_")) + "_NOT_FOUND"
		return pkg.NewDomainErrorSimple(code, notFoundErr.Error(), http.StatusNotFound)
	case errors.As(err, &stateErr):
		return pkg.NewDomainErrorSimple("INVALID_STATE", stateErr.Message, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func abortWith(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
