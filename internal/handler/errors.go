package handler

import (
	"errors"
	"net/http"

	"github.com/strayline/casevault/internal/domain"
)

// Stable error codes returned in the "error" field. Clients switch on these,
// never on message text.
const (
	CodeValidation             = "VALIDATION"
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeInventoryFull          = "INVENTORY_FULL"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeCSRFInvalid            = "CSRF_INVALID"
	CodePassRequired           = "PASS_REQUIRED"
	CodeCaseNotFound           = "CASE_NOT_FOUND"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeMaxDiscountLevel       = "MAX_DISCOUNT_LEVEL"
	CodeRateLimited            = "RATE_LIMITED"
	CodeInternal               = "INTERNAL"
)

// insufficientFundsPayload tells the client the shortfall figures.
type insufficientFundsPayload struct {
	Error    string  `json:"error"`
	Balance  float64 `json:"balance"`
	Required float64 `json:"required"`
}

// inventoryFullPayload tells the client how many slots remain.
type inventoryFullPayload struct {
	Error     string `json:"error"`
	Current   int    `json:"current"`
	Max       int    `json:"max"`
	Available int    `json:"available"`
}

// passRequiredPayload names the pass gating the rejected multi-open.
type passRequiredPayload struct {
	Error        string `json:"error"`
	RequiredPass string `json:"requiredPass"`
}

// persistFailurePayload reports a post-debit failure. Refunded false means
// the compensating credit also failed and support has to reconcile manually.
type persistFailurePayload struct {
	Error    string  `json:"error"`
	Refunded bool    `json:"refunded"`
	Amount   float64 `json:"amount"`
}

// mapServiceError converts a service error into an HTTP status and a
// response payload with a stable code plus whatever context the error type
// carries.
func mapServiceError(err error) (int, interface{}) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: CodeInternal}
	}

	var fundsErr *domain.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return http.StatusBadRequest, insufficientFundsPayload{
			Error:    CodeInsufficientFunds,
			Balance:  fundsErr.Balance,
			Required: fundsErr.Required,
		}
	}

	var capErr *domain.CapacityError
	if errors.As(err, &capErr) {
		return http.StatusBadRequest, inventoryFullPayload{
			Error:     CodeInventoryFull,
			Current:   capErr.Current,
			Max:       capErr.Max,
			Available: capErr.Available(),
		}
	}

	var passErr *domain.PassRequiredError
	if errors.As(err, &passErr) {
		return http.StatusForbidden, passRequiredPayload{
			Error:        CodePassRequired,
			RequiredPass: string(passErr.RequiredPass),
		}
	}

	var persistErr *domain.RewardPersistError
	if errors.As(err, &persistErr) {
		return http.StatusInternalServerError, persistFailurePayload{
			Error:    CodeInternal,
			Refunded: persistErr.Refunded,
			Amount:   persistErr.Amount,
		}
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrorResponse{Error: CodeInsufficientFunds}
	case errors.Is(err, domain.ErrInventoryFull):
		return http.StatusBadRequest, ErrorResponse{Error: CodeInventoryFull}
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: CodeValidation}
	case errors.Is(err, domain.ErrMaxDiscountLevel):
		return http.StatusBadRequest, ErrorResponse{Error: CodeMaxDiscountLevel}
	case errors.Is(err, domain.ErrSessionInvalid):
		return http.StatusUnauthorized, ErrorResponse{Error: CodeUnauthorized}
	case errors.Is(err, domain.ErrCSRFInvalid):
		return http.StatusForbidden, ErrorResponse{Error: CodeCSRFInvalid}
	case errors.Is(err, domain.ErrPassRequired):
		return http.StatusForbidden, ErrorResponse{Error: CodePassRequired}
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound, ErrorResponse{Error: CodeCaseNotFound}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Error: CodeUserNotFound}
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, ErrorResponse{Error: CodeConcurrentModification}
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{Error: CodeRateLimited}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: CodeInternal}
}
