package handler

import (
	"errors"
	"net/http"

	"github.com/strayline/casevault/internal/discount"
	"github.com/strayline/casevault/internal/domain"
	"github.com/strayline/casevault/internal/logger"
	"github.com/strayline/casevault/internal/metrics"
	"github.com/strayline/casevault/internal/opening"
	"github.com/strayline/casevault/internal/session"
)

// Action names accepted by the single action endpoint.
const (
	ActionOpenCases       = "openCases"
	ActionUpgradeDiscount = "upgradeDiscount"
	ActionPreviewCase     = "previewCase"
)

// ActionRequest is the flat envelope of POST /api/v1/action. Which optional
// fields matter depends on the action.
type ActionRequest struct {
	Action    string `json:"action" validate:"required,oneof=openCases upgradeDiscount previewCase"`
	UserID    string `json:"userId" validate:"required,max=64"`
	AuthToken string `json:"authToken" validate:"required"`
	CSRFToken string `json:"csrfToken"`

	CaseID   string `json:"caseId" validate:"max=64"`
	Quantity int    `json:"quantity" validate:"min=0,max=100"`
	Seed     string `json:"seed" validate:"max=128"`
}

// OpeningResponse wraps a successful opening or preview result.
type OpeningResponse struct {
	Success bool `json:"success"`
	*domain.OpeningResult
}

// DiscountUpgradeResponse reports the new level and what the next one costs.
type DiscountUpgradeResponse struct {
	Success    bool    `json:"success"`
	NewLevel   int     `json:"newLevel"`
	NewBalance float64 `json:"newBalance"`
	NextCost   float64 `json:"nextCost"`
}

type ActionHandler struct {
	opening  opening.Service
	discount discount.Service
	sessions session.Validator
	csrf     *session.CSRFValidator
}

func NewActionHandler(openingSvc opening.Service, discountSvc discount.Service, sessions session.Validator, csrf *session.CSRFValidator) *ActionHandler {
	return &ActionHandler{
		opening:  openingSvc,
		discount: discountSvc,
		sessions: sessions,
		csrf:     csrf,
	}
}

// HandleAction dispatches the action envelope. Session validation runs for
// every action; CSRF validation only for state-changing ones.
func (h *ActionHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Action"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())

	if err := h.sessions.Validate(r.Context(), req.UserID, req.AuthToken); err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			log.Warn("Session validation rejected request", "user_id", req.UserID, "action", req.Action)
			respondError(w, http.StatusUnauthorized, CodeUnauthorized)
			return
		}
		log.Error("Session validation unavailable", "error", err)
		respondError(w, http.StatusInternalServerError, CodeInternal)
		return
	}

	switch req.Action {
	case ActionOpenCases:
		h.handleOpenCases(w, r, req)
	case ActionUpgradeDiscount:
		h.handleUpgradeDiscount(w, r, req)
	case ActionPreviewCase:
		h.handlePreviewCase(w, r, req)
	default:
		respondError(w, http.StatusBadRequest, CodeValidation)
	}
}

// checkCSRF gates state-changing actions. Returns false with the response
// already written when the token does not match.
func (h *ActionHandler) checkCSRF(w http.ResponseWriter, r *http.Request, req ActionRequest) bool {
	if err := h.csrf.Validate(req.UserID, req.CSRFToken); err != nil {
		logger.FromContext(r.Context()).Warn("CSRF validation failed", "user_id", req.UserID, "action", req.Action)
		respondError(w, http.StatusForbidden, CodeCSRFInvalid)
		return false
	}
	return true
}

func (h *ActionHandler) handleOpenCases(w http.ResponseWriter, r *http.Request, req ActionRequest) {
	if !h.checkCSRF(w, r, req) {
		return
	}
	if req.CaseID == "" {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  CodeValidation,
			Fields: map[string]string{"caseid": "This field is required"},
		})
		return
	}

	result, err := h.opening.Open(r.Context(), domain.OpeningRequest{
		UserID:   req.UserID,
		CaseID:   req.CaseID,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondServiceError(w, r, "Open cases", err)
		return
	}

	respondJSON(w, http.StatusOK, OpeningResponse{Success: true, OpeningResult: result})
}

func (h *ActionHandler) handleUpgradeDiscount(w http.ResponseWriter, r *http.Request, req ActionRequest) {
	if !h.checkCSRF(w, r, req) {
		return
	}

	result, err := h.discount.Upgrade(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Upgrade discount", err)
		return
	}

	metrics.DiscountUpgrades.Inc()
	respondJSON(w, http.StatusOK, DiscountUpgradeResponse{
		Success:    true,
		NewLevel:   result.NewLevel,
		NewBalance: result.NewBalance,
		NextCost:   result.NextCost,
	})
}

func (h *ActionHandler) handlePreviewCase(w http.ResponseWriter, r *http.Request, req ActionRequest) {
	if req.CaseID == "" {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  CodeValidation,
			Fields: map[string]string{"caseid": "This field is required"},
		})
		return
	}

	result, err := h.opening.Preview(r.Context(), req.CaseID, req.Seed)
	if err != nil {
		respondServiceError(w, r, "Preview case", err)
		return
	}

	respondJSON(w, http.StatusOK, OpeningResponse{Success: true, OpeningResult: result})
}

// respondServiceError logs the failure and writes the mapped error payload
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error("Service call failed", "operation", opName, "error", err)
	status, payload := mapServiceError(err)
	respondJSON(w, status, payload)
}
