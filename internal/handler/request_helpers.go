package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/strayline/casevault/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON body into req and runs tag
// validation. When it returns an error the 400 response has already been
// written; the handler just returns.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, CodeValidation)
		return err
	}
	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  CodeValidation,
			Fields: FormatValidationError(err),
		})
		return err
	}
	return nil
}
