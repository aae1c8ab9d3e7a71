package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/iota-uz/atlas/pkg/serrors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Code   string            `json:"code"`
	Errors map[string]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &apiError{Code: code, Message: message})
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, errs serrors.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, &validationErrorResponse{
		Code:   "VALIDATION_FAILED",
		Errors: serrors.LocalizeValidationErrors(r.Context(), errs),
	})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var base *serrors.Base
	if !errors.As(err, &base) {
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch base.Code {
	case "GEO_AREA_NOT_FOUND",
		"PROGRAMS_VENUE_NOT_FOUND",
		"PROGRAMS_PARTICIPANT_NOT_FOUND",
		"PROGRAMS_ACTIVITY_NOT_FOUND":
		status = http.StatusNotFound
	}
	writeAPIError(w, status, base.Code, base.Localized(r.Context()))
}
