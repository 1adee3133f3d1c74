package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"mini-shop/internal/catalog"
	"mini-shop/internal/onboarding"
	"mini-shop/internal/service"

	"github.com/rs/zerolog"
)

// OnboardingHandler drives the admin import and analysis endpoints.
type OnboardingHandler struct {
	onboarding *onboarding.Service
	products   service.ProductService
	logger     zerolog.Logger
}

// NewOnboardingHandler creates a new onboarding handler.
func NewOnboardingHandler(
	onboardingService *onboarding.Service,
	productService service.ProductService,
	logger zerolog.Logger,
) *OnboardingHandler {
	return &OnboardingHandler{
		onboarding: onboardingService,
		products:   productService,
		logger:     logger.With().Str("handler", "onboarding").Logger(),
	}
}

// Import handles POST /api/admin/import requests: a multipart CSV upload
// parsed into a preview without touching the catalogue.
func (h *OnboardingHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := r.ParseMultipartForm(catalog.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "feed file is required", h.logger)
		return
	}
	defer file.Close()

	if err := catalog.ValidateUpload(header.Filename, header.Size); err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusBadRequest, "invalid feed file", h.logger)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, catalog.MaxUploadSize))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read feed file", h.logger)
		return
	}

	if err := h.onboarding.SetUpload(header.Filename, data); err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusBadRequest, "invalid feed file", h.logger)
		return
	}

	result, err := h.onboarding.Preview()
	if err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse feed file", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ImportApply handles POST /api/admin/import/apply requests, installing the
// previously uploaded feed as the live catalogue.
func (h *OnboardingHandler) ImportApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	result, err := h.onboarding.Preview()
	if err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusBadRequest, "no feed file uploaded", h.logger)
		return
	}

	if err := h.products.ReplaceAll(r.Context(), result.Products); err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to install catalogue", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Survey routes GET and POST /api/admin/survey.
func (h *OnboardingHandler) Survey(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		survey := h.onboarding.Survey()
		if survey == nil {
			writeError(w, http.StatusNotFound, "survey not captured yet", h.logger)
			return
		}
		writeJSON(w, http.StatusOK, survey)
	case http.MethodPost:
		var survey onboarding.Survey
		if err := json.NewDecoder(r.Body).Decode(&survey); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}
		h.onboarding.SetSurvey(survey)
		writeJSON(w, http.StatusOK, survey)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// Analyze routes GET (pipeline state) and POST (start run) on
// /api/admin/analyze.
func (h *OnboardingHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.onboarding.State())
	case http.MethodPost:
		// The pipeline outlives the request, so it must not inherit the
		// request context.
		if err := h.onboarding.Run(context.Background()); err != nil {
			if writeDomainError(w, err, h.logger) {
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to start analysis", h.logger)
			return
		}
		writeJSON(w, http.StatusAccepted, h.onboarding.State())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}
