package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/openleague/league-system/middleware"
	"github.com/openleague/league-system/services"
)

// maxEvidenceFileBytes caps multipart evidence uploads at 10MB.
const maxEvidenceFileBytes = 10 << 20

type EvidenceHandler struct {
	evidenceService services.EvidenceService
}

func NewEvidenceHandler(es services.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidenceService: es}
}

type submitEvidenceInput struct {
	EvidenceURL string  `json:"evidence_url"`
	Description *string `json:"description"`
}

func (h *EvidenceHandler) SubmitEvidence(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitEvidenceInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	submittedBy, err := middleware.GetGamerTagFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	evidence, err := h.evidenceService.SubmitEvidence(r.Context(), services.SubmitEvidenceInput{
		MatchID:     matchID,
		EvidenceURL: input.EvidenceURL,
		SubmittedBy: submittedBy,
		Description: input.Description,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"evidence": evidence,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EvidenceHandler) ListEvidence(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	evidence, err := h.evidenceService.ListEvidence(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"evidence": evidence,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadEvidence accepts a multipart form with a "file" part and an optional
// "description" field, stores the file, and records the resulting URL as an
// evidence entry.
func (h *EvidenceHandler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	submittedBy, err := middleware.GetGamerTagFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := r.ParseMultipartForm(maxEvidenceFileBytes); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("a 'file' form field is required"))
		return
	}
	defer file.Close()

	var description *string
	if desc := r.FormValue("description"); desc != "" {
		description = &desc
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	evidence, err := h.evidenceService.UploadEvidenceFile(r.Context(), services.UploadEvidenceFileInput{
		MatchID:     matchID,
		FileName:    header.Filename,
		ContentType: contentType,
		Body:        file,
		SubmittedBy: submittedBy,
		Description: description,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"evidence": evidence,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
