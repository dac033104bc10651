package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mlakar/hlev/internal/model"
	"github.com/mlakar/hlev/internal/store"
)

// SamplesHandler handles blood sample endpoints.
type SamplesHandler struct {
	DB *sql.DB
}

type createSampleRequest struct {
	AnimalID int64  `json:"animal_id"`
	TestType string `json:"test_type"`
	Notes    string `json:"notes"`
}

type sampleResultRequest struct {
	Result string `json:"result"`
}

// List handles GET /api/samples.
func (h *SamplesHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	var animalID int64
	if v := r.URL.Query().Get("animal_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid animal_id")
			return
		}
		animalID = id
	}

	samples, err := store.ListSamples(r.Context(), h.DB, animalID, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list samples")
		return
	}
	if samples == nil {
		samples = []model.Sample{}
	}
	jsonResponse(w, http.StatusOK, samples)
}

// Create handles POST /api/samples.
func (h *SamplesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSampleRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.AnimalID <= 0 || req.TestType == "" {
		jsonError(w, http.StatusBadRequest, "animal_id and test_type required")
		return
	}

	sample, err := store.CreateSample(r.Context(), h.DB, req.AnimalID, req.TestType, req.Notes, userID(r.Context()))
	if err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, sample)
}

// Get handles GET /api/samples/{id}.
func (h *SamplesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sample id")
		return
	}

	sample, err := store.GetSample(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get sample")
		return
	}
	if sample == nil {
		jsonError(w, http.StatusNotFound, "sample not found")
		return
	}

	jsonResponse(w, http.StatusOK, sample)
}

// RecordResult handles PUT /api/samples/{id}/result.
func (h *SamplesHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sample id")
		return
	}

	var req sampleResultRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Result == "" {
		jsonError(w, http.StatusBadRequest, "result required")
		return
	}

	sample, err := store.RecordSampleResult(r.Context(), h.DB, id, req.Result)
	if err != nil {
		storeError(w, err)
		return
	}

	slog.Info("sample result recorded", "sample", sample.ID, "animal", sample.AnimalTag, "test", sample.TestType)
	jsonResponse(w, http.StatusOK, sample)
}
