package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mlakar/hlev/internal/imaging"
	"github.com/mlakar/hlev/internal/model"
	"github.com/mlakar/hlev/internal/store"
)

// AnimalsHandler handles animal CRUD endpoints.
type AnimalsHandler struct {
	DB *sql.DB
}

type createAnimalRequest struct {
	Tag     string `json:"tag"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Notes   string `json:"notes"`
}

type updateAnimalRequest struct {
	Tag     string `json:"tag"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

// List handles GET /api/animals.
func (h *AnimalsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	var locationID int64
	if v := r.URL.Query().Get("location_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid location_id")
			return
		}
		locationID = id
	}

	animals, err := store.ListAnimals(r.Context(), h.DB, status, locationID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list animals")
		return
	}
	if animals == nil {
		animals = []model.Animal{}
	}
	jsonResponse(w, http.StatusOK, animals)
}

// Create handles POST /api/animals.
func (h *AnimalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAnimalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Tag == "" || req.Species == "" {
		jsonError(w, http.StatusBadRequest, "tag and species required")
		return
	}

	animal, err := store.CreateAnimal(r.Context(), h.DB, req.Tag, req.Name, req.Species, req.Notes)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create animal")
		return
	}

	jsonResponse(w, http.StatusCreated, animal)
}

// Get handles GET /api/animals/{id}.
func (h *AnimalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid animal id")
		return
	}

	animal, err := store.GetAnimal(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get animal")
		return
	}
	if animal == nil {
		jsonError(w, http.StatusNotFound, "animal not found")
		return
	}

	jsonResponse(w, http.StatusOK, animal)
}

// Update handles PUT /api/animals/{id}.
func (h *AnimalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid animal id")
		return
	}

	var req updateAnimalRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Tag == "" || req.Species == "" {
		jsonError(w, http.StatusBadRequest, "tag and species required")
		return
	}

	if req.Status == "" {
		req.Status = model.AnimalStatusActive
	}
	if req.Status != model.AnimalStatusActive && req.Status != model.AnimalStatusInactive {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := store.UpdateAnimal(r.Context(), h.DB, id, req.Tag, req.Name, req.Species, req.Status, req.Notes); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update animal")
		return
	}

	animal, _ := store.GetAnimal(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, animal)
}

// Delete handles DELETE /api/animals/{id}.
func (h *AnimalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid animal id")
		return
	}

	if err := store.DeleteAnimal(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete animal")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "animal deleted"})
}

// UploadPhoto handles PUT /api/animals/{id}/photo.
func (h *AnimalsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid animal id")
		return
	}

	animal, err := store.GetAnimal(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get animal")
		return
	}
	if animal == nil {
		jsonError(w, http.StatusNotFound, "animal not found")
		return
	}

	// Limit to 10 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	// Format validation happens inside Process by byte sniffing.
	result, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetAnimalPhoto(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/animals/{id}/photo.
func (h *AnimalsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid animal id")
		return
	}

	data, mime, err := store.GetAnimalPhoto(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// GetHistory handles GET /api/animals/{id}/history.
func (h *AnimalsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid animal id")
		return
	}

	history, err := store.GetAnimalHistory(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get animal history")
		return
	}
	if history == nil {
		history = []model.Transfer{}
	}
	jsonResponse(w, http.StatusOK, history)
}
