package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"garderoba/internal/model"
	"garderoba/internal/query"
	"garderoba/internal/store"
)

// OutfitsHandler handles outfit CRUD, composition, and score endpoints.
type OutfitsHandler struct {
	DB *sql.DB
}

type createOutfitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

type updateOutfitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
	Flagged     *bool   `json:"flagged"`
}

type setScoreRequest struct {
	Score int64 `json:"score"`
}

// List handles GET /api/outfits.
func (h *OutfitsHandler) List(w http.ResponseWriter, r *http.Request) {
	outfits, err := store.ListOutfits(r.Context(), h.DB, query.Normalize(r.URL.Query()))
	if err != nil {
		storeError(w, err, "failed to list outfits")
		return
	}
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	jsonResponse(w, http.StatusOK, outfits)
}

// Create handles POST /api/outfits.
func (h *OutfitsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOutfitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outfit, err := store.CreateOutfit(r.Context(), h.DB, store.OutfitParams{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		storeError(w, err, "failed to create outfit")
		return
	}
	jsonResponse(w, http.StatusCreated, outfit)
}

// Get handles GET /api/outfits/{id}, returning the outfit together
// with its composed components.
func (h *OutfitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	outfit, err := store.GetOutfit(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get outfit")
		return
	}

	components, err := store.ListOutfitComponents(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to list outfit components")
		return
	}
	if components == nil {
		components = []model.Component{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"outfit":     outfit,
		"components": components,
	})
}

// Update handles PUT /api/outfits/{id}.
func (h *OutfitsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	var req updateOutfitRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outfit, err := store.UpdateOutfit(r.Context(), h.DB, id, store.OutfitUpdate{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
		Flagged:     req.Flagged,
	})
	if err != nil {
		storeError(w, err, "failed to update outfit")
		return
	}
	jsonResponse(w, http.StatusOK, outfit)
}

// Delete handles DELETE /api/outfits/{id} (soft delete, cascades to links).
func (h *OutfitsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	if err := store.DeactivateOutfit(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to deactivate outfit")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "outfit deactivated"})
}

// Components handles GET /api/outfits/{id}/components.
func (h *OutfitsHandler) Components(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	components, err := store.ListOutfitComponents(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to list outfit components")
		return
	}
	if components == nil {
		components = []model.Component{}
	}
	jsonResponse(w, http.StatusOK, components)
}

// AddComponent handles POST /api/outfits/{id}/components/{comid}.
func (h *OutfitsHandler) AddComponent(w http.ResponseWriter, r *http.Request) {
	outfitID, componentID, ok := composePathIDs(w, r)
	if !ok {
		return
	}

	outfit, err := store.AddComponent(r.Context(), h.DB, outfitID, componentID)
	if err != nil {
		storeError(w, err, "failed to add component")
		return
	}
	jsonResponse(w, http.StatusOK, outfit)
}

// RemoveComponent handles DELETE /api/outfits/{id}/components/{comid}.
func (h *OutfitsHandler) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	outfitID, componentID, ok := composePathIDs(w, r)
	if !ok {
		return
	}

	outfit, err := store.RemoveComponent(r.Context(), h.DB, outfitID, componentID)
	if err != nil {
		storeError(w, err, "failed to remove component")
		return
	}
	jsonResponse(w, http.StatusOK, outfit)
}

// IncrementScore handles POST /api/outfits/{id}/score/increment.
func (h *OutfitsHandler) IncrementScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	score, err := store.IncrementScore(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to increment score")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"score": score})
}

// DecrementScore handles POST /api/outfits/{id}/score/decrement.
func (h *OutfitsHandler) DecrementScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	score, err := store.DecrementScore(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to decrement score")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"score": score})
}

// SetScore handles PUT /api/outfits/{id}/score.
func (h *OutfitsHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return
	}

	var req setScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	score, err := store.SetScore(r.Context(), h.DB, id, req.Score)
	if err != nil {
		storeError(w, err, "failed to set score")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"score": score})
}

func composePathIDs(w http.ResponseWriter, r *http.Request) (outfitID, componentID int64, ok bool) {
	outfitID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid outfit id")
		return 0, 0, false
	}
	componentID, err = strconv.ParseInt(r.PathValue("comid"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid component id")
		return 0, 0, false
	}
	return outfitID, componentID, true
}
