package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"garderoba/internal/model"
	"garderoba/internal/query"
	"garderoba/internal/store"
)

// ComponentsHandler handles component CRUD endpoints.
type ComponentsHandler struct {
	DB *sql.DB
}

type createComponentRequest struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Cost        int64  `json:"cost"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	VendorID    *int64 `json:"vendor_id"`
	PieceID     *int64 `json:"piece_id"`
}

type updateComponentRequest struct {
	Name        *string `json:"name"`
	Brand       *string `json:"brand"`
	Cost        *int64  `json:"cost"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
	VendorID    *int64  `json:"vendor_id"`
	PieceID     *int64  `json:"piece_id"`
	ClearVendor bool    `json:"clear_vendor"`
	ClearPiece  bool    `json:"clear_piece"`
	Flagged     *bool   `json:"flagged"`
}

// List handles GET /api/components.
func (h *ComponentsHandler) List(w http.ResponseWriter, r *http.Request) {
	components, err := store.ListComponents(r.Context(), h.DB, query.Normalize(r.URL.Query()))
	if err != nil {
		storeError(w, err, "failed to list components")
		return
	}
	if components == nil {
		components = []model.Component{}
	}
	jsonResponse(w, http.StatusOK, components)
}

// Create handles POST /api/components.
func (h *ComponentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createComponentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	component, err := store.CreateComponent(r.Context(), h.DB, store.ComponentParams{
		Name:        req.Name,
		Brand:       req.Brand,
		Cost:        req.Cost,
		Description: req.Description,
		Notes:       req.Notes,
		VendorID:    req.VendorID,
		PieceID:     req.PieceID,
	})
	if err != nil {
		storeError(w, err, "failed to create component")
		return
	}
	jsonResponse(w, http.StatusCreated, component)
}

// Get handles GET /api/components/{id}.
func (h *ComponentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	component, err := store.GetComponent(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get component")
		return
	}
	jsonResponse(w, http.StatusOK, component)
}

// Update handles PUT /api/components/{id}.
func (h *ComponentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	var req updateComponentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	component, err := store.UpdateComponent(r.Context(), h.DB, id, store.ComponentUpdate{
		Name:        req.Name,
		Brand:       req.Brand,
		Cost:        req.Cost,
		Description: req.Description,
		Notes:       req.Notes,
		VendorID:    req.VendorID,
		PieceID:     req.PieceID,
		ClearVendor: req.ClearVendor,
		ClearPiece:  req.ClearPiece,
		Flagged:     req.Flagged,
	})
	if err != nil {
		storeError(w, err, "failed to update component")
		return
	}
	jsonResponse(w, http.StatusOK, component)
}

// Delete handles DELETE /api/components/{id} (soft delete).
func (h *ComponentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	if err := store.DeactivateComponent(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to deactivate component")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "component deactivated"})
}

// Outfits handles GET /api/components/{id}/outfits.
func (h *ComponentsHandler) Outfits(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	outfits, err := store.ListComponentOutfits(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to list component outfits")
		return
	}
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	jsonResponse(w, http.StatusOK, outfits)
}
