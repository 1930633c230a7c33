package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"garderoba/internal/model"
	"garderoba/internal/query"
	"garderoba/internal/store"
)

// VendorsHandler handles vendor CRUD endpoints.
type VendorsHandler struct {
	DB *sql.DB
}

type createVendorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateVendorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Flagged     *bool   `json:"flagged"`
}

// List handles GET /api/vendors.
func (h *VendorsHandler) List(w http.ResponseWriter, r *http.Request) {
	vendors, err := store.ListVendors(r.Context(), h.DB, query.Normalize(r.URL.Query()))
	if err != nil {
		storeError(w, err, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	jsonResponse(w, http.StatusOK, vendors)
}

// Create handles POST /api/vendors.
func (h *VendorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vendor, err := store.CreateVendor(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		storeError(w, err, "failed to create vendor")
		return
	}

	jsonResponse(w, http.StatusCreated, vendor)
}

// Get handles GET /api/vendors/{id}.
func (h *VendorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	vendor, err := store.GetVendor(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get vendor")
		return
	}
	jsonResponse(w, http.StatusOK, vendor)
}

// Update handles PUT /api/vendors/{id}.
func (h *VendorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	var req updateVendorRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vendor, err := store.UpdateVendor(r.Context(), h.DB, id, store.VendorUpdate{
		Name:        req.Name,
		Description: req.Description,
		Flagged:     req.Flagged,
	})
	if err != nil {
		storeError(w, err, "failed to update vendor")
		return
	}
	jsonResponse(w, http.StatusOK, vendor)
}

// Delete handles DELETE /api/vendors/{id} (soft delete).
func (h *VendorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid vendor id")
		return
	}

	if err := store.DeactivateVendor(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to deactivate vendor")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "vendor deactivated"})
}
