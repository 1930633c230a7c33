package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"garderoba/internal/model"
	"garderoba/internal/query"
	"garderoba/internal/store"
)

// PiecesHandler handles clothing category CRUD endpoints.
type PiecesHandler struct {
	DB *sql.DB
}

type createPieceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updatePieceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /api/pieces.
func (h *PiecesHandler) List(w http.ResponseWriter, r *http.Request) {
	pieces, err := store.ListPieces(r.Context(), h.DB, query.Normalize(r.URL.Query()))
	if err != nil {
		storeError(w, err, "failed to list pieces")
		return
	}
	if pieces == nil {
		pieces = []model.Piece{}
	}
	jsonResponse(w, http.StatusOK, pieces)
}

// Create handles POST /api/pieces.
func (h *PiecesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPieceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	piece, err := store.CreatePiece(r.Context(), h.DB, req.Name, req.Description)
	if err != nil {
		storeError(w, err, "failed to create piece")
		return
	}
	jsonResponse(w, http.StatusCreated, piece)
}

// Get handles GET /api/pieces/{id}.
func (h *PiecesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid piece id")
		return
	}

	piece, err := store.GetPiece(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get piece")
		return
	}
	jsonResponse(w, http.StatusOK, piece)
}

// Update handles PUT /api/pieces/{id}.
func (h *PiecesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid piece id")
		return
	}

	var req updatePieceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	piece, err := store.UpdatePiece(r.Context(), h.DB, id, store.PieceUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		storeError(w, err, "failed to update piece")
		return
	}
	jsonResponse(w, http.StatusOK, piece)
}

// Delete handles DELETE /api/pieces/{id} (soft delete).
func (h *PiecesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid piece id")
		return
	}

	if err := store.DeactivatePiece(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to deactivate piece")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "piece deactivated"})
}
