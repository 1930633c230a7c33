package api

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strconv"

	"garderoba/internal/imaging"
	"garderoba/internal/store"
)

// ImagesHandler handles image upload and retrieval for components and
// outfits. Uploads run through the ingest pipeline; what gets stored is
// always the canonical JPEG blob, and thumbnails are derived from it on
// demand.
type ImagesHandler struct {
	DB        *sql.DB
	Processor *imaging.Processor
}

type blobSetter func(ctx context.Context, db *sql.DB, id int64, image []byte) error
type blobGetter func(ctx context.Context, db *sql.DB, id int64) ([]byte, error)

// UploadComponentImage handles PUT /api/components/{id}/image.
func (h *ImagesHandler) UploadComponentImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, store.SetComponentImage)
}

// GetComponentImage handles GET /api/components/{id}/image.
func (h *ImagesHandler) GetComponentImage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, store.GetComponentImage, false)
}

// GetComponentThumbnail handles GET /api/components/{id}/image/thumbnail.
func (h *ImagesHandler) GetComponentThumbnail(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, store.GetComponentImage, true)
}

// UploadOutfitImage handles PUT /api/outfits/{id}/image.
func (h *ImagesHandler) UploadOutfitImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, store.SetOutfitImage)
}

// GetOutfitImage handles GET /api/outfits/{id}/image.
func (h *ImagesHandler) GetOutfitImage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, store.GetOutfitImage, false)
}

// GetOutfitThumbnail handles GET /api/outfits/{id}/image/thumbnail.
func (h *ImagesHandler) GetOutfitThumbnail(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, store.GetOutfitImage, true)
}

// DeleteComponentImage handles DELETE /api/components/{id}/image.
func (h *ImagesHandler) DeleteComponentImage(w http.ResponseWriter, r *http.Request) {
	h.clear(w, r, store.SetComponentImage)
}

// DeleteOutfitImage handles DELETE /api/outfits/{id}/image.
func (h *ImagesHandler) DeleteOutfitImage(w http.ResponseWriter, r *http.Request) {
	h.clear(w, r, store.SetOutfitImage)
}

func (h *ImagesHandler) upload(w http.ResponseWriter, r *http.Request, set blobSetter) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	// Cap the request a little above the pipeline's own limit so the
	// size gate, not the multipart reader, decides "too large".
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+(1<<20))

	if err := r.ParseMultipartForm(imaging.MaxUploadSize + (1 << 20)); err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	blob, err := h.Processor.Ingest(r.Context(), raw)
	if err != nil {
		imagingError(w, err)
		return
	}

	if err := set(r.Context(), h.DB, id, blob); err != nil {
		storeError(w, err, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image saved"})
}

func (h *ImagesHandler) serve(w http.ResponseWriter, r *http.Request, get blobGetter, thumbnail bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	blob, err := get(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get image")
		return
	}
	if blob == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	if thumbnail {
		blob, err = imaging.Thumbnail(blob)
		if err != nil {
			imagingError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(blob)
}

func (h *ImagesHandler) clear(w http.ResponseWriter, r *http.Request, set blobSetter) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := set(r.Context(), h.DB, id, nil); err != nil {
		storeError(w, err, "failed to clear image")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image cleared"})
}
