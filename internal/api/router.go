package api

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"garderoba/internal/imaging"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, logger *zap.Logger, processor *imaging.Processor) http.Handler {
	mux := http.NewServeMux()

	vendorsHandler := &VendorsHandler{DB: db}
	piecesHandler := &PiecesHandler{DB: db}
	componentsHandler := &ComponentsHandler{DB: db}
	outfitsHandler := &OutfitsHandler{DB: db}
	imagesHandler := &ImagesHandler{DB: db, Processor: processor}

	// Vendors.
	mux.HandleFunc("GET /api/vendors", vendorsHandler.List)
	mux.HandleFunc("POST /api/vendors", vendorsHandler.Create)
	mux.HandleFunc("GET /api/vendors/{id}", vendorsHandler.Get)
	mux.HandleFunc("PUT /api/vendors/{id}", vendorsHandler.Update)
	mux.HandleFunc("DELETE /api/vendors/{id}", vendorsHandler.Delete)

	// Pieces.
	mux.HandleFunc("GET /api/pieces", piecesHandler.List)
	mux.HandleFunc("POST /api/pieces", piecesHandler.Create)
	mux.HandleFunc("GET /api/pieces/{id}", piecesHandler.Get)
	mux.HandleFunc("PUT /api/pieces/{id}", piecesHandler.Update)
	mux.HandleFunc("DELETE /api/pieces/{id}", piecesHandler.Delete)

	// Components.
	mux.HandleFunc("GET /api/components", componentsHandler.List)
	mux.HandleFunc("POST /api/components", componentsHandler.Create)
	mux.HandleFunc("GET /api/components/{id}", componentsHandler.Get)
	mux.HandleFunc("PUT /api/components/{id}", componentsHandler.Update)
	mux.HandleFunc("DELETE /api/components/{id}", componentsHandler.Delete)
	mux.HandleFunc("GET /api/components/{id}/outfits", componentsHandler.Outfits)
	mux.HandleFunc("PUT /api/components/{id}/image", imagesHandler.UploadComponentImage)
	mux.HandleFunc("GET /api/components/{id}/image", imagesHandler.GetComponentImage)
	mux.HandleFunc("DELETE /api/components/{id}/image", imagesHandler.DeleteComponentImage)
	mux.HandleFunc("GET /api/components/{id}/image/thumbnail", imagesHandler.GetComponentThumbnail)

	// Outfits, composition, and score.
	mux.HandleFunc("GET /api/outfits", outfitsHandler.List)
	mux.HandleFunc("POST /api/outfits", outfitsHandler.Create)
	mux.HandleFunc("GET /api/outfits/{id}", outfitsHandler.Get)
	mux.HandleFunc("PUT /api/outfits/{id}", outfitsHandler.Update)
	mux.HandleFunc("DELETE /api/outfits/{id}", outfitsHandler.Delete)
	mux.HandleFunc("GET /api/outfits/{id}/components", outfitsHandler.Components)
	mux.HandleFunc("POST /api/outfits/{id}/components/{comid}", outfitsHandler.AddComponent)
	mux.HandleFunc("DELETE /api/outfits/{id}/components/{comid}", outfitsHandler.RemoveComponent)
	mux.HandleFunc("POST /api/outfits/{id}/score/increment", outfitsHandler.IncrementScore)
	mux.HandleFunc("POST /api/outfits/{id}/score/decrement", outfitsHandler.DecrementScore)
	mux.HandleFunc("PUT /api/outfits/{id}/score", outfitsHandler.SetScore)
	mux.HandleFunc("PUT /api/outfits/{id}/image", imagesHandler.UploadOutfitImage)
	mux.HandleFunc("GET /api/outfits/{id}/image", imagesHandler.GetOutfitImage)
	mux.HandleFunc("DELETE /api/outfits/{id}/image", imagesHandler.DeleteOutfitImage)
	mux.HandleFunc("GET /api/outfits/{id}/image/thumbnail", imagesHandler.GetOutfitThumbnail)

	var handler http.Handler = mux
	handler = RecoverMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)
	return handler
}
