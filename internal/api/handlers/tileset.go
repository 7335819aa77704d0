package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/dom/emblem-vtt/internal/api/middleware"
	"github.com/dom/emblem-vtt/internal/service"
)

// Tileset uploads are capped well above the 4096-tile ceiling; oversized
// bodies fail fast instead of buffering.
const maxTileSetUploadBytes = 32 << 20

type TileSetHandler struct {
	tileSetService *service.TileSetService
}

func NewTileSetHandler(tileSetService *service.TileSetService) *TileSetHandler {
	return &TileSetHandler{tileSetService: tileSetService}
}

// Upload takes a multipart form with an "image" file plus the slicing
// parameters as form fields.
func (h *TileSetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTileSetUploadBytes)
	if err := r.ParseMultipartForm(maxTileSetUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read image file"})
		return
	}

	columns, _ := strconv.Atoi(r.FormValue("columns"))
	rows, _ := strconv.Atoi(r.FormValue("rows"))
	tileSizeX, _ := strconv.Atoi(r.FormValue("tileSizeX"))
	tileSizeY, _ := strconv.Atoi(r.FormValue("tileSizeY"))

	set, err := h.tileSetService.Upload(r.Context(), campaignID, userID, service.UploadTileSetInput{
		Name:      r.FormValue("name"),
		Columns:   columns,
		Rows:      rows,
		TileSizeX: tileSizeX,
		TileSizeY: tileSizeY,
		Image:     imageData,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, set)
}

func (h *TileSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	tileSetID, ok := parseUUIDParam(w, r, "tileSetId")
	if !ok {
		return
	}

	set, err := h.tileSetService.Get(r.Context(), tileSetID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

func (h *TileSetHandler) ListByCampaign(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	campaignID, ok := parseUUIDParam(w, r, "campaignId")
	if !ok {
		return
	}

	sets, err := h.tileSetService.ListByCampaign(r.Context(), campaignID, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sets)
}
