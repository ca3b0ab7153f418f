package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookcircleapp/bookcircle-server/internal/http/response"
)

// Cover routes use chi directly for streaming bytes in and out; huma stays
// out of the way for binary payloads.
func (s *Server) registerCoverRoutes() {
	s.router.Post("/api/v1/books/{id}/cover", s.handleUploadCover)
	s.router.Get("/api/v1/books/{id}/cover", s.handleGetCover)
}

func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticateRequest(r.Header.Get("Authorization"))
	if err != nil {
		response.Unauthorized(w, "Invalid or missing token", s.logger)
		return
	}

	bookID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		response.BadRequest(w, "Invalid multipart form or file too large", s.logger)
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		response.BadRequest(w, "Missing cover file field", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read cover file", s.logger)
		return
	}

	if err := s.services.Catalog.SetCover(r.Context(), bookID, userID, data, header.Filename); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"id": bookID}, s.logger)
}

func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateRequest(r.Header.Get("Authorization")); err != nil {
		response.Unauthorized(w, "Invalid or missing token", s.logger)
		return
	}

	bookID := chi.URLParam(r, "id")

	data, err := s.services.Catalog.GetCover(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", CacheOneDay)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
