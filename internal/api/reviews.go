package api

import (
	"fmt"
	"io"
	"net/http"
)

type analyzeReq struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var in analyzeReq
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	u := userFromCtx(r.Context())
	created, err := s.reviews.Analyze(r.Context(), u.ID, in.Code, in.Language)
	if err != nil {
		s.writeReviewError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read file: %v", err))
		return
	}

	u := userFromCtx(r.Context())
	created, err := s.reviews.AnalyzeUpload(r.Context(), u.ID, data, header.Filename, r.FormValue("language"))
	if err != nil {
		s.writeReviewError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	u := userFromCtx(r.Context())
	history, err := s.reviews.History(r.Context(), u.ID)
	if err != nil {
		s.writeReviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	u := userFromCtx(r.Context())
	rev, err := s.reviews.Get(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		s.writeReviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	u := userFromCtx(r.Context())
	if err := s.reviews.Delete(r.Context(), u.ID, r.PathValue("id")); err != nil {
		s.writeReviewError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
