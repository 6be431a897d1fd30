package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"studio-space/internal/director"
	"studio-space/internal/gemini"
	"studio-space/internal/normalize"
	"studio-space/internal/storyboard"
	"studio-space/internal/studio"
	"studio-space/internal/ws"
)

const maxUploadBytes = 25 << 20

type apiError struct {
	Error string `json:"error"`
}

type generateRequest struct {
	director.Request
	Image *imagePayload `json:"image,omitempty"`
}

type imagePayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type enhanceRequest struct {
	Concept string `json:"concept"`
}

type storyboardRequest struct {
	Idea     string            `json:"idea"`
	Config   storyboard.Config `json:"config"`
	Language string            `json:"language,omitempty"`
}

type regenerateRequest struct {
	Kind  string                `json:"kind"`
	ID    int                   `json:"id"`
	Ratio *director.AspectRatio `json:"ratio,omitempty"`
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing image"})
		return
	}
	defer file.Close()

	imgBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "failed to read image"})
		return
	}

	mimeType := detectMime(header.Header.Get("Content-Type"), imgBytes)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	analysis, err := s.studio.AnalyzeImage(ctx, gemini.ImageInput{
		DataBase64: base64.StdEncoding.EncodeToString(imgBytes),
		MimeType:   mimeType,
	})
	if err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	var image *gemini.ImageInput
	if req.Image != nil && req.Image.Data != "" {
		image = &gemini.ImageInput{
			DataBase64: req.Image.Data,
			MimeType:   req.Image.MimeType,
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.studio.GenerateAd(ctx, req.Request, image)
	if err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	enhanced, err := s.studio.EnhanceConcept(ctx, req.Concept)
	if err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"concept": enhanced})
}

func (s *server) handleStoryboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	var req storyboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Idea) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "idea is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	board, err := s.studio.ExpandStoryboard(ctx, req.Idea, req.Config, req.Language)
	if err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (s *server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	if !s.studio.HasEntity(req.Kind, req.ID) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "unknown storyboard entity"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.studio.Regenerate(ctx, req.Kind, req.ID, req.Ratio); err != nil {
			s.logger.Warn("regenerate failed", "kind", req.Kind, "id", req.ID, "err", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.history.List())
	case http.MethodDelete:
		if err := s.history.Clear(); err != nil {
			writeJSON(w, http.StatusInternalServerError, apiError{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
	}
}

func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"adTypes":         director.AdTypes(),
		"models":          director.Models(),
		"styles":          director.Styles(),
		"aspectRatios":    director.AspectRatios(),
		"videoDurations":  director.VideoDurations(),
		"cameraMovements": director.CameraMovements(),
		"lightingMoods":   director.LightingMoods(),
		"studioStyles":    storyboard.StudioStyles(),
		"sceneDurations":  storyboard.SceneDurations(),
	})
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "err", err)
		return
	}

	client := ws.NewClient(s.hub, conn)
	s.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gemini.ErrMissingAPIKey):
		return http.StatusInternalServerError
	case errors.Is(err, studio.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, normalize.ErrMalformed),
		errors.Is(err, director.ErrNoPrompt),
		errors.Is(err, storyboard.ErrIncomplete),
		errors.Is(err, gemini.ErrRefused),
		errors.Is(err, gemini.ErrNoImage):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func detectMime(header string, data []byte) string {
	mimeType := strings.TrimSpace(header)
	if strings.Contains(mimeType, ";") {
		mimeType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
		if strings.Contains(mimeType, ";") {
			mimeType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
		}
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}
	return mimeType
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
