package story

import (
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"linkup/internal/common"
)

const maxStoryBytes = 20 << 20 // 20 MB

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(router *mux.Router) {
	router.HandleFunc("/api/stories", h.PostStory).Methods("POST")
	router.HandleFunc("/api/stories", h.ActiveStories).Methods("GET")
}

func (h *Handler) PostStory(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	if err := r.ParseMultipartForm(maxStoryBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("media")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "media file is required")
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = "jpg"
	}

	story, err := h.service.PostStory(r.Context(), userID, Upload{
		Ext:      ext,
		MimeType: header.Header.Get("Content-Type"),
		Content:  file,
	})
	if err != nil {
		log.Printf("story create failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, story)
}

func (h *Handler) ActiveStories(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	stories, err := h.service.ActiveStories(r.Context(), userID)
	if err != nil {
		log.Printf("story list failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}
