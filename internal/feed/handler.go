package feed

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"linkup/internal/common"
)

const maxImageBytes = 10 << 20 // 10 MB

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(router *mux.Router) {
	router.HandleFunc("/api/posts", h.CreatePost).Methods("POST")
	router.HandleFunc("/api/posts", h.Timeline).Methods("GET")
	router.HandleFunc("/api/posts/{id}", h.GetPost).Methods("GET")
	router.HandleFunc("/api/posts/{id}", h.DeletePost).Methods("DELETE")
	router.HandleFunc("/api/posts/{id}/like", h.ToggleLike).Methods("POST")
	router.HandleFunc("/api/posts/{id}/comments", h.AddComment).Methods("POST")
	router.HandleFunc("/api/posts/{id}/comments", h.Comments).Methods("GET")
}

// CreatePost accepts multipart (content + optional image) so the image
// lands in the blob store in the same request.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	content := r.FormValue("content")
	var image *Upload
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		if ext == "" {
			ext = "jpg"
		}
		image = &Upload{
			Ext:      ext,
			MimeType: header.Header.Get("Content-Type"),
			Content:  file,
		}
	}

	if content == "" && image == nil {
		common.RespondError(w, http.StatusBadRequest, "post needs content or an image")
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, content, image)
	if err != nil {
		log.Printf("post create failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, post)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	posts, err := h.service.Timeline(r.Context(), userID)
	if err != nil {
		log.Printf("timeline failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	postID := mux.Vars(r)["id"]

	post, err := h.service.GetPost(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.RespondError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("post fetch failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	postID := mux.Vars(r)["id"]

	err := h.service.DeletePost(r.Context(), userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			common.RespondError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, ErrForbidden):
			common.RespondError(w, http.StatusForbidden, "not your post")
		default:
			log.Printf("post delete failed: %v", err)
			common.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	postID := mux.Vars(r)["id"]

	liked, err := h.service.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.RespondError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("like toggle failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

type commentRequest struct {
	Content string `json:"content"`
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	postID := mux.Vars(r)["id"]

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		common.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, postID, req.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.RespondError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("comment create failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, comment)
}

func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	comments, err := h.service.Comments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.RespondError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("comment list failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}
