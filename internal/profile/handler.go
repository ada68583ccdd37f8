package profile

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

const maxAvatarBytes = 5 << 20 // 5 MB

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// PublicRoutes mounts the unauthenticated routes.
func (h *Handler) PublicRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
}

// Routes mounts the authenticated routes.
func (h *Handler) Routes(router *mux.Router) {
	router.HandleFunc("/api/profiles/me", h.Update).Methods("PUT")
	router.HandleFunc("/api/profiles/me/avatar", h.UploadAvatar).Methods("POST")
	router.HandleFunc("/api/profiles/{username}", h.ByUsername).Methods("GET")
	router.HandleFunc("/api/follows/followers", h.Followers).Methods("GET")
	router.HandleFunc("/api/follows/following", h.Following).Methods("GET")
	router.HandleFunc("/api/follows/{userID}", h.ToggleFollow).Methods("POST")
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		common.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	profile, token, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			common.RespondError(w, http.StatusConflict, err.Error())
			return
		}
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"profile": profile,
		"token":   token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			common.RespondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("login failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"token":   token,
	})
}

func (h *Handler) ByUsername(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	profile, err := h.service.ByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.RespondError(w, http.StatusNotFound, "profile not found")
			return
		}
		log.Printf("profile lookup failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}

type updateRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, req.DisplayName, req.Bio); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.RespondError(w, http.StatusNotFound, "profile not found")
			return
		}
		log.Printf("profile update failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = "jpg"
	}

	url, err := h.service.UploadAvatar(r.Context(), userID, ext, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("avatar upload failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}

func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	targetID := mux.Vars(r)["userID"]

	following, err := h.service.ToggleFollow(r.Context(), userID, targetID)
	if err != nil {
		log.Printf("follow toggle failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"following": following})
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	followers, err := h.service.Followers(r.Context(), userID)
	if err != nil {
		log.Printf("followers list failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"followers": followers})
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	following, err := h.service.Following(r.Context(), userID)
	if err != nil {
		log.Printf("following list failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"following": following})
}
