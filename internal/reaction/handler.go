package reaction

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"linkup/internal/common"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the reaction endpoints on the router.
func (h *Handler) Routes(router *mux.Router) {
	router.HandleFunc("/api/reactions", h.List).Methods("GET")
	router.HandleFunc("/api/reactions", h.Toggle).Methods("POST")
}

type toggleRequest struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Emoji  string `json:"emoji"`
	UserID string `json:"userId"`
}

// Toggle handles POST /api/reactions. The response is {"added":true}
// or {"removed":true}, nothing else.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Type == "" || req.ID == "" || req.Emoji == "" || req.UserID == "" {
		common.RespondError(w, http.StatusBadRequest, "type, id, emoji and userId are required")
		return
	}

	added, err := h.service.Toggle(r.Context(), common.SubjectType(req.Type), req.ID, req.UserID, req.Emoji)
	if err != nil {
		if errors.Is(err, ErrInvalidSubject) {
			common.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("reaction toggle failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if added {
		common.RespondJSON(w, http.StatusOK, map[string]bool{"added": true})
	} else {
		common.RespondJSON(w, http.StatusOK, map[string]bool{"removed": true})
	}
}

// List handles GET /api/reactions?type={post|comment}&id=<uuid>.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	subjectType := r.URL.Query().Get("type")
	subjectID := r.URL.Query().Get("id")
	if subjectType == "" || subjectID == "" {
		common.RespondError(w, http.StatusBadRequest, "type and id are required")
		return
	}

	result, err := h.service.List(r.Context(), common.SubjectType(subjectType), subjectID)
	if err != nil {
		if errors.Is(err, ErrInvalidSubject) {
			common.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("reaction list failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
