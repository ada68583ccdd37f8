package chat

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

const maxVoiceBytes = 10 << 20 // 10 MB

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(router *mux.Router) {
	router.HandleFunc("/api/conversations", h.Conversations).Methods("GET")
	router.HandleFunc("/api/conversations", h.GetOrCreate).Methods("POST")
	router.HandleFunc("/api/conversations/{id}/messages", h.Messages).Methods("GET")
	router.HandleFunc("/api/conversations/{id}/messages", h.SendMessage).Methods("POST")
}

type conversationRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) GetOrCreate(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	var req conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		common.RespondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	conversation, err := h.service.GetOrCreateConversation(r.Context(), userID, req.UserID)
	if err != nil {
		log.Printf("conversation create failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, conversation)
}

func (h *Handler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())

	conversations, err := h.service.Conversations(r.Context(), userID)
	if err != nil {
		log.Printf("conversation list failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

// SendMessage accepts multipart so a voice note can ride along with
// (or instead of) the text.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	conversationID := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(maxVoiceBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	text := r.FormValue("content")
	var voice *VoiceNote
	if file, header, err := r.FormFile("voice"); err == nil {
		defer file.Close()
		ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		if ext == "" {
			ext = "webm"
		}
		voice = &VoiceNote{
			Ext:      ext,
			MimeType: header.Header.Get("Content-Type"),
			Content:  file,
		}
	}

	message, err := h.service.SendMessage(r.Context(), userID, conversationID, text, voice)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			common.RespondError(w, http.StatusNotFound, "conversation not found")
		case errors.Is(err, ErrNotParticipant):
			common.RespondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrEmptyMessage):
			common.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("message send failed: %v", err)
			common.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	common.RespondJSON(w, http.StatusCreated, message)
}

func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	conversationID := mux.Vars(r)["id"]

	messages, err := h.service.Messages(r.Context(), userID, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			common.RespondError(w, http.StatusNotFound, "conversation not found")
		case errors.Is(err, ErrNotParticipant):
			common.RespondError(w, http.StatusForbidden, err.Error())
		default:
			log.Printf("message list failed: %v", err)
			common.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
