package notif

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"linkup/internal/common"
	"linkup/internal/config"
)

type Handler struct {
	service        Service
	resyncInterval time.Duration
}

func NewHandler(cfg *config.Config, service Service) *Handler {
	return &Handler{
		service:        service,
		resyncInterval: time.Duration(cfg.Notification.ResyncInterval) * time.Second,
	}
}

func (h *Handler) Routes(router *mux.Router) {
	router.HandleFunc("/api/notifications", h.Page).Methods("GET")
	router.HandleFunc("/api/notifications/unread-count", h.UnreadCount).Methods("GET")
	router.HandleFunc("/api/notifications/stream", h.Stream).Methods("GET")
}

// Page handles GET /api/notifications: the newest rows with joined
// actor and post summaries, after which everything unread is marked
// read.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	if userID == "" {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.service.Page(r.Context(), userID)
	if err != nil {
		log.Printf("notification page failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"notifications": items})
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	if userID == "" {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		log.Printf("unread count failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// Stream handles GET /api/notifications/stream as server-sent events:
// one {"unread":N} frame on connect and one per change. The
// subscription is torn down when the client goes away.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := common.UserID(r.Context())
	if userID == "" {
		common.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	counter, err := StartCounter(r.Context(), h.service, userID, h.resyncInterval)
	if err != nil {
		log.Printf("counter start failed: %v", err)
		common.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer counter.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeFrame := func(count int64) {
		payload, _ := json.Marshal(map[string]int64{"unread": count})
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	writeFrame(counter.Count())

	for {
		select {
		case count, ok := <-counter.Updates():
			if !ok {
				return
			}
			writeFrame(count)
		case <-r.Context().Done():
			return
		}
	}
}
