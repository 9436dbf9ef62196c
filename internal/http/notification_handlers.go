package httpapi

import (
	"net/http"

	"insaka-backend-go/internal/services"
)

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := services.ListNotifications(s.DB, delegateID, unreadOnly)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": notifications})
}

func (s *Server) UnreadNotifications(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	count, err := services.UnreadNotificationCount(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	if err := services.MarkNotificationRead(s.DB, delegateID, pathID(r, "notificationId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	updated, err := services.MarkAllNotificationsRead(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
