package httpapi

import (
	"net/http"
	"strconv"

	"insaka-backend-go/internal/services"
)

type ConnectionRequestInput struct {
	ToDelegateID string `json:"toDelegateId"`
}

type RespondInput struct {
	Accept bool `json:"accept"`
}

type MessageInput struct {
	ToDelegateID string `json:"toDelegateId"`
	Message      string `json:"message"`
}

type ContactShareInput struct {
	ToDelegateID string `json:"toDelegateId"`
	Message      string `json:"message"`
	ShareEmail   bool   `json:"shareEmail"`
	SharePhone   bool   `json:"sharePhone"`
}

type MeetingRequestInput struct {
	ToDelegateID string `json:"toDelegateId"`
	MeetingType  string `json:"meetingType"`
	Message      string `json:"message"`
}

func parseDelegateRef(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) SendConnectionRequest(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req ConnectionRequestInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	toID, ok := parseDelegateRef(req.ToDelegateID)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid delegate id")
		return
	}
	id, err := services.SendConnectionRequest(s.DB, s.Feed, delegateID, toID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req RespondInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.RespondToRequest(s.DB, s.Feed, pathID(r, "requestId"), delegateID, req.Accept); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"accepted": req.Accept})
}

func (s *Server) MyConnections(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	records, err := services.UserInteractions(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": services.ConnectedPeers(records, delegateID),
	})
}

func (s *Server) ConnectionStatus(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	status, err := services.ConnectionStatus(s.DB, delegateID, pathID(r, "delegateId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 5)
	recommendations, err := services.RecommendMatches(s.DB, delegateID, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": recommendations})
}

func (s *Server) NetworkingUnread(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	records, err := services.UserInteractions(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"count": services.CountUnread(records, delegateID)})
}

func (s *Server) PendingRequests(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	records, err := services.UserInteractions(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"incoming": services.IncomingPending(records, delegateID),
		"outgoing": services.OutgoingPending(records, delegateID),
	})
}

func (s *Server) MyInteractions(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	records, err := services.UserInteractions(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": records})
}

func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req MessageInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	toID, ok := parseDelegateRef(req.ToDelegateID)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid delegate id")
		return
	}
	id, err := services.SendChatMessage(s.DB, s.Feed, delegateID, toID, req.Message)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) MessageThread(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	messages, err := services.Thread(s.DB, delegateID, pathID(r, "delegateId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": messages})
}

func (s *Server) MarkThreadRead(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	if err := services.MarkThreadRead(s.DB, delegateID, pathID(r, "delegateId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ShareContact(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req ContactShareInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	toID, ok := parseDelegateRef(req.ToDelegateID)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid delegate id")
		return
	}
	id, err := services.ShareContact(s.DB, s.Feed, delegateID, toID, req.Message, req.ShareEmail, req.SharePhone)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) RequestMeeting(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req MeetingRequestInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	toID, ok := parseDelegateRef(req.ToDelegateID)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Invalid delegate id")
		return
	}
	id, err := services.RequestMeeting(s.DB, s.Feed, delegateID, toID, req.MeetingType, req.Message)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}
