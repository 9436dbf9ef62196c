package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// FeedSocket subscribes a client to the live feed. Delegates receive
// their own notifications plus broadcasts; admin sessions receive
// everything including metrics samples. Auth rides the token query
// parameter since browsers cannot set websocket headers.
func (s *Server) FeedSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	delegateID, _, _, ok := parseAccessToken(s.Tokens, tokenStr)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Feed.Add(conn, delegateID)
	defer func() {
		s.Feed.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
