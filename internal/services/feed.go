package services

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"insaka-backend-go/internal/models"
)

// Feed event types pushed over the live websocket.
const (
	FeedNotification = "notification"
	FeedAnnouncement = "announcement"
	FeedMetrics      = "metrics"
)

// FeedEvent is the envelope written to feed subscribers.
type FeedEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type feedClient struct {
	conn       *websocket.Conn
	delegateID int64 // 0 subscribes to everything (admin console)
}

// FeedHub fans events out to connected websocket clients. Announcements
// and metrics go to everyone; notifications only to their delegate and
// to admin subscribers. A nil hub drops everything, so callers never
// need to guard.
type FeedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]feedClient
	ch      chan feedMessage
}

type feedMessage struct {
	event      FeedEvent
	delegateID int64
}

func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients: map[*websocket.Conn]feedClient{},
		ch:      make(chan feedMessage, 64),
	}
}

func (h *FeedHub) Run(ctx context.Context) {
	for {
		select {
		case message := <-h.ch:
			h.mu.Lock()
			for conn, client := range h.clients {
				if message.delegateID != 0 && client.delegateID != 0 && client.delegateID != message.delegateID {
					continue
				}
				_ = conn.WriteJSON(message.event)
			}
			h.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (h *FeedHub) send(event FeedEvent, delegateID int64) {
	if h == nil {
		return
	}
	select {
	case h.ch <- feedMessage{event: event, delegateID: delegateID}:
	default:
	}
}

func (h *FeedHub) BroadcastNotification(notification models.Notification) {
	h.send(FeedEvent{Type: FeedNotification, Payload: notification}, notification.DelegateID)
}

func (h *FeedHub) BroadcastAnnouncement(announcement models.Announcement) {
	h.send(FeedEvent{Type: FeedAnnouncement, Payload: announcement}, 0)
}

func (h *FeedHub) BroadcastMetrics(sample MetricSample) {
	h.send(FeedEvent{Type: FeedMetrics, Payload: sample}, 0)
}

func (h *FeedHub) Add(conn *websocket.Conn, delegateID int64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = feedClient{conn: conn, delegateID: delegateID}
	h.mu.Unlock()
}

func (h *FeedHub) Remove(conn *websocket.Conn) {
	if h == nil {
		return
	}
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
