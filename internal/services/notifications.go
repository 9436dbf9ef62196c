package services

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"insaka-backend-go/internal/models"
)

// Notification priorities. Rank orders the inbox: urgent first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityNormal: 2,
	PriorityLow:    1,
}

// PriorityRank maps a priority to its sort weight; unknown values rank
// as normal.
func PriorityRank(priority string) int {
	if rank, ok := priorityRank[priority]; ok {
		return rank
	}
	return priorityRank[PriorityNormal]
}

// AddNotification stores a notification for a delegate and returns it.
func AddNotification(db *sqlx.DB, delegateID int64, kind, title, message, priority string, data map[string]interface{}) (models.Notification, error) {
	if _, ok := priorityRank[priority]; !ok {
		priority = PriorityNormal
	}
	encoded := []byte("{}")
	if len(data) > 0 {
		var err error
		encoded, err = json.Marshal(data)
		if err != nil {
			return models.Notification{}, WrapError(err, "encode notification data")
		}
	}
	notification := models.Notification{
		DelegateID: delegateID,
		Type:       kind,
		Title:      title,
		Message:    message,
		Priority:   priority,
		Data:       encoded,
		CreatedAt:  time.Now().UTC(),
	}
	err := db.Get(&notification.ID, `
INSERT INTO notifications (delegate_id, type, title, message, priority, data, read, created_at)
VALUES ($1,$2,$3,$4,$5,$6,false,$7)
RETURNING id
`, delegateID, kind, title, message, priority, encoded, notification.CreatedAt)
	if err != nil {
		return models.Notification{}, WrapError(err, "insert notification")
	}
	return notification, nil
}

// notify is AddNotification plus a live feed push; storage errors are
// swallowed so a notification failure never fails the action it trails.
func notify(db *sqlx.DB, hub *FeedHub, delegateID int64, kind, title, message, priority string, data map[string]interface{}) {
	notification, err := AddNotification(db, delegateID, kind, title, message, priority, data)
	if err != nil {
		return
	}
	hub.BroadcastNotification(notification)
}

// ListNotifications returns the delegate's inbox, urgent first and newest
// within each priority.
func ListNotifications(db *sqlx.DB, delegateID int64, unreadOnly bool) ([]models.Notification, error) {
	notifications := []models.Notification{}
	query := `
SELECT * FROM notifications
WHERE delegate_id = $1
ORDER BY CASE priority
  WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1 END DESC,
  created_at DESC
`
	if unreadOnly {
		query = `
SELECT * FROM notifications
WHERE delegate_id = $1 AND read = false
ORDER BY CASE priority
  WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1 END DESC,
  created_at DESC
`
	}
	err := db.Select(&notifications, query, delegateID)
	return notifications, WrapError(err, "load notifications")
}

// UnreadNotificationCount backs the bell badge.
func UnreadNotificationCount(db *sqlx.DB, delegateID int64) (int, error) {
	var count int
	err := db.Get(&count, `SELECT count(*) FROM notifications WHERE delegate_id = $1 AND read = false`, delegateID)
	return count, WrapError(err, "count unread")
}

// MarkNotificationRead marks one of the delegate's notifications as read.
func MarkNotificationRead(db *sqlx.DB, delegateID, notificationID int64) error {
	result, err := db.Exec(`UPDATE notifications SET read = true WHERE id = $1 AND delegate_id = $2`,
		notificationID, delegateID)
	if err != nil {
		return WrapError(err, "mark read")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Notification not found.")
	}
	return nil
}

// MarkAllNotificationsRead clears the delegate's unread backlog.
func MarkAllNotificationsRead(db *sqlx.DB, delegateID int64) (int64, error) {
	result, err := db.Exec(`UPDATE notifications SET read = true WHERE delegate_id = $1 AND read = false`, delegateID)
	if err != nil {
		return 0, WrapError(err, "mark all read")
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

// PurgeOldNotifications deletes notifications older than the retention
// window. Runs periodically from the server loop.
func PurgeOldNotifications(db *sqlx.DB, keepDays int) (int64, error) {
	if keepDays <= 0 {
		keepDays = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)
	result, err := db.Exec(`DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, WrapError(err, "purge notifications")
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}
