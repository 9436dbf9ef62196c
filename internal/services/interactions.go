package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"insaka-backend-go/internal/models"
)

// Interaction types.
const (
	InteractionConnectionRequest = "connection_request"
	InteractionChatMessage       = "chat_message"
	InteractionContactSharing    = "contact_sharing"
	InteractionMeetingRequest    = "meeting_request"
)

// Interaction statuses. Connection and meeting requests move
// pending -> accepted | declined; chat and contact shares move
// sent -> read. "none" is only ever derived, never stored.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusSent     = "sent"
	StatusRead     = "read"
	StatusNone     = "none"
)

var MeetingTypes = []string{
	"Coffee Chat", "Business Discussion", "Networking",
	"Collaboration", "General Meeting", "Quick Chat",
}

func isMeetingType(value string) bool {
	for _, known := range MeetingTypes {
		if known == value {
			return true
		}
	}
	return false
}

// DeriveConnectionStatus scans records in log order and returns the status
// of the first one between the pair, in either direction. Symmetric:
// DeriveConnectionStatus(r, a, b) == DeriveConnectionStatus(r, b, a).
func DeriveConnectionStatus(records []models.Interaction, a, b int64) string {
	for _, record := range records {
		if (record.FromUserID == a && record.ToUserID == b) ||
			(record.FromUserID == b && record.ToUserID == a) {
			if record.Status == "" {
				return StatusPending
			}
			return record.Status
		}
	}
	return StatusNone
}

// ConnectionStatus is the database form of DeriveConnectionStatus.
func ConnectionStatus(db *sqlx.DB, a, b int64) (string, error) {
	var status string
	err := db.Get(&status, `
SELECT status FROM interactions
WHERE (from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1)
ORDER BY id
LIMIT 1
`, a, b)
	if err != nil {
		return StatusNone, nil
	}
	return status, nil
}

// SendConnectionRequest records a pending request from one delegate to
// another. A second request is rejected while one is already pending or
// accepted between the pair; a declined pair may start a fresh cycle.
func SendConnectionRequest(db *sqlx.DB, hub *FeedHub, fromID, toID int64) (int64, error) {
	if fromID == toID {
		return 0, ErrBadRequest("You cannot connect with yourself.")
	}
	from, err := GetDelegate(db, fromID)
	if err != nil {
		return 0, err
	}
	to, err := GetDelegate(db, toID)
	if err != nil {
		return 0, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, WrapError(err, "begin request")
	}
	defer func() { _ = tx.Rollback() }()

	// Racing a duplicate past this check still trips the partial unique
	// index on pending requests.
	var open bool
	err = tx.Get(&open, `
SELECT EXISTS(
  SELECT 1 FROM interactions
  WHERE type = $3 AND status IN ($4, $5)
    AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
)`, fromID, toID, InteractionConnectionRequest, StatusPending, StatusAccepted)
	if err != nil {
		return 0, WrapError(err, "pending check")
	}
	if open {
		return 0, ErrConflict("A connection request already exists between you.")
	}

	var id int64
	now := time.Now().UTC()
	err = tx.Get(&id, `
INSERT INTO interactions (from_user_id, to_user_id, from_user_name, to_user_name, type, status, message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
RETURNING id
`, fromID, toID, from.Name, to.Name, InteractionConnectionRequest, StatusPending,
		from.Name+" wants to connect with you", now)
	if err != nil {
		return 0, WrapError(err, "insert request")
	}
	if err := tx.Commit(); err != nil {
		return 0, WrapError(err, "commit request")
	}

	notifyConnection(db, hub, fromID, toID, "request")
	return id, nil
}

// RespondToRequest accepts or declines a pending connection or meeting
// request. Only the recipient may respond, and only while pending.
func RespondToRequest(db *sqlx.DB, hub *FeedHub, requestID, responderID int64, accept bool) error {
	var record models.Interaction
	if err := db.Get(&record, `SELECT * FROM interactions WHERE id = $1`, requestID); err != nil {
		return ErrNotFound("Request not found.")
	}
	if record.Type != InteractionConnectionRequest && record.Type != InteractionMeetingRequest {
		return ErrBadRequest("This interaction cannot be responded to.")
	}
	if record.ToUserID != responderID {
		return ErrForbidden("Only the recipient can respond to this request.")
	}
	if record.Status != StatusPending {
		return ErrConflict("This request was already " + record.Status + ".")
	}
	status := StatusDeclined
	action := "declined"
	if accept {
		status = StatusAccepted
		action = "accepted"
	}
	_, err := db.Exec(`UPDATE interactions SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		requestID, status, time.Now().UTC(), StatusPending)
	if err != nil {
		return WrapError(err, "update request")
	}
	if record.Type == InteractionConnectionRequest {
		notifyConnection(db, hub, responderID, record.FromUserID, action)
	} else {
		notifyMeeting(db, hub, responderID, record.FromUserID, action)
	}
	return nil
}

// AreConnected reports whether the pair has an accepted connection request.
func AreConnected(db *sqlx.DB, a, b int64) (bool, error) {
	var connected bool
	err := db.Get(&connected, `
SELECT EXISTS(
  SELECT 1 FROM interactions
  WHERE type = $3 AND status = $4
    AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
)`, a, b, InteractionConnectionRequest, StatusAccepted)
	return connected, WrapError(err, "connection check")
}

// SendChatMessage appends a chat message between connected delegates.
func SendChatMessage(db *sqlx.DB, hub *FeedHub, fromID, toID int64, message string) (int64, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, ErrBadRequest("Message is required.")
	}
	connected, err := AreConnected(db, fromID, toID)
	if err != nil {
		return 0, err
	}
	if !connected {
		return 0, ErrForbidden("You can only message accepted connections.")
	}
	from, err := GetDelegate(db, fromID)
	if err != nil {
		return 0, err
	}
	to, err := GetDelegate(db, toID)
	if err != nil {
		return 0, err
	}
	var id int64
	now := time.Now().UTC()
	err = db.Get(&id, `
INSERT INTO interactions (from_user_id, to_user_id, from_user_name, to_user_name, type, status, message, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
RETURNING id
`, fromID, toID, from.Name, to.Name, InteractionChatMessage, StatusSent, message, now)
	if err != nil {
		return 0, WrapError(err, "insert message")
	}
	notify(db, hub, toID, "interaction", "New Message",
		from.Name+" sent you a message", PriorityNormal,
		map[string]interface{}{"from_user_id": strconv.FormatInt(fromID, 10)})
	return id, nil
}

// Thread lists the chat between two delegates, oldest first.
func Thread(db *sqlx.DB, a, b int64) ([]models.Interaction, error) {
	messages := []models.Interaction{}
	err := db.Select(&messages, `
SELECT * FROM interactions
WHERE type = $3
  AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
ORDER BY created_at, id
`, a, b, InteractionChatMessage)
	return messages, WrapError(err, "load thread")
}

// MarkThreadRead flips the reader's unread messages from the peer to read.
// Best-effort read receipts; opening the thread is what marks them.
func MarkThreadRead(db *sqlx.DB, readerID, peerID int64) error {
	_, err := db.Exec(`
UPDATE interactions SET status = $4, updated_at = $5
WHERE type = $3 AND to_user_id = $1 AND from_user_id = $2 AND status = $6
`, readerID, peerID, InteractionChatMessage, StatusRead, time.Now().UTC(), StatusSent)
	return WrapError(err, "mark thread read")
}

// ShareContact sends the sender's registered contact details to a
// connection. Details are snapshotted from the roster, not typed in.
func ShareContact(db *sqlx.DB, hub *FeedHub, fromID, toID int64, message string, shareEmail, sharePhone bool) (int64, error) {
	if !shareEmail && !sharePhone {
		return 0, ErrBadRequest("Select at least one contact method.")
	}
	connected, err := AreConnected(db, fromID, toID)
	if err != nil {
		return 0, err
	}
	if !connected {
		return 0, ErrForbidden("You can only share contacts with accepted connections.")
	}
	from, err := GetDelegate(db, fromID)
	if err != nil {
		return 0, err
	}
	to, err := GetDelegate(db, toID)
	if err != nil {
		return 0, err
	}
	var email, phone *string
	if shareEmail {
		if strings.TrimSpace(from.Email) == "" {
			return 0, ErrBadRequest("Your registration has no email to share.")
		}
		email = &from.Email
	}
	if sharePhone {
		if strings.TrimSpace(from.Phone) == "" {
			return 0, ErrBadRequest("Your registration has no phone number to share.")
		}
		phone = &from.Phone
	}
	var id int64
	now := time.Now().UTC()
	err = db.Get(&id, `
INSERT INTO interactions (from_user_id, to_user_id, from_user_name, to_user_name, type, status, message, contact_email, contact_phone, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
RETURNING id
`, fromID, toID, from.Name, to.Name, InteractionContactSharing, StatusSent,
		strings.TrimSpace(message), email, phone, now)
	if err != nil {
		return 0, WrapError(err, "insert contact share")
	}
	notify(db, hub, toID, "interaction", "Contact Details Shared",
		from.Name+" shared their contact details with you", PriorityNormal,
		map[string]interface{}{"from_user_id": strconv.FormatInt(fromID, 10)})
	return id, nil
}

// RequestMeeting sends a meeting request to a connection.
func RequestMeeting(db *sqlx.DB, hub *FeedHub, fromID, toID int64, meetingType, message string) (int64, error) {
	if !isMeetingType(meetingType) {
		return 0, ErrBadRequest("Unknown meeting type: " + meetingType)
	}
	connected, err := AreConnected(db, fromID, toID)
	if err != nil {
		return 0, err
	}
	if !connected {
		return 0, ErrForbidden("You can only request meetings with accepted connections.")
	}
	from, err := GetDelegate(db, fromID)
	if err != nil {
		return 0, err
	}
	to, err := GetDelegate(db, toID)
	if err != nil {
		return 0, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = "Would like to schedule a " + strings.ToLower(meetingType)
	}
	var id int64
	now := time.Now().UTC()
	err = db.Get(&id, `
INSERT INTO interactions (from_user_id, to_user_id, from_user_name, to_user_name, type, status, message, meeting_type, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
RETURNING id
`, fromID, toID, from.Name, to.Name, InteractionMeetingRequest, StatusPending, message, meetingType, now)
	if err != nil {
		return 0, WrapError(err, "insert meeting request")
	}
	notifyMeeting(db, hub, fromID, toID, "request")
	return id, nil
}

// UserInteractions returns every interaction touching the delegate.
func UserInteractions(db *sqlx.DB, delegateID int64) ([]models.Interaction, error) {
	records := []models.Interaction{}
	err := db.Select(&records, `
SELECT * FROM interactions
WHERE from_user_id = $1 OR to_user_id = $1
ORDER BY id
`, delegateID)
	return records, WrapError(err, "load interactions")
}

// Peer is the other side of an accepted connection.
type Peer struct {
	DelegateID int64  `json:"delegateId,string"`
	Name       string `json:"name"`
}

// ConnectedPeers derives the delegate's distinct accepted connections from
// their interaction records.
func ConnectedPeers(records []models.Interaction, delegateID int64) []Peer {
	peers := []Peer{}
	seen := map[int64]bool{}
	for _, record := range records {
		if record.Type != InteractionConnectionRequest || record.Status != StatusAccepted {
			continue
		}
		var peer Peer
		switch delegateID {
		case record.FromUserID:
			peer = Peer{DelegateID: record.ToUserID, Name: record.ToUserName}
		case record.ToUserID:
			peer = Peer{DelegateID: record.FromUserID, Name: record.FromUserName}
		default:
			continue
		}
		if seen[peer.DelegateID] {
			continue
		}
		seen[peer.DelegateID] = true
		peers = append(peers, peer)
	}
	return peers
}

// IncomingPending lists requests awaiting the delegate's response.
func IncomingPending(records []models.Interaction, delegateID int64) []models.Interaction {
	pending := []models.Interaction{}
	for _, record := range records {
		if record.ToUserID != delegateID || record.Status != StatusPending {
			continue
		}
		if record.Type == InteractionConnectionRequest || record.Type == InteractionMeetingRequest {
			pending = append(pending, record)
		}
	}
	return pending
}

// OutgoingPending lists the delegate's own requests still awaiting a
// response.
func OutgoingPending(records []models.Interaction, delegateID int64) []models.Interaction {
	pending := []models.Interaction{}
	for _, record := range records {
		if record.FromUserID != delegateID || record.Status != StatusPending {
			continue
		}
		if record.Type == InteractionConnectionRequest || record.Type == InteractionMeetingRequest {
			pending = append(pending, record)
		}
	}
	return pending
}

// CountUnread tallies the matchmaking badge: incoming pending connection
// requests plus unread chat messages.
func CountUnread(records []models.Interaction, delegateID int64) int {
	count := 0
	for _, record := range records {
		if record.ToUserID != delegateID {
			continue
		}
		if record.Type == InteractionConnectionRequest && record.Status == StatusPending {
			count++
		}
		if record.Type == InteractionChatMessage && record.Status == StatusSent {
			count++
		}
	}
	return count
}

// MatchScore rates how similar two delegates are for the recommended
// matches tab: same organization 10, same category 5, any shared
// role-title word 3.
func MatchScore(me, other models.Delegate) int {
	score := 0
	if me.Organization != "" && strings.EqualFold(me.Organization, other.Organization) {
		score += 10
	}
	if me.Category != "" && strings.EqualFold(me.Category, other.Category) {
		score += 5
	}
	if sharesRoleWord(me.RoleTitle, other.RoleTitle) {
		score += 3
	}
	return score
}

func sharesRoleWord(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	words := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(a)) {
		words[word] = true
	}
	for _, word := range strings.Fields(strings.ToLower(b)) {
		if words[word] {
			return true
		}
	}
	return false
}

// Recommendation pairs a delegate with their match score.
type Recommendation struct {
	Delegate models.Delegate `json:"delegate"`
	Score    int             `json:"score"`
	Reasons  []string        `json:"reasons"`
}

// RecommendMatches scores every other delegate against the given one and
// returns the top matches, highest score first.
func RecommendMatches(db *sqlx.DB, delegateID int64, limit int) ([]Recommendation, error) {
	me, err := GetDelegate(db, delegateID)
	if err != nil {
		return nil, err
	}
	others, err := ListDelegates(db, "", "")
	if err != nil {
		return nil, err
	}
	return RankMatches(me, others, limit), nil
}

// RankMatches is the pure scoring half of RecommendMatches.
func RankMatches(me models.Delegate, candidates []models.Delegate, limit int) []Recommendation {
	if limit <= 0 {
		limit = 5
	}
	recommendations := []Recommendation{}
	for _, other := range candidates {
		if other.ID == me.ID {
			continue
		}
		score := MatchScore(me, other)
		if score == 0 {
			continue
		}
		reasons := []string{}
		if strings.EqualFold(me.Organization, other.Organization) && me.Organization != "" {
			reasons = append(reasons, "Same organization")
		}
		if strings.EqualFold(me.Category, other.Category) && me.Category != "" {
			reasons = append(reasons, "Same category")
		}
		if sharesRoleWord(me.RoleTitle, other.RoleTitle) {
			reasons = append(reasons, "Similar role")
		}
		recommendations = append(recommendations, Recommendation{Delegate: other, Score: score, Reasons: reasons})
	}
	// Stable: equal scores keep roster order.
	for i := 1; i < len(recommendations); i++ {
		for j := i; j > 0 && recommendations[j].Score > recommendations[j-1].Score; j-- {
			recommendations[j], recommendations[j-1] = recommendations[j-1], recommendations[j]
		}
	}
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

func notifyConnection(db *sqlx.DB, hub *FeedHub, fromID, toID int64, action string) {
	titles := map[string]string{
		"request":  "Connection Request",
		"accepted": "Connection Accepted",
		"declined": "Connection Declined",
	}
	title, ok := titles[action]
	if !ok {
		title = "Connection Update"
	}
	notify(db, hub, toID, "connection", title,
		"Connection "+action+" from another delegate", PriorityNormal,
		map[string]interface{}{"from_user_id": strconv.FormatInt(fromID, 10), "action": action})
}

func notifyMeeting(db *sqlx.DB, hub *FeedHub, fromID, toID int64, action string) {
	titles := map[string]string{
		"request":  "Meeting Request",
		"accepted": "Meeting Accepted",
		"declined": "Meeting Declined",
	}
	title, ok := titles[action]
	if !ok {
		title = "Meeting Update"
	}
	notify(db, hub, toID, "meeting", title,
		"Meeting "+action+" from another delegate", PriorityNormal,
		map[string]interface{}{"from_user_id": strconv.FormatInt(fromID, 10), "action": action})
}
