package services

import (
	"testing"

	"insaka-backend-go/internal/models"
)

func record(id, from, to int64, kind, status string) models.Interaction {
	return models.Interaction{ID: id, FromUserID: from, ToUserID: to,
		FromUserName: "From", ToUserName: "To", Type: kind, Status: status}
}

func TestDeriveConnectionStatus(t *testing.T) {
	records := []models.Interaction{
		record(1, 10, 20, InteractionConnectionRequest, StatusPending),
		record(2, 30, 10, InteractionConnectionRequest, StatusAccepted),
	}
	cases := []struct {
		name string
		a, b int64
		want string
	}{
		{"pending forward", 10, 20, StatusPending},
		{"pending reverse", 20, 10, StatusPending},
		{"accepted forward", 30, 10, StatusAccepted},
		{"accepted reverse", 10, 30, StatusAccepted},
		{"no record", 20, 30, StatusNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveConnectionStatus(records, tc.a, tc.b); got != tc.want {
				t.Fatalf("status(%d,%d) = %q, want %q", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDeriveConnectionStatusUsesEarliestRecord(t *testing.T) {
	records := []models.Interaction{
		record(1, 10, 20, InteractionConnectionRequest, StatusAccepted),
		record(2, 10, 20, InteractionChatMessage, StatusSent),
	}
	if got := DeriveConnectionStatus(records, 20, 10); got != StatusAccepted {
		t.Fatalf("later chat message shadowed the connection: got %q", got)
	}
}

func TestConnectedPeers(t *testing.T) {
	records := []models.Interaction{
		{ID: 1, FromUserID: 1, ToUserID: 2, FromUserName: "Ana", ToUserName: "Ben",
			Type: InteractionConnectionRequest, Status: StatusAccepted},
		{ID: 2, FromUserID: 3, ToUserID: 1, FromUserName: "Cara", ToUserName: "Ana",
			Type: InteractionConnectionRequest, Status: StatusAccepted},
		{ID: 3, FromUserID: 1, ToUserID: 4, FromUserName: "Ana", ToUserName: "Dan",
			Type: InteractionConnectionRequest, Status: StatusPending},
		{ID: 4, FromUserID: 1, ToUserID: 2, FromUserName: "Ana", ToUserName: "Ben",
			Type: InteractionChatMessage, Status: StatusSent},
	}
	peers := ConnectedPeers(records, 1)
	if len(peers) != 2 {
		t.Fatalf("got %d peers, want 2: %+v", len(peers), peers)
	}
	if peers[0].DelegateID != 2 || peers[0].Name != "Ben" {
		t.Errorf("first peer = %+v", peers[0])
	}
	if peers[1].DelegateID != 3 || peers[1].Name != "Cara" {
		t.Errorf("second peer = %+v", peers[1])
	}
}

func TestPendingRequestLists(t *testing.T) {
	records := []models.Interaction{
		record(1, 2, 1, InteractionConnectionRequest, StatusPending),
		record(2, 1, 3, InteractionMeetingRequest, StatusPending),
		record(3, 4, 1, InteractionConnectionRequest, StatusAccepted),
		record(4, 5, 1, InteractionChatMessage, StatusSent),
	}
	incoming := IncomingPending(records, 1)
	if len(incoming) != 1 || incoming[0].ID != 1 {
		t.Fatalf("incoming = %+v", incoming)
	}
	outgoing := OutgoingPending(records, 1)
	if len(outgoing) != 1 || outgoing[0].ID != 2 {
		t.Fatalf("outgoing = %+v", outgoing)
	}
}

func TestCountUnread(t *testing.T) {
	records := []models.Interaction{
		record(1, 2, 1, InteractionConnectionRequest, StatusPending),
		record(2, 3, 1, InteractionChatMessage, StatusSent),
		record(3, 3, 1, InteractionChatMessage, StatusRead),
		record(4, 1, 3, InteractionChatMessage, StatusSent), // outgoing
		record(5, 4, 1, InteractionConnectionRequest, StatusDeclined),
	}
	if got := CountUnread(records, 1); got != 2 {
		t.Fatalf("CountUnread = %d, want 2", got)
	}
}

func TestMatchScore(t *testing.T) {
	me := models.Delegate{ID: 1, Organization: "Zesco", Category: "Speaker", RoleTitle: "Chief Engineer"}
	cases := []struct {
		name  string
		other models.Delegate
		want  int
	}{
		{"same org, category and role word",
			models.Delegate{ID: 2, Organization: "zesco", Category: "speaker", RoleTitle: "Senior Engineer"}, 18},
		{"same org only",
			models.Delegate{ID: 3, Organization: "Zesco", Category: "VIP", RoleTitle: "Director"}, 10},
		{"same category only",
			models.Delegate{ID: 4, Organization: "ZRA", Category: "Speaker", RoleTitle: "Analyst"}, 5},
		{"shared role word only",
			models.Delegate{ID: 5, Organization: "ZRA", Category: "Media", RoleTitle: "Engineer"}, 3},
		{"nothing shared",
			models.Delegate{ID: 6, Organization: "ZRA", Category: "Media", RoleTitle: "Reporter"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchScore(me, tc.other); got != tc.want {
				t.Fatalf("MatchScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMatchScoreIgnoresEmptyFields(t *testing.T) {
	a := models.Delegate{ID: 1}
	b := models.Delegate{ID: 2}
	if got := MatchScore(a, b); got != 0 {
		t.Fatalf("two blank delegates scored %d", got)
	}
}

func TestRankMatches(t *testing.T) {
	me := models.Delegate{ID: 1, Organization: "Zesco", Category: "Speaker", RoleTitle: "Engineer"}
	candidates := []models.Delegate{
		me, // self must be excluded
		{ID: 2, Organization: "ZRA", Category: "Media", RoleTitle: "Reporter"},       // 0, dropped
		{ID: 3, Organization: "ZRA", Category: "Speaker", RoleTitle: "Host"},        // 5
		{ID: 4, Organization: "Zesco", Category: "Speaker", RoleTitle: "Engineer"},  // 18
		{ID: 5, Organization: "Zesco", Category: "VIP", RoleTitle: "Accountant"},    // 10
	}
	ranked := RankMatches(me, candidates, 2)
	if len(ranked) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(ranked))
	}
	if ranked[0].Delegate.ID != 4 || ranked[0].Score != 18 {
		t.Errorf("top match = id %d score %d", ranked[0].Delegate.ID, ranked[0].Score)
	}
	if ranked[1].Delegate.ID != 5 || ranked[1].Score != 10 {
		t.Errorf("second match = id %d score %d", ranked[1].Delegate.ID, ranked[1].Score)
	}
	if len(ranked[0].Reasons) != 3 {
		t.Errorf("top match reasons = %v", ranked[0].Reasons)
	}
}

func TestMeetingTypes(t *testing.T) {
	if !isMeetingType("Coffee Chat") {
		t.Error("Coffee Chat should be a known meeting type")
	}
	if isMeetingType("Interrogation") {
		t.Error("unknown meeting type accepted")
	}
}
