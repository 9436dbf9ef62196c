package services

import (
	"testing"
	"time"

	"insaka-backend-go/internal/models"
)

func TestSortAnnouncements(t *testing.T) {
	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	announcements := []models.Announcement{
		{ID: 1, Priority: PriorityLow, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 2, Priority: PriorityUrgent, CreatedAt: base},
		{ID: 3, Priority: PriorityNormal, CreatedAt: base.Add(time.Hour)},
		{ID: 4, Priority: PriorityNormal, CreatedAt: base.Add(2 * time.Hour)},
	}
	SortAnnouncements(announcements)
	wantOrder := []int64{2, 4, 3, 1}
	for i, want := range wantOrder {
		if announcements[i].ID != want {
			t.Fatalf("position %d = id %d, want %d", i, announcements[i].ID, want)
		}
	}
}

func TestPriorityRankUnknownFallsBackToNormal(t *testing.T) {
	if PriorityRank("shouting") != PriorityRank(PriorityNormal) {
		t.Fatal("unknown priority should rank as normal")
	}
}

func TestTrendingScore(t *testing.T) {
	post := models.PRPost{Likes: 3, Shares: 2, Views: 100}
	if got := TrendingScore(post); got != 7 {
		t.Fatalf("TrendingScore = %d, want 7 (views must not count)", got)
	}
}

func TestSortPostsByTrending(t *testing.T) {
	base := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	posts := []models.PRPost{
		{ID: 1, Likes: 1, Shares: 0, CreatedAt: base},                     // 1
		{ID: 2, Likes: 0, Shares: 3, CreatedAt: base},                     // 6
		{ID: 3, Likes: 6, Shares: 0, CreatedAt: base.Add(time.Hour)},      // 6, newer
		{ID: 4, Likes: 0, Shares: 0, Views: 999, CreatedAt: base},         // 0
	}
	SortPostsByTrending(posts)
	wantOrder := []int64{3, 2, 1, 4}
	for i, want := range wantOrder {
		if posts[i].ID != want {
			t.Fatalf("position %d = id %d, want %d", i, posts[i].ID, want)
		}
	}
}

func TestPostHashtags(t *testing.T) {
	post := models.PRPost{Hashtags: []byte(`["insaka2025","mining"]`)}
	tags := PostHashtags(post)
	if len(tags) != 2 || tags[0] != "insaka2025" || tags[1] != "mining" {
		t.Fatalf("PostHashtags = %v", tags)
	}
	if got := PostHashtags(models.PRPost{}); len(got) != 0 {
		t.Fatalf("empty hashtags decoded to %v", got)
	}
}

func TestSortSponsors(t *testing.T) {
	sponsors := []models.Sponsor{
		{ID: 1, Name: "Bravo", Tier: "Silver"},
		{ID: 2, Name: "Alpha", Tier: "platinum"}, // tier match is case-insensitive
		{ID: 3, Name: "Metals Ltd", Tier: "Gold"},
		{ID: 4, Name: "Alpha", Tier: "Silver"},
		{ID: 5, Name: "Mystery", Tier: "Titanium"}, // unknown sinks last
	}
	SortSponsors(sponsors)
	wantOrder := []int64{2, 3, 4, 1, 5}
	for i, want := range wantOrder {
		if sponsors[i].ID != want {
			t.Fatalf("position %d = id %d, want %d", i, sponsors[i].ID, want)
		}
	}
}
