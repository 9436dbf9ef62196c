package services

import (
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"insaka-backend-go/internal/models"
)

// SponsorTiers in display order, top tier first.
var SponsorTiers = []string{"Platinum", "Gold", "Silver", "Bronze"}

// SponsorTierRank maps a tier to its sort position; unknown tiers sink
// to the bottom.
func SponsorTierRank(tier string) int {
	for i, known := range SponsorTiers {
		if strings.EqualFold(known, tier) {
			return i
		}
	}
	return len(SponsorTiers)
}

// SortSponsors orders sponsors by tier, then name within a tier.
func SortSponsors(sponsors []models.Sponsor) {
	sort.SliceStable(sponsors, func(i, j int) bool {
		ri, rj := SponsorTierRank(sponsors[i].Tier), SponsorTierRank(sponsors[j].Tier)
		if ri != rj {
			return ri < rj
		}
		return sponsors[i].Name < sponsors[j].Name
	})
}

func ListSpeakers(db *sqlx.DB) ([]models.Speaker, error) {
	speakers := []models.Speaker{}
	err := db.Select(&speakers, `SELECT * FROM speakers ORDER BY name`)
	return speakers, WrapError(err, "load speakers")
}

func UpsertSpeaker(db *sqlx.DB, speaker models.Speaker) (models.Speaker, error) {
	speaker.Name = strings.TrimSpace(speaker.Name)
	if speaker.Name == "" {
		return models.Speaker{}, ErrBadRequest("Speaker name is required.")
	}
	if speaker.ID == 0 {
		err := db.Get(&speaker.ID, `
INSERT INTO speakers (name, title, organization, bio, photo_asset_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, speaker.Name, speaker.Title, speaker.Organization, speaker.Bio, speaker.PhotoAssetID)
		return speaker, WrapError(err, "insert speaker")
	}
	result, err := db.Exec(`
UPDATE speakers SET name = $2, title = $3, organization = $4, bio = $5, photo_asset_id = $6
WHERE id = $1
`, speaker.ID, speaker.Name, speaker.Title, speaker.Organization, speaker.Bio, speaker.PhotoAssetID)
	if err != nil {
		return models.Speaker{}, WrapError(err, "update speaker")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.Speaker{}, ErrNotFound("Speaker not found.")
	}
	return speaker, nil
}

func DeleteSpeaker(db *sqlx.DB, id int64) error {
	return deleteDirectoryRow(db, `speakers`, id, "Speaker")
}

// ListAgenda returns sessions grouped by day, in time order. Day filter
// is optional.
func ListAgenda(db *sqlx.DB, day string) ([]models.AgendaSession, error) {
	sessions := []models.AgendaSession{}
	var err error
	if day != "" {
		err = db.Select(&sessions, `SELECT * FROM agenda_sessions WHERE day = $1 ORDER BY "time", id`, day)
	} else {
		err = db.Select(&sessions, `SELECT * FROM agenda_sessions ORDER BY day, "time", id`)
	}
	return sessions, WrapError(err, "load agenda")
}

func UpsertAgendaSession(db *sqlx.DB, session models.AgendaSession) (models.AgendaSession, error) {
	session.Title = strings.TrimSpace(session.Title)
	if session.Title == "" || session.Day == "" {
		return models.AgendaSession{}, ErrBadRequest("Session day and title are required.")
	}
	if session.ID == 0 {
		err := db.Get(&session.ID, `
INSERT INTO agenda_sessions (day, "time", title, room)
VALUES ($1,$2,$3,$4)
RETURNING id
`, session.Day, session.Time, session.Title, session.Room)
		return session, WrapError(err, "insert session")
	}
	result, err := db.Exec(`
UPDATE agenda_sessions SET day = $2, "time" = $3, title = $4, room = $5 WHERE id = $1
`, session.ID, session.Day, session.Time, session.Title, session.Room)
	if err != nil {
		return models.AgendaSession{}, WrapError(err, "update session")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.AgendaSession{}, ErrNotFound("Session not found.")
	}
	return session, nil
}

func DeleteAgendaSession(db *sqlx.DB, id int64) error {
	return deleteDirectoryRow(db, `agenda_sessions`, id, "Session")
}

func ListExhibitors(db *sqlx.DB) ([]models.Exhibitor, error) {
	exhibitors := []models.Exhibitor{}
	err := db.Select(&exhibitors, `SELECT * FROM exhibitors ORDER BY name`)
	return exhibitors, WrapError(err, "load exhibitors")
}

func UpsertExhibitor(db *sqlx.DB, exhibitor models.Exhibitor) (models.Exhibitor, error) {
	exhibitor.Name = strings.TrimSpace(exhibitor.Name)
	if exhibitor.Name == "" {
		return models.Exhibitor{}, ErrBadRequest("Exhibitor name is required.")
	}
	if exhibitor.ID == 0 {
		err := db.Get(&exhibitor.ID, `
INSERT INTO exhibitors (name, booth, description, logo_asset_id)
VALUES ($1,$2,$3,$4)
RETURNING id
`, exhibitor.Name, exhibitor.Booth, exhibitor.Description, exhibitor.LogoAssetID)
		return exhibitor, WrapError(err, "insert exhibitor")
	}
	result, err := db.Exec(`
UPDATE exhibitors SET name = $2, booth = $3, description = $4, logo_asset_id = $5 WHERE id = $1
`, exhibitor.ID, exhibitor.Name, exhibitor.Booth, exhibitor.Description, exhibitor.LogoAssetID)
	if err != nil {
		return models.Exhibitor{}, WrapError(err, "update exhibitor")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.Exhibitor{}, ErrNotFound("Exhibitor not found.")
	}
	return exhibitor, nil
}

func DeleteExhibitor(db *sqlx.DB, id int64) error {
	return deleteDirectoryRow(db, `exhibitors`, id, "Exhibitor")
}

// ListSponsors returns sponsors ordered by tier, then name.
func ListSponsors(db *sqlx.DB) ([]models.Sponsor, error) {
	sponsors := []models.Sponsor{}
	err := db.Select(&sponsors, `SELECT * FROM sponsors`)
	if err != nil {
		return nil, WrapError(err, "load sponsors")
	}
	SortSponsors(sponsors)
	return sponsors, nil
}

func UpsertSponsor(db *sqlx.DB, sponsor models.Sponsor) (models.Sponsor, error) {
	sponsor.Name = strings.TrimSpace(sponsor.Name)
	if sponsor.Name == "" {
		return models.Sponsor{}, ErrBadRequest("Sponsor name is required.")
	}
	if SponsorTierRank(sponsor.Tier) == len(SponsorTiers) {
		return models.Sponsor{}, ErrBadRequest("Unknown sponsor tier: " + sponsor.Tier)
	}
	if sponsor.ID == 0 {
		err := db.Get(&sponsor.ID, `
INSERT INTO sponsors (name, tier, website, logo_asset_id)
VALUES ($1,$2,$3,$4)
RETURNING id
`, sponsor.Name, sponsor.Tier, sponsor.Website, sponsor.LogoAssetID)
		return sponsor, WrapError(err, "insert sponsor")
	}
	result, err := db.Exec(`
UPDATE sponsors SET name = $2, tier = $3, website = $4, logo_asset_id = $5 WHERE id = $1
`, sponsor.ID, sponsor.Name, sponsor.Tier, sponsor.Website, sponsor.LogoAssetID)
	if err != nil {
		return models.Sponsor{}, WrapError(err, "update sponsor")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.Sponsor{}, ErrNotFound("Sponsor not found.")
	}
	return sponsor, nil
}

func DeleteSponsor(db *sqlx.DB, id int64) error {
	return deleteDirectoryRow(db, `sponsors`, id, "Sponsor")
}

// ListMaterials returns downloadable conference materials, newest first.
func ListMaterials(db *sqlx.DB) ([]models.Material, error) {
	materials := []models.Material{}
	err := db.Select(&materials, `SELECT * FROM materials ORDER BY created_at DESC`)
	return materials, WrapError(err, "load materials")
}

func AddMaterial(db *sqlx.DB, title, url string, fileAssetID *string) (models.Material, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Material{}, ErrBadRequest("Material title is required.")
	}
	if strings.TrimSpace(url) == "" && fileAssetID == nil {
		return models.Material{}, ErrBadRequest("A file or a link is required.")
	}
	material := models.Material{
		Title:       title,
		URL:         strings.TrimSpace(url),
		FileAssetID: fileAssetID,
		CreatedAt:   time.Now().UTC(),
	}
	err := db.Get(&material.ID, `
INSERT INTO materials (title, file_asset_id, url, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id
`, material.Title, fileAssetID, material.URL, material.CreatedAt)
	return material, WrapError(err, "insert material")
}

func DeleteMaterial(db *sqlx.DB, id int64) error {
	return deleteDirectoryRow(db, `materials`, id, "Material")
}

// GetVenue returns the single venue record, or an empty one before any
// has been saved.
func GetVenue(db *sqlx.DB) (models.Venue, error) {
	var venue models.Venue
	err := db.Get(&venue, `SELECT * FROM venues ORDER BY id LIMIT 1`)
	if err != nil {
		return models.Venue{}, nil
	}
	return venue, nil
}

// SaveVenue replaces the venue record.
func SaveVenue(db *sqlx.DB, venue models.Venue) (models.Venue, error) {
	venue.Name = strings.TrimSpace(venue.Name)
	if venue.Name == "" {
		return models.Venue{}, ErrBadRequest("Venue name is required.")
	}
	existing, err := GetVenue(db)
	if err != nil {
		return models.Venue{}, err
	}
	if existing.ID == 0 {
		err = db.Get(&venue.ID, `
INSERT INTO venues (name, address, map_url, details)
VALUES ($1,$2,$3,$4)
RETURNING id
`, venue.Name, venue.Address, venue.MapURL, venue.Details)
		return venue, WrapError(err, "insert venue")
	}
	venue.ID = existing.ID
	_, err = db.Exec(`
UPDATE venues SET name = $2, address = $3, map_url = $4, details = $5 WHERE id = $1
`, venue.ID, venue.Name, venue.Address, venue.MapURL, venue.Details)
	return venue, WrapError(err, "update venue")
}

var directoryTables = map[string]bool{
	"speakers": true, "agenda_sessions": true, "exhibitors": true,
	"sponsors": true, "materials": true,
}

func deleteDirectoryRow(db *sqlx.DB, table string, id int64, label string) error {
	if !directoryTables[table] {
		return ErrBadRequest("Unknown table.")
	}
	result, err := db.Exec(`DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return WrapError(err, "delete "+strings.ToLower(label))
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound(label + " not found.")
	}
	return nil
}
