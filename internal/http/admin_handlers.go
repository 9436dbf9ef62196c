package httpapi

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"insaka-backend-go/internal/models"
	"insaka-backend-go/internal/qr"
	"insaka-backend-go/internal/roster"
	"insaka-backend-go/internal/services"
)

const maxRosterUpload = 20 << 20

type AdminStatsResponse struct {
	Delegates     int `json:"delegates"`
	CheckedIn     int `json:"checkedIn"`
	Connections   int `json:"connections"`
	Announcements int `json:"announcements"`
	NewsItems     int `json:"newsItems"`
	PRPosts       int `json:"prPosts"`
}

func (s *Server) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats := AdminStatsResponse{}
	counts := []struct {
		dest  *int
		query string
	}{
		{&stats.Delegates, `SELECT count(*) FROM delegates`},
		{&stats.CheckedIn, `SELECT count(*) FROM delegates WHERE checked_in`},
		{&stats.Connections, `SELECT count(*) FROM interactions WHERE type = 'connection_request' AND status = 'accepted'`},
		{&stats.Announcements, `SELECT count(*) FROM announcements`},
		{&stats.NewsItems, `SELECT count(*) FROM news_items`},
		{&stats.PRPosts, `SELECT count(*) FROM pr_posts`},
	}
	for _, count := range counts {
		if err := s.DB.Get(count.dest, count.query); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	items, err := services.LatestMetrics(s.DB, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) AdminCreateDelegate(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	id, err := services.RegisterDelegate(s.DB, services.RegisterDelegateInput{
		Name:         req.Name,
		Category:     req.Category,
		Organization: req.Organization,
		RoleTitle:    req.RoleTitle,
		Email:        req.Email,
		Phone:        req.Phone,
		Nationality:  req.Nationality,
		Notes:        req.Notes,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	delegate, err := services.GetDelegate(s.DB, id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, delegate)
}

func (s *Server) AdminUpdateDelegate(w http.ResponseWriter, r *http.Request) {
	var req ProfileUpdateRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	delegateID := pathID(r, "delegateId")
	err := services.UpdateDelegate(s.DB, delegateID, services.UpdateDelegateInput{
		Category:     req.Category,
		Organization: req.Organization,
		RoleTitle:    req.RoleTitle,
		Email:        req.Email,
		Phone:        req.Phone,
		Notes:        req.Notes,
		Nationality:  req.Nationality,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	delegate, err := services.GetDelegate(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, delegate)
}

type CheckInRequest struct {
	DelegateIDs []string `json:"delegateIds"`
	CheckedIn   bool     `json:"checkedIn"`
}

// AdminCheckIn flips the overall check-in flag for a batch of delegates.
func (s *Server) AdminCheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	ids := make([]int64, 0, len(req.DelegateIDs))
	for _, raw := range req.DelegateIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid delegate id: "+raw)
			return
		}
		ids = append(ids, id)
	}
	updated, notFound, err := services.SetCheckedIn(s.DB, ids, req.CheckedIn)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"updated": updated, "notFound": notFound})
}

type DayCheckInRequest struct {
	Day       int  `json:"day"`
	CheckedIn bool `json:"checkedIn"`
}

func (s *Server) AdminDayCheckIn(w http.ResponseWriter, r *http.Request) {
	var req DayCheckInRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.SetDailyCheckIn(s.DB, pathID(r, "delegateId"), req.Day, req.CheckedIn); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ImportResponse struct {
	Parsed    int          `json:"parsed"`
	Added     int          `json:"added"`
	Skipped   int          `json:"skipped"`
	ToAdd     []roster.Row `json:"toAdd,omitempty"`
	Duplicate []roster.Row `json:"duplicates,omitempty"`
}

// AdminImportRoster ingests a CSV or Excel roster file. With
// ?preview=true it only reports what would be added; otherwise it
// commits the new rows.
func (s *Server) AdminImportRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRosterUpload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A roster file is required")
		return
	}
	defer func() { _ = file.Close() }()

	var rows []roster.Row
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		rows, err = roster.Read(file)
	case ".xlsx", ".xls":
		rows, err = roster.ParseWorkbook(file)
	default:
		WriteError(w, http.StatusBadRequest, "Unsupported roster format; use .csv or .xlsx")
		return
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Could not parse the roster file")
		return
	}

	if r.URL.Query().Get("preview") == "true" {
		toAdd, skipped, err := services.ImportPreview(s.DB, rows)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, ImportResponse{
			Parsed:    len(rows),
			Added:     len(toAdd),
			Skipped:   len(skipped),
			ToAdd:     toAdd,
			Duplicate: skipped,
		})
		return
	}

	added, skipped, err := services.ImportRows(s.DB, rows)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, ImportResponse{Parsed: len(rows), Added: added, Skipped: skipped})
}

// AdminExportRoster streams the roster as CSV (default) or as a styled
// Excel workbook with pivot sheets.
func (s *Server) AdminExportRoster(w http.ResponseWriter, r *http.Request) {
	rows, err := services.ExportRows(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "xlsx" {
		buffer, filename, err := roster.ExportWorkbook(rows)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buffer.Bytes())
		return
	}
	filename := "delegates_" + time.Now().Format("20060102_1504") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_ = roster.Write(w, rows)
}

// AdminBadgeQR renders the badge login QR for any delegate, for badge
// printing runs.
func (s *Server) AdminBadgeQR(w http.ResponseWriter, r *http.Request) {
	delegate, err := services.GetDelegate(s.DB, pathID(r, "delegateId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	payload := qr.NewPayload(strconv.FormatInt(delegate.ID, 10), delegate.Name,
		delegate.Organization, s.Config.ConferenceName, time.Now().UTC())
	size := parseInt(r.URL.Query().Get("size"), 512)
	if size < 128 || size > 2048 {
		size = 512
	}
	png, err := qr.PNG(payload, size)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// AdminPurgeNotifications runs the retention purge on demand.
func (s *Server) AdminPurgeNotifications(w http.ResponseWriter, r *http.Request) {
	days := parseInt(r.URL.Query().Get("days"), s.Config.NotificationKeepDays)
	deleted, err := services.PurgeOldNotifications(s.DB, days)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

type AnnouncementInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
}

func (s *Server) AdminCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	announcement, err := services.CreateAnnouncement(s.DB, req.Title, req.Content, req.Priority, "admin")
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	s.Feed.BroadcastAnnouncement(announcement)
	s.Telegram.Announce(announcement)
	WriteJSON(w, http.StatusCreated, announcement)
}

func (s *Server) AdminDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteAnnouncement(s.DB, pathID(r, "announcementId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type NewsInput struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Category     string  `json:"category"`
	ImageAssetID *string `json:"imageAssetId"`
}

func (s *Server) AdminCreateNews(w http.ResponseWriter, r *http.Request) {
	var req NewsInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	item, err := services.CreateNewsItem(s.DB, req.Title, req.Content, req.Category, "admin", req.ImageAssetID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (s *Server) AdminDeleteNews(w http.ResponseWriter, r *http.Request) {
	if err := services.DeleteNewsItem(s.DB, pathID(r, "newsId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type PRPostInput struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Hashtags     []string `json:"hashtags"`
	ImageAssetID *string  `json:"imageAssetId"`
}

func (s *Server) AdminCreatePRPost(w http.ResponseWriter, r *http.Request) {
	var req PRPostInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	post, err := services.CreatePRPost(s.DB, req.Title, req.Content, req.Hashtags, "admin", req.ImageAssetID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPostView(post))
}

func (s *Server) AdminDeletePRPost(w http.ResponseWriter, r *http.Request) {
	if err := services.DeletePRPost(s.DB, pathID(r, "postId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) AdminUpsertSpeaker(w http.ResponseWriter, r *http.Request) {
	var speaker models.Speaker
	if err := readJSON(r, &speaker); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	saved, err := services.UpsertSpeaker(s.DB, speaker)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) AdminDeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	writeDeleteResult(w, services.DeleteSpeaker(s.DB, pathID(r, "id")))
}

func (s *Server) AdminUpsertSession(w http.ResponseWriter, r *http.Request) {
	var session models.AgendaSession
	if err := readJSON(r, &session); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	saved, err := services.UpsertAgendaSession(s.DB, session)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) AdminDeleteSession(w http.ResponseWriter, r *http.Request) {
	writeDeleteResult(w, services.DeleteAgendaSession(s.DB, pathID(r, "id")))
}

func (s *Server) AdminUpsertExhibitor(w http.ResponseWriter, r *http.Request) {
	var exhibitor models.Exhibitor
	if err := readJSON(r, &exhibitor); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	saved, err := services.UpsertExhibitor(s.DB, exhibitor)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) AdminDeleteExhibitor(w http.ResponseWriter, r *http.Request) {
	writeDeleteResult(w, services.DeleteExhibitor(s.DB, pathID(r, "id")))
}

func (s *Server) AdminUpsertSponsor(w http.ResponseWriter, r *http.Request) {
	var sponsor models.Sponsor
	if err := readJSON(r, &sponsor); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	saved, err := services.UpsertSponsor(s.DB, sponsor)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) AdminDeleteSponsor(w http.ResponseWriter, r *http.Request) {
	writeDeleteResult(w, services.DeleteSponsor(s.DB, pathID(r, "id")))
}

type MaterialInput struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	FileAssetID *string `json:"fileAssetId"`
}

func (s *Server) AdminAddMaterial(w http.ResponseWriter, r *http.Request) {
	var req MaterialInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	material, err := services.AddMaterial(s.DB, req.Title, req.URL, req.FileAssetID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, material)
}

func (s *Server) AdminDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	writeDeleteResult(w, services.DeleteMaterial(s.DB, pathID(r, "id")))
}

func (s *Server) AdminSaveVenue(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue
	if err := readJSON(r, &venue); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	saved, err := services.SaveVenue(s.DB, venue)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

func writeDeleteResult(w http.ResponseWriter, err error) {
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
