package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"insaka-backend-go/internal/qr"
	"insaka-backend-go/internal/services"
)

type ProfileUpdateRequest struct {
	Category     *string `json:"category"`
	Organization *string `json:"organization"`
	RoleTitle    *string `json:"roleTitle"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Notes        *string `json:"notes"`
	Nationality  *string `json:"nationality"`
}

// requireDelegate rejects admin console sessions on delegate-only routes.
func requireDelegate(w http.ResponseWriter, r *http.Request) (int64, bool) {
	delegateID := CurrentDelegateID(r)
	if delegateID == 0 {
		WriteError(w, http.StatusForbidden, "A delegate session is required")
		return 0, false
	}
	return delegateID, true
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	delegate, err := services.GetDelegate(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, delegate)
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req ProfileUpdateRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
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

type CheckInsResponse struct {
	CheckedIn bool    `json:"checkedIn"`
	Days      [5]bool `json:"days"`
}

func (s *Server) MyCheckIns(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	delegate, err := services.GetDelegate(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	days, err := services.DailyCheckInStatus(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, CheckInsResponse{CheckedIn: delegate.CheckedIn, Days: days})
}

// BadgeQR renders the delegate's login QR as a PNG.
func (s *Server) BadgeQR(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	delegate, err := services.GetDelegate(s.DB, delegateID)
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

func (s *Server) ListDelegates(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	delegates, err := services.ListDelegates(s.DB, search, category)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": delegates})
}

func (s *Server) GetDelegate(w http.ResponseWriter, r *http.Request) {
	delegate, err := services.GetDelegate(s.DB, pathID(r, "delegateId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, delegate)
}
