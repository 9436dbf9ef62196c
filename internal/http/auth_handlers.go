package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"insaka-backend-go/internal/models"
	"insaka-backend-go/internal/qr"
	"insaka-backend-go/internal/services"
)

type RegisterRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Organization string `json:"organization"`
	RoleTitle    string `json:"roleTitle"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Nationality  string `json:"nationality"`
	Notes        string `json:"notes"`
}

type LoginRequest struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

type QRLoginRequest struct {
	Payload string `json:"payload"`
}

type AdminLoginRequest struct {
	PIN string `json:"pin"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	ExpiresAt    int64            `json:"expiresAt"`
	Delegate     *models.Delegate `json:"delegate,omitempty"`
}

func (s *Server) issueTokens(w http.ResponseWriter, delegate models.Delegate) {
	subject := strconv.FormatInt(delegate.ID, 10)
	access, expiresAt, err := s.Tokens.CreateAccessToken(subject, delegate.Name, []string{"DELEGATE"})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(subject)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Delegate:     &delegate,
	})
}

// Register self-registers a walk-in delegate and signs them in.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
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
	s.issueTokens(w, delegate)
}

// Login signs a delegate in by name and organization, the way the
// check-in desk verifies them.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	organization := strings.TrimSpace(req.Organization)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	var delegate models.Delegate
	err := s.DB.Get(&delegate, `
SELECT * FROM delegates
WHERE lower(trim(name)) = lower($1) AND lower(trim(organization)) = lower($2)
`, name, organization)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "No registration found for that name and organization")
		return
	}
	s.issueTokens(w, delegate)
}

// QRLogin signs a delegate in from a scanned badge code.
func (s *Server) QRLogin(w http.ResponseWriter, r *http.Request) {
	var req QRLoginRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	now := time.Now().UTC()
	payload, err := qr.Parse(req.Payload, now)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Could not read the QR code")
		return
	}
	ttl := time.Duration(s.Config.QRLoginTTLSeconds) * time.Second
	if err := qr.Validate(payload, ttl, now); err != nil {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	delegateID, err := strconv.ParseInt(payload.DelegateID, 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "QR code carries an invalid delegate id")
		return
	}
	delegate, err := services.GetDelegate(s.DB, delegateID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	// Full payloads must still name the delegate they claim to be.
	if payload.DelegateName != "" && !strings.EqualFold(strings.TrimSpace(payload.DelegateName), strings.TrimSpace(delegate.Name)) {
		WriteError(w, http.StatusUnauthorized, "QR code does not match this delegate")
		return
	}
	if payload.Organization != "" && !strings.EqualFold(strings.TrimSpace(payload.Organization), strings.TrimSpace(delegate.Organization)) {
		WriteError(w, http.StatusUnauthorized, "QR code does not match this delegate")
		return
	}
	s.issueTokens(w, delegate)
}

// AdminLogin opens an admin console session from the shared PIN.
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if !services.VerifyPIN(req.PIN, s.Config.AdminPIN) {
		WriteError(w, http.StatusUnauthorized, "Wrong PIN")
		return
	}
	access, expiresAt, err := s.Tokens.CreateAccessToken("0", "Admin", []string{"ADMIN"})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: access, ExpiresAt: expiresAt})
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	token, claims, err := s.Tokens.ParseToken(strings.TrimSpace(req.RefreshToken))
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	subject, _ := claims["sub"].(string)
	delegateID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || delegateID == 0 {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	delegate, err := services.GetDelegate(s.DB, delegateID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	s.issueTokens(w, delegate)
}
