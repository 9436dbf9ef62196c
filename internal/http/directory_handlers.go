package httpapi

import (
	"net/http"
	"net/url"

	"insaka-backend-go/internal/services"
)

func (s *Server) Agenda(w http.ResponseWriter, r *http.Request) {
	sessions, err := services.ListAgenda(s.DB, r.URL.Query().Get("day"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": sessions})
}

func (s *Server) Speakers(w http.ResponseWriter, r *http.Request) {
	speakers, err := services.ListSpeakers(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": speakers})
}

func (s *Server) Exhibitors(w http.ResponseWriter, r *http.Request) {
	exhibitors, err := services.ListExhibitors(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": exhibitors})
}

func (s *Server) Sponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := services.ListSponsors(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": sponsors})
}

func (s *Server) Materials(w http.ResponseWriter, r *http.Request) {
	materials, err := services.ListMaterials(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": materials})
}

func (s *Server) Venue(w http.ResponseWriter, r *http.Request) {
	venue, err := services.GetVenue(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, venue)
}

// SitePreview fetches a sponsor or exhibitor website and returns it as
// plain text for the in-app preview card. Results are memoized.
func (s *Server) SitePreview(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		WriteError(w, http.StatusBadRequest, "A valid http(s) url is required")
		return
	}
	if r.URL.Query().Get("refresh") == "true" {
		s.Fetcher.Invalidate(target)
	}
	result, err := s.Fetcher.Fetch(target)
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Could not fetch the site")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
