package httpapi

import (
	"net/http"

	"insaka-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

const maxMediaUpload = 10 << 20

type UploadResponse struct {
	AssetID string `json:"assetId"`
	URL     string `json:"url"`
}

// UploadMedia stores an admin upload (news images, logos, material
// files) under the named bucket.
func (s *Server) UploadMedia(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	if err := r.ParseMultipartForm(maxMediaUpload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer func() { _ = file.Close() }()
	contentType := header.Header.Get("Content-Type")
	assetID, url, err := services.SaveMediaAsset(s.DB, s.Config.MediaStoragePath, bucket, contentType, header.Filename, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, UploadResponse{AssetID: assetID, URL: url})
}

// UploadBadgePhoto lets a delegate set their own badge photo.
func (s *Server) UploadBadgePhoto(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxMediaUpload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer func() { _ = file.Close() }()
	contentType := header.Header.Get("Content-Type")
	_, url, err := services.SaveMediaAsset(s.DB, s.Config.MediaStoragePath, services.BucketBadges, contentType, header.Filename, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	badgePhoto := url
	if err := services.UpdateDelegate(s.DB, delegateID, services.UpdateDelegateInput{BadgePhoto: &badgePhoto}); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, UploadResponse{URL: url})
}

func (s *Server) MediaContent(w http.ResponseWriter, r *http.Request) {
	asset, err := services.GetAsset(s.DB, chi.URLParam(r, "assetId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	http.ServeFile(w, r, services.AssetPath(s.Config.MediaStoragePath, asset))
}
