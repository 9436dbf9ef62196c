package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"insaka-backend-go/internal/models"
)

// Media buckets. Badge photos belong to delegates; the content buckets
// back news, PR posts, logos and downloadable materials.
const (
	BucketBadges    = "badges"
	BucketContent   = "content"
	BucketMaterials = "materials"
)

var knownBuckets = map[string]bool{
	BucketBadges: true, BucketContent: true, BucketMaterials: true,
}

func EnsureStoragePath(base string, bucket string) (string, error) {
	path := filepath.Join(base, bucket)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// SaveMediaAsset streams an upload to disk under the bucket and records
// it, returning the asset id and its serving URL.
func SaveMediaAsset(db *sqlx.DB, basePath, bucket, contentType, filename string, body io.Reader) (string, string, error) {
	if !knownBuckets[bucket] {
		return "", "", ErrBadRequest("Unknown media bucket: " + bucket)
	}
	assetID := uuid.NewString()
	storageKey := assetID
	bucketPath, err := EnsureStoragePath(basePath, bucket)
	if err != nil {
		return "", "", err
	}
	targetPath := filepath.Join(bucketPath, storageKey)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", "", err
	}
	hasher := sha256.New()
	writer := io.MultiWriter(file, hasher)
	size, err := io.Copy(writer, body)
	_ = file.Close()
	if err != nil {
		return "", "", err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return "", "", ErrBadRequest("The uploaded file is empty.")
	}
	sha := hex.EncodeToString(hasher.Sum(nil))

	_, err = db.Exec(`
INSERT INTO media_assets (id, bucket, storage_key, filename, content_type, size_bytes, sha256, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, assetID, bucket, storageKey, filename, contentType, size, sha, time.Now().UTC())
	if err != nil {
		_ = os.Remove(targetPath)
		return "", "", err
	}
	return assetID, BuildAssetURL(assetID), nil
}

func BuildAssetURL(assetID string) string {
	return "/media/assets/" + assetID + "/content"
}

// GetAsset returns the asset record for serving.
func GetAsset(db *sqlx.DB, assetID string) (models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := db.Get(&asset, `SELECT * FROM media_assets WHERE id = $1`, assetID); err != nil {
		return models.MediaAsset{}, ErrNotFound("Media not found.")
	}
	return asset, nil
}

// AssetPath resolves the on-disk location of an asset.
func AssetPath(basePath string, asset models.MediaAsset) string {
	return filepath.Join(basePath, asset.Bucket, asset.StorageKey)
}

// DeleteAsset removes the record and the file. Missing assets are not
// an error; delete is idempotent.
func DeleteAsset(db *sqlx.DB, basePath string, assetID string) error {
	asset, err := GetAsset(db, assetID)
	if err != nil {
		return nil
	}
	_, _ = db.Exec(`DELETE FROM media_assets WHERE id = $1`, assetID)
	_ = os.Remove(AssetPath(basePath, asset))
	return nil
}
