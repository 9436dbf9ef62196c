package services

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"insaka-backend-go/internal/models"
)

var NewsCategories = []string{
	"General", "Conference Updates", "Industry News",
	"Speaker Updates", "Exhibitor News", "Schedule Changes",
}

func isNewsCategory(value string) bool {
	for _, known := range NewsCategories {
		if known == value {
			return true
		}
	}
	return false
}

// PR engagement interaction types.
const (
	PRView    = "view"
	PRLike    = "like"
	PRShare   = "share"
	PRComment = "comment"
)

// CreateAnnouncement publishes an announcement from the admin console.
// Live feed and Telegram fan-out happen at the handler, off the returned
// value.
func CreateAnnouncement(db *sqlx.DB, title, content, priority, createdBy string) (models.Announcement, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.Announcement{}, ErrBadRequest("Title and content are required.")
	}
	if _, ok := priorityRank[priority]; !ok {
		return models.Announcement{}, ErrBadRequest("Unknown priority: " + priority)
	}
	announcement := models.Announcement{
		Title:     title,
		Content:   content,
		Priority:  priority,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	err := db.Get(&announcement.ID, `
INSERT INTO announcements (title, content, priority, created_by, created_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, title, content, priority, createdBy, announcement.CreatedAt)
	if err != nil {
		return models.Announcement{}, WrapError(err, "insert announcement")
	}
	return announcement, nil
}

// ListAnnouncements returns announcements urgent first, newest within
// each priority.
func ListAnnouncements(db *sqlx.DB) ([]models.Announcement, error) {
	announcements := []models.Announcement{}
	err := db.Select(&announcements, `
SELECT * FROM announcements
ORDER BY CASE priority
  WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1 END DESC,
  created_at DESC
`)
	return announcements, WrapError(err, "load announcements")
}

// SortAnnouncements orders a slice the same way ListAnnouncements does.
func SortAnnouncements(announcements []models.Announcement) {
	sort.SliceStable(announcements, func(i, j int) bool {
		ri, rj := PriorityRank(announcements[i].Priority), PriorityRank(announcements[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return announcements[i].CreatedAt.After(announcements[j].CreatedAt)
	})
}

func DeleteAnnouncement(db *sqlx.DB, id int64) error {
	result, err := db.Exec(`DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return WrapError(err, "delete announcement")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Announcement not found.")
	}
	return nil
}

// CreateNewsItem publishes a news item; the category must be one of the
// fixed set.
func CreateNewsItem(db *sqlx.DB, title, content, category, createdBy string, imageAssetID *string) (models.NewsItem, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.NewsItem{}, ErrBadRequest("Title and content are required.")
	}
	if !isNewsCategory(category) {
		return models.NewsItem{}, ErrBadRequest("Unknown category: " + category)
	}
	item := models.NewsItem{
		Title:        title,
		Content:      content,
		Category:     category,
		ImageAssetID: imageAssetID,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
	err := db.Get(&item.ID, `
INSERT INTO news_items (title, content, category, image_asset_id, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, title, content, category, imageAssetID, createdBy, item.CreatedAt)
	if err != nil {
		return models.NewsItem{}, WrapError(err, "insert news item")
	}
	return item, nil
}

// ListNews returns news newest first, optionally filtered by category.
func ListNews(db *sqlx.DB, category string) ([]models.NewsItem, error) {
	items := []models.NewsItem{}
	var err error
	if category != "" {
		err = db.Select(&items, `SELECT * FROM news_items WHERE category = $1 ORDER BY created_at DESC`, category)
	} else {
		err = db.Select(&items, `SELECT * FROM news_items ORDER BY created_at DESC`)
	}
	return items, WrapError(err, "load news")
}

func DeleteNewsItem(db *sqlx.DB, id int64) error {
	result, err := db.Exec(`DELETE FROM news_items WHERE id = $1`, id)
	if err != nil {
		return WrapError(err, "delete news item")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("News item not found.")
	}
	return nil
}

// CreatePRPost publishes a promotional post with optional hashtags.
func CreatePRPost(db *sqlx.DB, title, content string, hashtags []string, createdBy string, imageAssetID *string) (models.PRPost, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.PRPost{}, ErrBadRequest("Title and content are required.")
	}
	cleaned := []string{}
	for _, tag := range hashtags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return models.PRPost{}, WrapError(err, "encode hashtags")
	}
	post := models.PRPost{
		Title:        title,
		Content:      content,
		Hashtags:     encoded,
		ImageAssetID: imageAssetID,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
	err = db.Get(&post.ID, `
INSERT INTO pr_posts (title, content, hashtags, image_asset_id, views, likes, shares, created_by, created_at)
VALUES ($1,$2,$3,$4,0,0,0,$5,$6)
RETURNING id
`, title, content, encoded, imageAssetID, createdBy, post.CreatedAt)
	if err != nil {
		return models.PRPost{}, WrapError(err, "insert post")
	}
	return post, nil
}

// TrendingScore weighs shares double: likes + 2*shares.
func TrendingScore(post models.PRPost) int64 {
	return post.Likes + 2*post.Shares
}

// ListPRPosts returns posts either newest first or by trending score.
func ListPRPosts(db *sqlx.DB, trending bool) ([]models.PRPost, error) {
	posts := []models.PRPost{}
	order := `created_at DESC`
	if trending {
		order = `likes + 2 * shares DESC, created_at DESC`
	}
	err := db.Select(&posts, `SELECT * FROM pr_posts ORDER BY `+order)
	return posts, WrapError(err, "load posts")
}

// SortPostsByTrending orders a slice by trending score, newest first on
// ties.
func SortPostsByTrending(posts []models.PRPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		si, sj := TrendingScore(posts[i]), TrendingScore(posts[j])
		if si != sj {
			return si > sj
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func GetPRPost(db *sqlx.DB, id int64) (models.PRPost, error) {
	var post models.PRPost
	if err := db.Get(&post, `SELECT * FROM pr_posts WHERE id = $1`, id); err != nil {
		return models.PRPost{}, ErrNotFound("Post not found.")
	}
	return post, nil
}

func DeletePRPost(db *sqlx.DB, id int64) error {
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin delete")
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM pr_interactions WHERE post_id = $1`, id); err != nil {
		return WrapError(err, "delete post interactions")
	}
	result, err := tx.Exec(`DELETE FROM pr_posts WHERE id = $1`, id)
	if err != nil {
		return WrapError(err, "delete post")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Post not found.")
	}
	return WrapError(tx.Commit(), "commit delete")
}

// RecordPostView bumps the view counter. Views are not deduplicated.
func RecordPostView(db *sqlx.DB, postID, delegateID int64, userName string) error {
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin view")
	}
	defer func() { _ = tx.Rollback() }()
	result, err := tx.Exec(`UPDATE pr_posts SET views = views + 1 WHERE id = $1`, postID)
	if err != nil {
		return WrapError(err, "bump views")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Post not found.")
	}
	if _, err := tx.Exec(`
INSERT INTO pr_interactions (post_id, delegate_id, user_name, type, created_at)
VALUES ($1,$2,$3,$4,$5)
`, postID, delegateID, userName, PRView, time.Now().UTC()); err != nil {
		return WrapError(err, "record view")
	}
	return WrapError(tx.Commit(), "commit view")
}

// TogglePostLike likes the post for the delegate, or removes the like if
// already present. Returns whether the post ends up liked.
func TogglePostLike(db *sqlx.DB, postID, delegateID int64, userName string) (bool, error) {
	tx, err := db.Beginx()
	if err != nil {
		return false, WrapError(err, "begin like")
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.Get(&existing, `
SELECT id FROM pr_interactions WHERE post_id = $1 AND delegate_id = $2 AND type = $3
`, postID, delegateID, PRLike)
	liked := false
	if err == nil {
		if _, err := tx.Exec(`DELETE FROM pr_interactions WHERE id = $1`, existing); err != nil {
			return false, WrapError(err, "remove like")
		}
		if _, err := tx.Exec(`UPDATE pr_posts SET likes = greatest(likes - 1, 0) WHERE id = $1`, postID); err != nil {
			return false, WrapError(err, "drop like counter")
		}
	} else {
		result, err := tx.Exec(`UPDATE pr_posts SET likes = likes + 1 WHERE id = $1`, postID)
		if err != nil {
			return false, WrapError(err, "bump likes")
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return false, ErrNotFound("Post not found.")
		}
		if _, err := tx.Exec(`
INSERT INTO pr_interactions (post_id, delegate_id, user_name, type, created_at)
VALUES ($1,$2,$3,$4,$5)
`, postID, delegateID, userName, PRLike, time.Now().UTC()); err != nil {
			return false, WrapError(err, "record like")
		}
		liked = true
	}
	return liked, WrapError(tx.Commit(), "commit like")
}

// RecordPostShare bumps the share counter and logs the share.
func RecordPostShare(db *sqlx.DB, postID, delegateID int64, userName string) error {
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin share")
	}
	defer func() { _ = tx.Rollback() }()
	result, err := tx.Exec(`UPDATE pr_posts SET shares = shares + 1 WHERE id = $1`, postID)
	if err != nil {
		return WrapError(err, "bump shares")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Post not found.")
	}
	if _, err := tx.Exec(`
INSERT INTO pr_interactions (post_id, delegate_id, user_name, type, created_at)
VALUES ($1,$2,$3,$4,$5)
`, postID, delegateID, userName, PRShare, time.Now().UTC()); err != nil {
		return WrapError(err, "record share")
	}
	return WrapError(tx.Commit(), "commit share")
}

// AddPostComment attaches a comment to the post.
func AddPostComment(db *sqlx.DB, postID, delegateID int64, userName, content string) (models.PRInteraction, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.PRInteraction{}, ErrBadRequest("Comment is required.")
	}
	if _, err := GetPRPost(db, postID); err != nil {
		return models.PRInteraction{}, err
	}
	comment := models.PRInteraction{
		PostID:     postID,
		DelegateID: delegateID,
		UserName:   userName,
		Type:       PRComment,
		Content:    &content,
		CreatedAt:  time.Now().UTC(),
	}
	err := db.Get(&comment.ID, `
INSERT INTO pr_interactions (post_id, delegate_id, user_name, type, content, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, postID, delegateID, userName, PRComment, content, comment.CreatedAt)
	if err != nil {
		return models.PRInteraction{}, WrapError(err, "insert comment")
	}
	return comment, nil
}

// ListPostComments returns a post's comments, oldest first.
func ListPostComments(db *sqlx.DB, postID int64) ([]models.PRInteraction, error) {
	comments := []models.PRInteraction{}
	err := db.Select(&comments, `
SELECT * FROM pr_interactions WHERE post_id = $1 AND type = $2 ORDER BY created_at, id
`, postID, PRComment)
	return comments, WrapError(err, "load comments")
}

// HasLikedPost reports whether the delegate currently likes the post.
func HasLikedPost(db *sqlx.DB, postID, delegateID int64) (bool, error) {
	var liked bool
	err := db.Get(&liked, `
SELECT EXISTS(SELECT 1 FROM pr_interactions WHERE post_id = $1 AND delegate_id = $2 AND type = $3)
`, postID, delegateID, PRLike)
	return liked, WrapError(err, "like check")
}

// PostHashtags decodes the stored hashtag list.
func PostHashtags(post models.PRPost) []string {
	tags := []string{}
	if len(post.Hashtags) > 0 {
		_ = json.Unmarshal(post.Hashtags, &tags)
	}
	return tags
}
