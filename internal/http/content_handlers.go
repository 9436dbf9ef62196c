package httpapi

import (
	"net/http"

	"insaka-backend-go/internal/models"
	"insaka-backend-go/internal/services"
)

// PRPostView is a post plus the decoded hashtag list and its trending
// score.
type PRPostView struct {
	models.PRPost
	Hashtags      []string `json:"hashtags"`
	TrendingScore int64    `json:"trendingScore"`
}

func toPostView(post models.PRPost) PRPostView {
	return PRPostView{
		PRPost:        post,
		Hashtags:      services.PostHashtags(post),
		TrendingScore: services.TrendingScore(post),
	}
}

func (s *Server) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := services.ListAnnouncements(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": announcements})
}

func (s *Server) ListNews(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListNews(s.DB, r.URL.Query().Get("category"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) ListPRPosts(w http.ResponseWriter, r *http.Request) {
	trending := r.URL.Query().Get("sort") == "trending"
	posts, err := services.ListPRPosts(s.DB, trending)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	views := make([]PRPostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toPostView(post))
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": views})
}

func (s *Server) ViewPost(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	if err := services.RecordPostView(s.DB, pathID(r, "postId"), delegateID, CurrentDelegateName(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ToggleLikePost(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	liked, err := services.TogglePostLike(s.DB, pathID(r, "postId"), delegateID, CurrentDelegateName(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (s *Server) SharePost(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	if err := services.RecordPostShare(s.DB, pathID(r, "postId"), delegateID, CurrentDelegateName(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CommentInput struct {
	Content string `json:"content"`
}

func (s *Server) CommentOnPost(w http.ResponseWriter, r *http.Request) {
	delegateID, ok := requireDelegate(w, r)
	if !ok {
		return
	}
	var req CommentInput
	if err := readJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	comment, err := services.AddPostComment(s.DB, pathID(r, "postId"), delegateID, CurrentDelegateName(r), req.Content)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, comment)
}

func (s *Server) ListPostComments(w http.ResponseWriter, r *http.Request) {
	comments, err := services.ListPostComments(s.DB, pathID(r, "postId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": comments})
}
