package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"trainingapi/internal/models"
	"trainingapi/internal/storage"
)

const defaultPostPageSize = 10

func serializePost(p *models.Post) gin.H {
	return gin.H{
		"id":      p.ID,
		"title":   p.Title,
		"slug":    p.Slug,
		"content": p.Content,
		"excerpt": p.Excerpt,
		"author": gin.H{
			"id":   p.AuthorID,
			"name": p.AuthorName,
		},
		"published_date":       formatTime(p.PublishedDate),
		"status":               p.Status,
		"is_featured":          p.IsFeatured,
		"view_count":           p.ViewCount,
		"like_count":           p.LikeCount,
		"tags":                 models.TagList(p.Tags),
		"reading_time_minutes": p.ReadingTime,
	}
}

func serializePosts(posts []models.Post) []gin.H {
	out := make([]gin.H, 0, len(posts))
	for i := range posts {
		out = append(out, serializePost(&posts[i]))
	}
	return out
}

// handleListPosts returns a filtered, paginated post listing.
func (s *Server) handleListPosts(c *gin.Context) {
	page, err := parsePagination(c, defaultPostPageSize)
	if err != nil {
		s.handleError(c, err)
		return
	}

	var filter storage.PostFilter
	filter.Status = c.Query("status")
	if raw := c.Query("author_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "Invalid parameter: author_id")
			return
		}
		filter.AuthorID = &id
	}
	if raw := c.Query("featured"); raw != "" {
		featured := strings.EqualFold(raw, "true")
		filter.Featured = &featured
	}

	posts, total, err := s.store.ListPosts(c.Request.Context(), filter, page)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"posts":      serializePosts(posts),
		"pagination": paginationMeta(page, total),
	})
}

// handleGetPost returns a single post and counts the view.
func (s *Server) handleGetPost(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	post, err := s.store.GetPost(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if err := s.store.IncrementPostViews(c.Request.Context(), id); err != nil {
		s.handleError(c, err)
		return
	}
	post.ViewCount++

	respondData(c, http.StatusOK, gin.H{"post": serializePost(post)})
}

type createPostRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Status     *string `json:"status"`
	IsFeatured *bool   `json:"is_featured"`
	Tags       *string `json:"tags"`
}

// handleCreatePost creates a post authored by the acting user.
func (s *Server) handleCreatePost(c *gin.Context) {
	actorID, actorName := actingUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := models.ValidatePostTitle(req.Title); err != nil {
		s.handleError(c, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.respondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	status := models.PostStatusDraft
	if req.Status != nil {
		status = *req.Status
		if err := models.ValidatePostStatus(status); err != nil {
			s.handleError(c, err)
			return
		}
	}

	post := &models.Post{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   actorID,
		AuthorName: actorName,
		Status:     status,
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if status == models.PostStatusPublished {
		now := time.Now().UTC()
		post.PublishedDate = &now
	}
	models.DerivePostFields(post)

	if err := s.store.CreatePost(c.Request.Context(), post); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"post":    serializePost(post),
		"message": "Post created successfully",
	})
}

type updatePostRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Status     *string `json:"status"`
	IsFeatured *bool   `json:"is_featured"`
	Tags       *string `json:"tags"`
}

// handleUpdatePost applies a partial update; only the author may edit.
func (s *Server) handleUpdatePost(c *gin.Context) {
	actorID, _ := actingUser(c)

	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	post, err := s.store.GetPost(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if post.AuthorID != actorID {
		s.respondError(c, http.StatusForbidden, "You can only edit your own posts")
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		if err := models.ValidatePostTitle(*req.Title); err != nil {
			s.handleError(c, err)
			return
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Status != nil {
		if err := models.ValidatePostStatus(*req.Status); err != nil {
			s.handleError(c, err)
			return
		}
		// Moving into published stamps the publication time.
		if *req.Status == models.PostStatusPublished && post.Status != models.PostStatusPublished {
			now := time.Now().UTC()
			post.PublishedDate = &now
		}
		post.Status = *req.Status
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	models.DerivePostFields(post)

	if err := s.store.SavePost(c.Request.Context(), post); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"post":    serializePost(post),
		"message": "Post updated successfully",
	})
}

// handleDeletePost removes a post; only the author may delete, and
// published posts are refused.
func (s *Server) handleDeletePost(c *gin.Context) {
	actorID, _ := actingUser(c)

	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	post, err := s.store.GetPost(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}
	if post.AuthorID != actorID {
		s.respondError(c, http.StatusForbidden, "You can only delete your own posts")
		return
	}

	if err := s.store.DeletePost(c.Request.Context(), id); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// handleLikePost bumps the like counter.
func (s *Server) handleLikePost(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	if err := s.store.IncrementPostLikes(c.Request.Context(), id); err != nil {
		s.handleError(c, err)
		return
	}

	post, err := s.store.GetPost(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"like_count": post.LikeCount,
		"message":    "Post liked successfully",
	})
}

// handleFeaturedPosts returns all published featured posts.
func (s *Server) handleFeaturedPosts(c *gin.Context) {
	posts, err := s.store.FeaturedPosts(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"posts": serializePosts(posts),
		"count": len(posts),
	})
}

// handleSearchPosts searches published posts by title or content.
func (s *Server) handleSearchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.respondError(c, http.StatusBadRequest, "Search query (q) is required")
		return
	}

	limit, err := parseLimit(c, 20, maxPageSize)
	if err != nil {
		s.handleError(c, err)
		return
	}

	posts, err := s.store.SearchPosts(c.Request.Context(), query, limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"posts": serializePosts(posts),
		"count": len(posts),
		"query": query,
	})
}
