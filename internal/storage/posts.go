package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trainingapi/internal/models"
)

// PostFilter restricts a post listing. Zero values mean "no restriction".
type PostFilter struct {
	Status   string
	AuthorID *int64
	Featured *bool
}

const postOrder = "published_date DESC, id DESC"

// ListPosts returns one page of posts matching the filter along with the
// total match count.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, page Page) ([]models.Post, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var posts []models.Post
	if err := q.Order(postOrder).Offset(page.Offset()).Limit(page.Limit).Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

// GetPost fetches a single post by id.
func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// CreatePost persists a new post.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// SavePost writes back all fields of an already loaded post.
func (s *Store) SavePost(ctx context.Context, post *models.Post) error {
	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

// DeletePost removes a post. Published posts cannot be deleted and must be
// archived first.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusPublished {
		return ErrPostPublished
	}
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// SearchPosts finds published posts whose title or content contains the
// query, case-insensitively, newest first.
func (s *Store) SearchPosts(ctx context.Context, query string, limit int) ([]models.Post, error) {
	pattern := "%" + query + "%"
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PostStatusPublished).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order(postOrder).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

// FeaturedPosts returns all published featured posts, newest first.
func (s *Store) FeaturedPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Where("is_featured = ? AND status = ?", true, models.PostStatusPublished).
		Order(postOrder).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("featured posts: %w", err)
	}
	return posts, nil
}

// IncrementPostViews bumps the view counter atomically at the database.
func (s *Store) IncrementPostViews(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// IncrementPostLikes bumps the like counter atomically at the database.
func (s *Store) IncrementPostLikes(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment likes: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// CountPostsByAuthor counts posts authored by a user.
func (s *Store) CountPostsByAuthor(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}
