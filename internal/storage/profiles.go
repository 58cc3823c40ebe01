package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"trainingapi/internal/models"
)

// GetOrCreateProfile returns the profile for a user, creating an empty one
// on first access. The operation is idempotent.
func (s *Store) GetOrCreateProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile = models.Profile{
		UserID:         userID,
		DisplayName:    user.Name,
		AccountCreated: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes back all fields of an already loaded profile.
func (s *Store) SaveProfile(ctx context.Context, profile *models.Profile) error {
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// IncrementProfileViews bumps the view counter atomically at the database.
func (s *Store) IncrementProfileViews(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).
		UpdateColumn("profile_views", gorm.Expr("profile_views + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment profile views: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// TouchLastLogin stamps the profile's last login.
func (s *Store) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).
		UpdateColumn("last_login", at)
	if res.Error != nil {
		return fmt.Errorf("touch last login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SearchProfiles finds profiles whose display name, job title or company
// contains the query, case-insensitively.
func (s *Store) SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	pattern := "%" + query + "%"
	var profiles []models.Profile
	err := s.db.WithContext(ctx).
		Where("display_name LIKE ? OR job_title LIKE ? OR company LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}

// LeaderboardEntry pairs a profile with its authored post count.
type LeaderboardEntry struct {
	Profile    models.Profile
	PostsCount int64
}

// Leaderboard ranks profiles by number of authored posts, descending.
// Profiles without posts still participate with a zero count.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var profiles []models.Profile
	if err := s.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var counts []struct {
		AuthorID int64
		N        int64
	}
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Select("author_id, COUNT(*) AS n").
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count posts per author: %w", err)
	}
	byAuthor := make(map[int64]int64, len(counts))
	for _, c := range counts {
		byAuthor[c.AuthorID] = c.N
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, LeaderboardEntry{Profile: p, PostsCount: byAuthor[p.UserID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PostsCount > entries[j].PostsCount
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
