package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trainingapi/internal/models"
)

const maxAvatarSize = 2 * 1024 * 1024

var allowedAvatarExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// serializeProfile renders a profile. The private view adds contact and
// preference fields that only the profile owner may see.
func (s *Server) serializeProfile(c *gin.Context, p *models.Profile, private bool) (gin.H, error) {
	postsCount, err := s.store.CountPostsByAuthor(c.Request.Context(), p.UserID)
	if err != nil {
		return nil, err
	}
	tasksCount, err := s.store.CountTasksAssigned(c.Request.Context(), p.UserID)
	if err != nil {
		return nil, err
	}

	avatarURL := p.AvatarURL
	if p.Avatar != "" {
		avatarURL = "/uploads/" + p.Avatar
	}

	data := gin.H{
		"id":                  p.ID,
		"user_id":             p.UserID,
		"display_name":        p.DisplayName,
		"bio":                 p.Bio,
		"avatar_url":          avatarURL,
		"job_title":           p.JobTitle,
		"company":             p.Company,
		"years_of_experience": p.YearsOfExperience,
		"skills":              models.SplitList(p.Skills),
		"interests":           models.SplitList(p.Interests),
		"city":                p.City,
		"country":             p.Country,
		"social_links":        models.SocialLinks(p),
		"profile_views":       p.ProfileViews,
		"posts_count":         postsCount,
		"tasks_count":         tasksCount,
		"is_verified":         p.IsVerified,
		"account_created":     formatTime(&p.AccountCreated),
	}

	if private {
		data["phone"] = p.Phone
		data["website"] = p.Website
		data["timezone"] = p.Timezone
		data["preferred_language"] = p.PreferredLanguage
		data["email_notifications"] = p.EmailNotifications
		data["newsletter_subscription"] = p.NewsletterSubscription
		data["last_login"] = formatTime(p.LastLogin)
	}

	return data, nil
}

// handleMyProfile returns the acting user's profile in the private view
// and stamps the last login.
func (s *Server) handleMyProfile(c *gin.Context) {
	actorID, _ := actingUser(c)

	profile, err := s.store.GetOrCreateProfile(c.Request.Context(), actorID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	now := time.Now().UTC()
	if err := s.store.TouchLastLogin(c.Request.Context(), profile.ID, now); err != nil {
		s.handleError(c, err)
		return
	}
	profile.LastLogin = &now

	data, err := s.serializeProfile(c, profile, true)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"profile": data})
}

type updateProfileRequest struct {
	Bio                    *string `json:"bio"`
	AvatarURL              *string `json:"avatar_url"`
	Phone                  *string `json:"phone"`
	Website                *string `json:"website"`
	LinkedinURL            *string `json:"linkedin_url"`
	GithubUsername         *string `json:"github_username"`
	TwitterHandle          *string `json:"twitter_handle"`
	JobTitle               *string `json:"job_title"`
	Company                *string `json:"company"`
	YearsOfExperience      *int    `json:"years_of_experience"`
	Skills                 *string `json:"skills"`
	Interests              *string `json:"interests"`
	City                   *string `json:"city"`
	Country                *string `json:"country"`
	Timezone               *string `json:"timezone"`
	PreferredLanguage      *string `json:"preferred_language"`
	EmailNotifications     *bool   `json:"email_notifications"`
	NewsletterSubscription *bool   `json:"newsletter_subscription"`
}

// handleUpdateMyProfile applies a partial update to the acting user's
// profile.
func (s *Server) handleUpdateMyProfile(c *gin.Context) {
	actorID, _ := actingUser(c)

	profile, err := s.store.GetOrCreateProfile(c.Request.Context(), actorID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Phone != nil {
		if err := models.ValidatePhone(*req.Phone); err != nil {
			s.handleError(c, err)
			return
		}
		profile.Phone = *req.Phone
	}
	if req.Website != nil {
		if err := models.ValidateWebsiteURL(*req.Website); err != nil {
			s.handleError(c, err)
			return
		}
		profile.Website = *req.Website
	}
	if req.LinkedinURL != nil {
		if err := models.ValidateLinkedinURL(*req.LinkedinURL); err != nil {
			s.handleError(c, err)
			return
		}
		profile.LinkedinURL = *req.LinkedinURL
	}
	if req.YearsOfExperience != nil {
		if err := models.ValidateExperience(*req.YearsOfExperience); err != nil {
			s.handleError(c, err)
			return
		}
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if req.TwitterHandle != nil {
		profile.TwitterHandle = strings.TrimLeft(*req.TwitterHandle, "@")
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.GithubUsername != nil {
		profile.GithubUsername = *req.GithubUsername
	}
	if req.JobTitle != nil {
		profile.JobTitle = *req.JobTitle
	}
	if req.Company != nil {
		profile.Company = *req.Company
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.Interests != nil {
		profile.Interests = *req.Interests
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}
	if req.PreferredLanguage != nil {
		profile.PreferredLanguage = *req.PreferredLanguage
	}
	if req.EmailNotifications != nil {
		profile.EmailNotifications = *req.EmailNotifications
	}
	if req.NewsletterSubscription != nil {
		profile.NewsletterSubscription = *req.NewsletterSubscription
	}

	if err := s.store.SaveProfile(c.Request.Context(), profile); err != nil {
		s.handleError(c, err)
		return
	}

	data, err := s.serializeProfile(c, profile, true)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"profile": data,
		"message": "Profile updated successfully",
	})
}

// handleUserProfile returns another user's profile in the public view and
// counts the visit.
func (s *Server) handleUserProfile(c *gin.Context) {
	userID, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	if _, err := s.store.GetUser(c.Request.Context(), userID); err != nil {
		s.handleError(c, err)
		return
	}

	profile, err := s.store.GetOrCreateProfile(c.Request.Context(), userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if err := s.store.IncrementProfileViews(c.Request.Context(), profile.ID); err != nil {
		s.handleError(c, err)
		return
	}
	profile.ProfileViews++

	data, err := s.serializeProfile(c, profile, false)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"profile": data})
}

// handleUploadAvatar stores an uploaded avatar image under a random
// filename and records it on the profile.
func (s *Server) handleUploadAvatar(c *gin.Context) {
	actorID, _ := actingUser(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		s.respondError(c, http.StatusBadRequest, "Invalid file type. Allowed: JPG, PNG, GIF")
		return
	}
	if file.Size > maxAvatarSize {
		s.respondError(c, http.StatusBadRequest, "File too large. Maximum size: 2MB")
		return
	}

	profile, err := s.store.GetOrCreateProfile(c.Request.Context(), actorID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.handleError(c, err)
		return
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(s.uploadDir, name)); err != nil {
		s.handleError(c, err)
		return
	}

	profile.Avatar = name
	if err := s.store.SaveProfile(c.Request.Context(), profile); err != nil {
		s.handleError(c, err)
		return
	}

	data, err := s.serializeProfile(c, profile, true)
	if err != nil {
		s.handleError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"profile": data,
		"message": "Avatar uploaded successfully",
	})
}

// handleSearchUsers searches profiles by display name, job title or
// company.
func (s *Server) handleSearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.respondError(c, http.StatusBadRequest, "Search query (q) is required")
		return
	}

	limit, err := parseLimit(c, 10, 50)
	if err != nil {
		s.handleError(c, err)
		return
	}

	profiles, err := s.store.SearchProfiles(c.Request.Context(), query, limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		data, err := s.serializeProfile(c, &profiles[i], false)
		if err != nil {
			s.handleError(c, err)
			return
		}
		out = append(out, data)
	}

	respondData(c, http.StatusOK, gin.H{
		"profiles": out,
		"count":    len(out),
		"query":    query,
	})
}

// handleLeaderboard ranks users by number of authored posts.
func (s *Server) handleLeaderboard(c *gin.Context) {
	limit, err := parseLimit(c, 10, 50)
	if err != nil {
		s.handleError(c, err)
		return
	}

	entries, err := s.store.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	leaderboard := make([]gin.H, 0, len(entries))
	for i, e := range entries {
		leaderboard = append(leaderboard, gin.H{
			"rank":          i + 1,
			"user_id":       e.Profile.UserID,
			"display_name":  e.Profile.DisplayName,
			"job_title":     e.Profile.JobTitle,
			"posts_count":   e.PostsCount,
			"profile_views": e.Profile.ProfileViews,
			"is_verified":   e.Profile.IsVerified,
		})
	}

	respondData(c, http.StatusOK, gin.H{
		"leaderboard": leaderboard,
		"count":       len(leaderboard),
	})
}
