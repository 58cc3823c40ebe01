package models

import (
	"regexp"
	"strings"
	"time"
)

// Profile carries the extended public and private details of a user.
// Exactly one profile exists per user; it is created lazily on first
// access.
type Profile struct {
	ID                     int64      `gorm:"primaryKey" json:"id"`
	UserID                 int64      `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName            string     `gorm:"size:255" json:"display_name"`
	Bio                    string     `json:"bio"`
	Avatar                 string     `gorm:"size:255" json:"avatar"`
	AvatarURL              string     `gorm:"size:255" json:"avatar_url"`
	Phone                  string     `gorm:"size:32" json:"phone"`
	Website                string     `gorm:"size:255" json:"website"`
	LinkedinURL            string     `gorm:"size:255" json:"linkedin_url"`
	GithubUsername         string     `gorm:"size:64" json:"github_username"`
	TwitterHandle          string     `gorm:"size:64" json:"twitter_handle"`
	JobTitle               string     `gorm:"size:255" json:"job_title"`
	Company                string     `gorm:"size:255" json:"company"`
	YearsOfExperience      int        `json:"years_of_experience"`
	Skills                 string     `json:"skills"`
	Interests              string     `json:"interests"`
	City                   string     `gorm:"size:128" json:"city"`
	Country                string     `gorm:"size:128" json:"country"`
	Timezone               string     `gorm:"size:16;default:UTC" json:"timezone"`
	PreferredLanguage      string     `gorm:"size:8;default:en" json:"preferred_language"`
	EmailNotifications     bool       `gorm:"default:true" json:"email_notifications"`
	NewsletterSubscription bool       `json:"newsletter_subscription"`
	ProfileViews           int        `json:"profile_views"`
	LastLogin              *time.Time `json:"last_login"`
	AccountCreated         time.Time  `json:"account_created"`
	IsVerified             bool       `json:"is_verified"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TableName returns the table name for Profile.
func (Profile) TableName() string {
	return "profiles"
}

var (
	phoneSeparators = regexp.MustCompile(`[\s\-\(\)]`)
	phonePattern    = regexp.MustCompile(`^\+?\d{7,15}$`)
	urlPattern      = regexp.MustCompile(`^https?://` +
		`(?:(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+)$`)
)

// ValidatePhone accepts 7-15 digit numbers with an optional leading plus,
// ignoring spaces, hyphens and parentheses. Empty values pass.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	cleaned := phoneSeparators.ReplaceAllString(phone, "")
	if !phonePattern.MatchString(cleaned) {
		return Validationf("Please enter a valid phone number")
	}
	return nil
}

// ValidateWebsiteURL accepts http(s) URLs. Empty values pass.
func ValidateWebsiteURL(raw string) error {
	if raw == "" {
		return nil
	}
	if !urlPattern.MatchString(raw) {
		return Validationf("Please enter a valid website URL (must start with http:// or https://)")
	}
	return nil
}

// ValidateLinkedinURL accepts http(s) URLs. Empty values pass.
func ValidateLinkedinURL(raw string) error {
	if raw == "" {
		return nil
	}
	if !urlPattern.MatchString(raw) {
		return Validationf("Please enter a valid LinkedIn URL")
	}
	return nil
}

// ValidateExperience keeps years of experience in a plausible range.
func ValidateExperience(years int) error {
	if years < 0 {
		return Validationf("Years of experience cannot be negative")
	}
	if years > 70 {
		return Validationf("Years of experience seems unrealistic")
	}
	return nil
}

// SplitList parses a comma-separated field such as skills or interests
// into a trimmed list.
func SplitList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SocialLinks projects the profile's social fields onto canonical URLs.
// Only fields that are present appear in the map.
func SocialLinks(p *Profile) map[string]string {
	links := map[string]string{}
	if p.LinkedinURL != "" {
		links["linkedin"] = p.LinkedinURL
	}
	if p.GithubUsername != "" {
		links["github"] = "https://github.com/" + p.GithubUsername
	}
	if p.TwitterHandle != "" {
		links["twitter"] = "https://twitter.com/" + strings.TrimLeft(p.TwitterHandle, "@")
	}
	if p.Website != "" {
		links["website"] = p.Website
	}
	return links
}
