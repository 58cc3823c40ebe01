package models

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Post is a blog entry authored by a user.
type Post struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Slug          string     `gorm:"size:255;index" json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	AuthorID      int64      `gorm:"index" json:"author_id"`
	AuthorName    string     `gorm:"size:255" json:"author_name"`
	PublishedDate *time.Time `json:"published_date"`
	Status        string     `gorm:"size:16;index;default:draft" json:"status"`
	IsFeatured    bool       `json:"is_featured"`
	ViewCount     int        `json:"view_count"`
	LikeCount     int        `json:"like_count"`
	Tags          string     `gorm:"size:255" json:"tags"`
	ReadingTime   int        `json:"reading_time_minutes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the table name for Post.
func (Post) TableName() string {
	return "posts"
}

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// ValidPostStatuses enumerates the allowed post lifecycle states.
var ValidPostStatuses = map[string]struct{}{
	PostStatusDraft:     {},
	PostStatusPublished: {},
	PostStatusArchived:  {},
}

// ValidatePostTitle rejects missing or too short titles.
func ValidatePostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return Validationf("Title is required")
	}
	if utf8.RuneCountInString(title) < 5 {
		return Validationf("Title must be at least 5 characters long")
	}
	return nil
}

// ValidatePostStatus rejects unknown lifecycle states.
func ValidatePostStatus(status string) error {
	if _, ok := ValidPostStatuses[status]; !ok {
		return Validationf("Invalid status: %s", status)
	}
	return nil
}

var htmlTagPattern = regexp.MustCompile(`<[^<]+?>`)

// StripTags removes HTML tags using a simple tag pattern.
func StripTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// Slugify converts a title into a URL-friendly slug: lowercase, drop
// everything that is not a letter, digit or space, then join the remaining
// words with hyphens.
func Slugify(title string) string {
	lower := strings.ToLower(title)
	var b strings.Builder
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

// Excerpt returns the first 200 characters of the tag-stripped content,
// with a trailing ellipsis when truncated.
func Excerpt(content string) string {
	clean := StripTags(content)
	runes := []rune(clean)
	if len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return clean
}

// ReadingTime estimates reading time in minutes at 200 words per minute.
// Empty content reads in zero minutes, anything else takes at least one.
func ReadingTime(content string) int {
	if content == "" {
		return 0
	}
	words := len(strings.Fields(StripTags(content)))
	minutes := words / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// DerivePostFields recomputes slug, excerpt and reading time from the
// current title and content. Called after every mutation of those fields.
func DerivePostFields(p *Post) {
	p.Slug = Slugify(p.Title)
	p.Excerpt = Excerpt(p.Content)
	p.ReadingTime = ReadingTime(p.Content)
}

// TagList splits the comma-separated tags field into a list.
func TagList(tags string) []string {
	if tags == "" {
		return []string{}
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
