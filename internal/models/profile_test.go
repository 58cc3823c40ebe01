package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""))
	assert.NoError(t, ValidatePhone("123-456-7890"))
	assert.NoError(t, ValidatePhone("+1 (234) 567-8901"))
	assert.NoError(t, ValidatePhone("1234567"))

	assert.Error(t, ValidatePhone("abc"))
	assert.Error(t, ValidatePhone("123456"))
	assert.Error(t, ValidatePhone("1234567890123456"))
}

func TestValidateWebsiteURL(t *testing.T) {
	assert.NoError(t, ValidateWebsiteURL(""))
	assert.NoError(t, ValidateWebsiteURL("https://example.com"))
	assert.NoError(t, ValidateWebsiteURL("http://localhost:8080/path"))
	assert.NoError(t, ValidateWebsiteURL("https://192.168.1.1/admin"))

	assert.Error(t, ValidateWebsiteURL("example.com"))
	assert.Error(t, ValidateWebsiteURL("ftp://example.com"))
}

func TestValidateLinkedinURL(t *testing.T) {
	assert.NoError(t, ValidateLinkedinURL("https://linkedin.com/in/someone"))
	assert.Error(t, ValidateLinkedinURL("linkedin.com/in/someone"))
}

func TestValidateExperience(t *testing.T) {
	assert.NoError(t, ValidateExperience(0))
	assert.NoError(t, ValidateExperience(70))
	assert.Error(t, ValidateExperience(-1))
	assert.Error(t, ValidateExperience(71))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{"Go", "SQL"}, SplitList("Go, SQL"))
	assert.Equal(t, []string{"one"}, SplitList(" one ,,"))
}

func TestSocialLinks(t *testing.T) {
	p := &Profile{
		LinkedinURL:    "https://linkedin.com/in/someone",
		GithubUsername: "someone",
		TwitterHandle:  "@someone",
		Website:        "https://example.com",
	}
	links := SocialLinks(p)
	assert.Equal(t, "https://linkedin.com/in/someone", links["linkedin"])
	assert.Equal(t, "https://github.com/someone", links["github"])
	assert.Equal(t, "https://twitter.com/someone", links["twitter"])
	assert.Equal(t, "https://example.com", links["website"])

	empty := SocialLinks(&Profile{})
	assert.Empty(t, empty)
}
