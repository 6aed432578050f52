package domain

import "time"

// Credentials are the raw tokens presented by a browser, either as a bearer
// header or as the auth cookies set by the web apps.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

func (c Credentials) Empty() bool {
	return c.AccessToken == ""
}

type Session struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role,omitempty"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// UserMetadata mirrors the user_metadata object kept by the auth provider.
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type User struct {
	ID       string       `json:"id"`
	Email    string       `json:"email,omitempty"`
	Metadata UserMetadata `json:"user_metadata"`
}

// Identity is the result of a successful identity resolution.
type Identity struct {
	Session *Session
	User    *User
}
