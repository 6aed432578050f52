package domain

// DisplayBundle is the header/sidebar view-model. It is rebuilt on every
// layout render and never persisted.
type DisplayBundle struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	AvatarURL           string `json:"avatar_url"`
	PendingItems        int    `json:"pending_items"`
	UnreadNotifications int    `json:"unread_notifications"`
}

const (
	DefaultDisplayName = "User"
	DefaultAvatarURL   = "/images/default-avatar.png"
)
