package services

import (
	"strings"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

// DisplayBuilder assembles the header/sidebar view-model. It holds only its
// fallback constants.
type DisplayBuilder struct {
	defaultName      string
	defaultAvatarURL string
}

func NewDisplayBuilder(defaultName, defaultAvatarURL string) DisplayBuilder {
	if defaultName == "" {
		defaultName = domain.DefaultDisplayName
	}
	if defaultAvatarURL == "" {
		defaultAvatarURL = domain.DefaultAvatarURL
	}
	return DisplayBuilder{defaultName: defaultName, defaultAvatarURL: defaultAvatarURL}
}

// Build picks each field from the profile, then the auth provider metadata,
// then a fallback. It never fails.
func (b DisplayBuilder) Build(profile *domain.Profile, user *domain.User, counts domain.Counts) domain.DisplayBundle {
	var p domain.Profile
	if profile != nil {
		p = *profile
	}
	var u domain.User
	if user != nil {
		u = *user
	}

	email := firstNonEmpty(p.Email, u.Email)

	return domain.DisplayBundle{
		Name:                firstNonEmpty(p.FullName, u.Metadata.FullName, u.Metadata.Name, emailLocalPart(email), b.defaultName),
		Email:               email,
		AvatarURL:           firstNonEmpty(p.AvatarURL, u.Metadata.AvatarURL, b.defaultAvatarURL),
		PendingItems:        counts.PendingItems,
		UnreadNotifications: counts.UnreadNotifications,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}
