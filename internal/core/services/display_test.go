package services_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
)

func TestDisplayBuilder_Build(t *testing.T) {
	builder := services.NewDisplayBuilder("", "")

	tests := []struct {
		name    string
		profile *domain.Profile
		user    *domain.User
		counts  domain.Counts
		want    domain.DisplayBundle
	}{
		{
			name:    "profile wins",
			profile: &domain.Profile{FullName: "Ann Doe", Email: "ann@profile.io", AvatarURL: "/a.png"},
			user: &domain.User{Email: "ann@auth.io", Metadata: domain.UserMetadata{
				FullName: "Meta Ann", AvatarURL: "/meta.png",
			}},
			counts: domain.Counts{PendingItems: 4, UnreadNotifications: 1},
			want: domain.DisplayBundle{
				Name: "Ann Doe", Email: "ann@profile.io", AvatarURL: "/a.png",
				PendingItems: 4, UnreadNotifications: 1,
			},
		},
		{
			name:    "null profile name falls back to metadata full_name",
			profile: &domain.Profile{},
			user:    &domain.User{Metadata: domain.UserMetadata{FullName: "Jane"}},
			want:    domain.DisplayBundle{Name: "Jane", AvatarURL: domain.DefaultAvatarURL},
		},
		{
			name: "metadata name after full_name",
			user: &domain.User{Metadata: domain.UserMetadata{Name: "janey", AvatarURL: "/meta.png"}},
			want: domain.DisplayBundle{Name: "janey", AvatarURL: "/meta.png"},
		},
		{
			name: "email local part",
			user: &domain.User{Email: "jane.roe@example.com"},
			want: domain.DisplayBundle{Name: "jane.roe", Email: "jane.roe@example.com", AvatarURL: domain.DefaultAvatarURL},
		},
		{
			name:    "blank values are skipped",
			profile: &domain.Profile{FullName: "   "},
			user:    &domain.User{Metadata: domain.UserMetadata{FullName: "Jane"}},
			want:    domain.DisplayBundle{Name: "Jane", AvatarURL: domain.DefaultAvatarURL},
		},
		{
			name: "everything missing uses defaults",
			want: domain.DisplayBundle{Name: domain.DefaultDisplayName, AvatarURL: domain.DefaultAvatarURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := builder.Build(tt.profile, tt.user, tt.counts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDisplayBuilder_ConfiguredDefaults(t *testing.T) {
	builder := services.NewDisplayBuilder("Freelancer", "/img/anon.svg")

	got := builder.Build(nil, nil, domain.Counts{})

	want := domain.DisplayBundle{Name: "Freelancer", AvatarURL: "/img/anon.svg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayBuilder_Idempotent(t *testing.T) {
	builder := services.NewDisplayBuilder("", "")
	profile := &domain.Profile{FullName: "Ann"}
	user := &domain.User{Email: "ann@example.com"}
	counts := domain.Counts{PendingItems: 2}

	first := builder.Build(profile, user, counts)
	second := builder.Build(profile, user, counts)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Build() differs (-first +second):\n%s", diff)
	}
	if profile.FullName != "Ann" || user.Email != "ann@example.com" {
		t.Error("Build() mutated its inputs")
	}
}
