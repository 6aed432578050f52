package domain

// AuthState is the client-side auth mirror kept by the web apps. It is read
// optimistically and never trusted over a live identity check.
type AuthState struct {
	User        *User    `json:"user"`
	Session     *Session `json:"session"`
	IsLoading   bool     `json:"isLoading"`
	IsOnboarded bool     `json:"isOnboarded"`
}

// PersistedAuthState is the subset of AuthState that survives reloads.
type PersistedAuthState struct {
	IsOnboarded bool `json:"isOnboarded"`
}

func (s AuthState) Partial() PersistedAuthState {
	return PersistedAuthState{IsOnboarded: s.IsOnboarded}
}
