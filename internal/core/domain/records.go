package domain

// App names one of the two web apps served by the gate.
type App string

const (
	AppDoer       App = "doer"
	AppSupervisor App = "supervisor"
)

func (a App) Valid() bool {
	return a == AppDoer || a == AppSupervisor
}

type RoleStatus string

const (
	RoleStatusPending   RoleStatus = "pending"
	RoleStatusInReview  RoleStatus = "in_review"
	RoleStatusActive    RoleStatus = "active"
	RoleStatusRejected  RoleStatus = "rejected"
	RoleStatusSuspended RoleStatus = "suspended"
)

// Profile fields are optional in storage; an empty string means the column was null.
type Profile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// RoleRecord is the app-specific row (doer or supervisor) carrying approval status.
type RoleRecord struct {
	ID        string     `json:"id"`
	ProfileID string     `json:"profile_id"`
	Status    RoleStatus `json:"status"`
}

func (r *RoleRecord) Active() bool {
	return r != nil && r.Status == RoleStatusActive
}

// ActivationStatus tracks training and quiz progress. It only moves towards
// IsActivated = true.
type ActivationStatus struct {
	RoleRecordID      string `json:"role_record_id"`
	TrainingCompleted bool   `json:"training_completed"`
	QuizPassed        bool   `json:"quiz_passed"`
	IsActivated       bool   `json:"is_activated"`
}

func (a *ActivationStatus) Activated() bool {
	return a != nil && a.IsActivated
}

type Counts struct {
	PendingItems        int `json:"pending_items"`
	UnreadNotifications int `json:"unread_notifications"`
}
