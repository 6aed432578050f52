package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultPushTitle = "New notification"
	DefaultPushIcon  = "/icons/icon-192x192.png"
	DefaultPushBadge = "/icons/badge-72x72.png"
)

// PushPayload is the JSON body delivered to the browser service worker.
type PushPayload struct {
	Title              string         `json:"title"`
	Body               string         `json:"body"`
	Icon               string         `json:"icon"`
	Badge              string         `json:"badge"`
	Image              string         `json:"image,omitempty"`
	Data               map[string]any `json:"data,omitempty"`
	Tag                string         `json:"tag,omitempty"`
	RequireInteraction bool           `json:"requireInteraction,omitempty"`
}

// ParsePushPayload decodes a raw push message body. A JSON string becomes the
// body; anything else that is not a JSON object is shown as plain text.
func ParsePushPayload(raw []byte) PushPayload {
	var p PushPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		var text string
		if json.Unmarshal(raw, &text) != nil {
			text = string(raw)
		}
		p = PushPayload{Body: strings.TrimSpace(text)}
	}
	return p.WithDefaults()
}

func (p PushPayload) WithDefaults() PushPayload {
	if strings.TrimSpace(p.Title) == "" {
		p.Title = DefaultPushTitle
	}
	if p.Icon == "" {
		p.Icon = DefaultPushIcon
	}
	if p.Badge == "" {
		p.Badge = DefaultPushBadge
	}
	return p
}

func (p PushPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("%w: title or body is required", ErrInvalidPayload)
	}
	if p.Image != "" {
		if _, err := url.Parse(p.Image); err != nil {
			return fmt.Errorf("%w: image: %v", ErrInvalidPayload, err)
		}
	}
	if target, ok := p.Data["url"]; ok {
		s, isString := target.(string)
		if !isString {
			return fmt.Errorf("%w: data.url must be a string", ErrInvalidPayload)
		}
		if _, err := url.Parse(s); err != nil {
			return fmt.Errorf("%w: data.url: %v", ErrInvalidPayload, err)
		}
	}
	return nil
}

// TargetURL is the page a click on the notification should land on.
func (p PushPayload) TargetURL() string {
	if s, ok := p.Data["url"].(string); ok && s != "" {
		return s
	}
	return "/"
}

// PushNotification is a payload addressed to one profile, as stored in the outbox.
type PushNotification struct {
	ID          string      `json:"id"`
	RecipientID string      `json:"recipient_id"`
	App         App         `json:"app"`
	Payload     PushPayload `json:"payload"`
	CreatedAt   time.Time   `json:"created_at"`
}

// WindowClient is an open browser window controlled by the service worker.
type WindowClient struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type ClickKind string

const (
	ClickFocus ClickKind = "focus"
	ClickOpen  ClickKind = "open"
)

type ClickAction struct {
	Kind     ClickKind `json:"action"`
	ClientID string    `json:"client_id,omitempty"`
	URL      string    `json:"url"`
}

// ResolveClick focuses the first open window already showing target, or
// opens target in a new one. Relative URLs are resolved against origin.
func ResolveClick(clients []WindowClient, target, origin string) ClickAction {
	want := absoluteURL(target, origin)
	for _, c := range clients {
		if sameURL(absoluteURL(c.URL, origin), want) {
			return ClickAction{Kind: ClickFocus, ClientID: c.ID, URL: want}
		}
	}
	return ClickAction{Kind: ClickOpen, URL: want}
}

func absoluteURL(raw, origin string) string {
	if raw == "" {
		raw = "/"
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	base, err := url.Parse(origin)
	if err != nil || origin == "" {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func sameURL(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
