package nuclino

import (
	"time"
)

// Field describes a custom field configured on a workspace.
type Field struct {
	Object string         `json:"object"`
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config,omitempty"`
}

// Workspace is a content tree root belonging to a team.
type Workspace struct {
	Object        string    `json:"object"`
	ID            string    `json:"id"`
	TeamID        string    `json:"teamId"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedUserID string    `json:"createdUserId"`
	ChildIDs      []string  `json:"childIds"`
	Fields        []Field   `json:"fields,omitempty"`
}

// Team groups workspaces and users.
type Team struct {
	Object        string    `json:"object"`
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedUserID string    `json:"createdUserId"`
}

// User is a member of a team.
type User struct {
	Object    string `json:"object"`
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Download carries a pre-signed file URL with its expiry.
type Download struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// File is an attachment referenced from an item's content.
type File struct {
	Object        string    `json:"object"`
	ID            string    `json:"id"`
	ItemID        string    `json:"itemId"`
	FileName      string    `json:"fileName"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedUserID string    `json:"createdUserId"`
	Download      Download  `json:"download"`
}
