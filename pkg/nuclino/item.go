package nuclino

import (
	"time"
)

// Object discriminator values used by the API.
const (
	ObjectItem       = "item"
	ObjectCollection = "collection"
	ObjectWorkspace  = "workspace"
	ObjectTeam       = "team"
	ObjectUser       = "user"
	ObjectFile       = "file"
	ObjectList       = "list"
)

// ContentMeta references the items and files mentioned in an item's content.
type ContentMeta struct {
	ItemIDs []string `json:"itemIds"`
	FileIDs []string `json:"fileIds"`
}

// Item is a leaf content document in the workspace tree. Instances are
// immutable snapshots returned by the API; identifiers are assigned by the
// server, never by this library.
type Item struct {
	Object            string         `json:"object"`
	ID                string         `json:"id"`
	WorkspaceID       string         `json:"workspaceId"`
	URL               string         `json:"url"`
	Title             string         `json:"title"`
	CreatedAt         time.Time      `json:"createdAt"`
	CreatedUserID     string         `json:"createdUserId"`
	LastUpdatedAt     time.Time      `json:"lastUpdatedAt"`
	LastUpdatedUserID string         `json:"lastUpdatedUserId"`
	Fields            map[string]any `json:"fields,omitempty"`
	Content           string         `json:"content,omitempty"`
	ContentMeta       ContentMeta    `json:"contentMeta"`
	Highlight         string         `json:"highlight,omitempty"`
}

// EntityID implements Entity.
func (i *Item) EntityID() string { return i.ID }

// EntityObject implements Entity.
func (i *Item) EntityObject() string { return ObjectItem }

// Collection is a container node holding items and nested collections.
// ChildIDs preserve the server-side ordering; the library never reorders
// them locally.
type Collection struct {
	Object            string    `json:"object"`
	ID                string    `json:"id"`
	WorkspaceID       string    `json:"workspaceId"`
	URL               string    `json:"url"`
	Title             string    `json:"title"`
	CreatedAt         time.Time `json:"createdAt"`
	CreatedUserID     string    `json:"createdUserId"`
	LastUpdatedAt     time.Time `json:"lastUpdatedAt"`
	LastUpdatedUserID string    `json:"lastUpdatedUserId"`
	ChildIDs          []string  `json:"childIds"`
}

// EntityID implements Entity.
func (c *Collection) EntityID() string { return c.ID }

// EntityObject implements Entity.
func (c *Collection) EntityObject() string { return ObjectCollection }

// DeleteResponse confirms a deletion. Success is derived from the HTTP
// status, not the wire payload.
type DeleteResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"-"`
}
