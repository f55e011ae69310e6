package nuclino

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nuclino-community/nuclino-go/pkg/client"
)

// ItemListParams selects the scope of an item listing. Exactly one of
// TeamID and WorkspaceID must be set.
type ItemListParams struct {
	// TeamID restricts the listing to one team.
	TeamID string

	// WorkspaceID restricts the listing to one workspace.
	WorkspaceID string

	// Limit is the page size, 1 to 100. Zero requests the API maximum.
	Limit int

	// After resumes the listing from the given cursor.
	After string
}

// Validate checks parameter consistency locally, before any network call.
func (p ItemListParams) Validate() error {
	if p.TeamID == "" && p.WorkspaceID == "" {
		return client.NewValidationError("must specify either team_id or workspace_id")
	}
	if p.TeamID != "" && p.WorkspaceID != "" {
		return client.NewValidationError("cannot specify both team_id and workspace_id")
	}
	return validateLimit(p.Limit)
}

// WorkspaceListParams selects the scope of a workspace listing.
type WorkspaceListParams struct {
	TeamID string
	Limit  int
	After  string
}

// Validate checks parameter consistency locally.
func (p WorkspaceListParams) Validate() error {
	return validateLimit(p.Limit)
}

// TeamListParams bounds a team listing.
type TeamListParams struct {
	Limit int
	After string
}

// Validate checks parameter consistency locally.
func (p TeamListParams) Validate() error {
	return validateLimit(p.Limit)
}

// CreateItemParams describes a new item. Exactly one of WorkspaceID and
// ParentID must be set: the item lands either at a workspace root or inside
// a collection.
type CreateItemParams struct {
	WorkspaceID string
	ParentID    string

	// Title is the item title.
	Title *string

	// Content is the item's markdown content. Items only; ignored for
	// collections.
	Content *string

	// Index is the position in the parent's child list. Nil appends.
	Index *int
}

// Validate checks parameter consistency locally.
func (p CreateItemParams) Validate() error {
	if p.WorkspaceID == "" && p.ParentID == "" {
		return client.NewValidationError("must specify either workspace_id or parent_id")
	}
	if p.WorkspaceID != "" && p.ParentID != "" {
		return client.NewValidationError("cannot specify both workspace_id and parent_id")
	}
	return nil
}

// CreateCollectionParams describes a new collection. Same placement rule as
// CreateItemParams.
type CreateCollectionParams struct {
	WorkspaceID string
	ParentID    string
	Title       *string
	Index       *int
}

// Validate checks parameter consistency locally.
func (p CreateCollectionParams) Validate() error {
	return CreateItemParams{WorkspaceID: p.WorkspaceID, ParentID: p.ParentID}.Validate()
}

// UpdateItemParams carries a partial update. Nil fields are left out of the
// request body entirely, so the server keeps their current values.
type UpdateItemParams struct {
	Title   *string
	Content *string
}

// UpdateCollectionParams carries a partial collection update.
type UpdateCollectionParams struct {
	Title *string
}

// validateLimit bounds a page size to what the API accepts. Zero means
// "use the maximum" and passes.
func validateLimit(limit int) error {
	err := validation.Validate(limit,
		validation.Min(0),
		validation.Max(MaxPageLimit),
	)
	if err != nil {
		return client.NewValidationError("limit must be between 1 and 100: " + err.Error())
	}
	return nil
}

// createItemBody is the wire shape of item/collection creation.
type createItemBody struct {
	Object      string  `json:"object"`
	WorkspaceID string  `json:"workspaceId,omitempty"`
	ParentID    string  `json:"parentId,omitempty"`
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Index       *int    `json:"index,omitempty"`
}

// updateItemBody is the wire shape of partial updates. Pointer fields keep
// unset values off the wire.
type updateItemBody struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
