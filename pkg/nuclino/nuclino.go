package nuclino

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/nuclino-community/nuclino-go/pkg/client"
	"github.com/nuclino-community/nuclino-go/pkg/logging"
)

// Client is the public Nuclino API facade. It owns one request executor
// with its own rate limiter; concurrent use from multiple goroutines is
// safe.
type Client struct {
	api    *client.Client
	logger zerolog.Logger
}

// New creates a facade from a full client configuration.
func New(cfg client.Config) (*Client, error) {
	api, err := client.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		api:    api,
		logger: logging.NewLogger("nuclino"),
	}, nil
}

// NewWithAPIKey creates a facade with library defaults.
func NewWithAPIKey(apiKey string) (*Client, error) {
	return New(client.DefaultConfig(apiKey))
}

// API exposes the underlying executor for advanced use.
func (c *Client) API() *client.Client {
	return c.api
}

// Items returns a lazy pager over the items and collections in a team or
// workspace. The validation error, if any, surfaces on the first Next or
// All call without a network request.
func (c *Client) Items(params ItemListParams) *Pager[Entity] {
	query := url.Values{}
	if params.TeamID != "" {
		query.Set("teamId", params.TeamID)
	}
	if params.WorkspaceID != "" {
		query.Set("workspaceId", params.WorkspaceID)
	}

	pager := newPager(c.api, "/items", query, params.Limit, decodeEntity, Entity.EntityID)
	pager.after = params.After
	if err := params.Validate(); err != nil {
		pager.err = err
	}
	return pager
}

// GetItems lists all items and collections in a team or workspace,
// following the cursor until the listing is exhausted. Server ordering is
// preserved.
func (c *Client) GetItems(ctx context.Context, params ItemListParams) ([]Entity, error) {
	return c.Items(params).All(ctx)
}

// GetItem fetches one item or collection by ID.
func (c *Client) GetItem(ctx context.Context, itemID string) (Entity, error) {
	if itemID == "" {
		return nil, client.NewValidationError("item_id is required")
	}
	raw, err := c.api.Get(ctx, "/items/"+itemID, nil)
	if err != nil {
		return nil, err
	}
	return decodeEntity(raw)
}

// CreateItem creates a new item in a workspace root or inside a collection.
func (c *Client) CreateItem(ctx context.Context, params CreateItemParams) (*Item, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	body := createItemBody{
		Object:      ObjectItem,
		WorkspaceID: params.WorkspaceID,
		ParentID:    params.ParentID,
		Title:       params.Title,
		Content:     params.Content,
		Index:       params.Index,
	}
	raw, err := c.api.Post(ctx, "/items", body)
	if err != nil {
		return nil, err
	}
	return decodeAs[Item](raw)
}

// UpdateItem updates an item's title and/or content. Unset fields keep
// their current server-side values.
func (c *Client) UpdateItem(ctx context.Context, itemID string, params UpdateItemParams) (*Item, error) {
	if itemID == "" {
		return nil, client.NewValidationError("item_id is required")
	}
	body := updateItemBody{Title: params.Title, Content: params.Content}
	raw, err := c.api.Put(ctx, "/items/"+itemID, body)
	if err != nil {
		return nil, err
	}
	return decodeAs[Item](raw)
}

// DeleteItem moves an item or collection to the trash.
func (c *Client) DeleteItem(ctx context.Context, itemID string) (*DeleteResponse, error) {
	if itemID == "" {
		return nil, client.NewValidationError("item_id is required")
	}
	raw, err := c.api.Delete(ctx, "/items/"+itemID)
	if err != nil {
		return nil, err
	}
	resp, err := decodeAs[DeleteResponse](raw)
	if err != nil {
		return nil, err
	}
	resp.Success = true
	return resp, nil
}

// GetCollection fetches a collection by ID. Items and collections share the
// /items endpoint, so the result is checked against the discriminator.
func (c *Client) GetCollection(ctx context.Context, collectionID string) (*Collection, error) {
	entity, err := c.GetItem(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	collection := AsCollection(entity)
	if collection == nil {
		return nil, client.NewValidationError(
			fmt.Sprintf("object %q is an item, not a collection", collectionID))
	}
	return collection, nil
}

// CreateCollection creates a new collection in a workspace root or inside
// another collection.
func (c *Client) CreateCollection(ctx context.Context, params CreateCollectionParams) (*Collection, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	body := createItemBody{
		Object:      ObjectCollection,
		WorkspaceID: params.WorkspaceID,
		ParentID:    params.ParentID,
		Title:       params.Title,
		Index:       params.Index,
	}
	raw, err := c.api.Post(ctx, "/items", body)
	if err != nil {
		return nil, err
	}
	return decodeAs[Collection](raw)
}

// UpdateCollection changes a collection's title.
func (c *Client) UpdateCollection(ctx context.Context, collectionID string, params UpdateCollectionParams) (*Collection, error) {
	if collectionID == "" {
		return nil, client.NewValidationError("collection_id is required")
	}
	body := updateItemBody{Title: params.Title}
	raw, err := c.api.Put(ctx, "/items/"+collectionID, body)
	if err != nil {
		return nil, err
	}
	return decodeAs[Collection](raw)
}

// DeleteCollection moves a collection to the trash.
func (c *Client) DeleteCollection(ctx context.Context, collectionID string) (*DeleteResponse, error) {
	return c.DeleteItem(ctx, collectionID)
}

// Workspaces returns a lazy pager over the workspaces visible to the API
// key, optionally restricted to one team.
func (c *Client) Workspaces(params WorkspaceListParams) *Pager[*Workspace] {
	query := url.Values{}
	if params.TeamID != "" {
		query.Set("teamId", params.TeamID)
	}

	pager := newPager(c.api, "/workspaces", query, params.Limit, decodeAs[Workspace],
		func(w *Workspace) string { return w.ID })
	pager.after = params.After
	if err := params.Validate(); err != nil {
		pager.err = err
	}
	return pager
}

// GetWorkspaces lists all visible workspaces.
func (c *Client) GetWorkspaces(ctx context.Context, params WorkspaceListParams) ([]*Workspace, error) {
	return c.Workspaces(params).All(ctx)
}

// GetWorkspace fetches one workspace by ID.
func (c *Client) GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error) {
	if workspaceID == "" {
		return nil, client.NewValidationError("workspace_id is required")
	}
	raw, err := c.api.Get(ctx, "/workspaces/"+workspaceID, nil)
	if err != nil {
		return nil, err
	}
	return decodeAs[Workspace](raw)
}

// Teams returns a lazy pager over the teams visible to the API key.
func (c *Client) Teams(params TeamListParams) *Pager[*Team] {
	pager := newPager(c.api, "/teams", url.Values{}, params.Limit, decodeAs[Team],
		func(t *Team) string { return t.ID })
	pager.after = params.After
	if err := params.Validate(); err != nil {
		pager.err = err
	}
	return pager
}

// GetTeams lists all visible teams.
func (c *Client) GetTeams(ctx context.Context, params TeamListParams) ([]*Team, error) {
	return c.Teams(params).All(ctx)
}

// GetTeam fetches one team by ID.
func (c *Client) GetTeam(ctx context.Context, teamID string) (*Team, error) {
	if teamID == "" {
		return nil, client.NewValidationError("team_id is required")
	}
	raw, err := c.api.Get(ctx, "/teams/"+teamID, nil)
	if err != nil {
		return nil, err
	}
	return decodeAs[Team](raw)
}

// GetUser fetches one user by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, client.NewValidationError("user_id is required")
	}
	raw, err := c.api.Get(ctx, "/users/"+userID, nil)
	if err != nil {
		return nil, err
	}
	return decodeAs[User](raw)
}

// GetFile fetches one file by ID. The download URL is pre-signed and
// short-lived.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	if fileID == "" {
		return nil, client.NewValidationError("file_id is required")
	}
	raw, err := c.api.Get(ctx, "/files/"+fileID, nil)
	if err != nil {
		return nil, err
	}
	return decodeAs[File](raw)
}

// decodeAs unmarshals a data payload into a concrete model.
func decodeAs[T any](raw json.RawMessage) (*T, error) {
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode %T: %w", value, err)
	}
	return &value, nil
}
