package nuclino

import (
	"encoding/json"
	"fmt"
)

// Entity is the tagged union of Item and Collection. The API serves both
// from the /items endpoints and distinguishes them by the `object` field.
type Entity interface {
	// EntityID returns the server-assigned identifier.
	EntityID() string

	// EntityObject returns the discriminator value, ObjectItem or
	// ObjectCollection.
	EntityObject() string
}

// AsItem returns the entity as an *Item, or nil if it is a collection.
func AsItem(e Entity) *Item {
	item, _ := e.(*Item)
	return item
}

// AsCollection returns the entity as a *Collection, or nil if it is an item.
func AsCollection(e Entity) *Collection {
	collection, _ := e.(*Collection)
	return collection
}

// decodeEntity decodes one item-or-collection payload on its discriminator.
func decodeEntity(raw json.RawMessage) (Entity, error) {
	var probe struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode entity discriminator: %w", err)
	}

	switch probe.Object {
	case ObjectItem:
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		return &item, nil
	case ObjectCollection:
		var collection Collection
		if err := json.Unmarshal(raw, &collection); err != nil {
			return nil, fmt.Errorf("decode collection: %w", err)
		}
		return &collection, nil
	default:
		return nil, fmt.Errorf("unexpected object type %q", probe.Object)
	}
}

// listPayload is the wire shape of list responses:
// {"object": "list", "results": [...]}.
type listPayload struct {
	Object  string            `json:"object"`
	Results []json.RawMessage `json:"results"`
}

// decodeList unwraps a list payload into its raw results, preserving server
// order.
func decodeList(raw json.RawMessage) ([]json.RawMessage, error) {
	var list listPayload
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode list payload: %w", err)
	}
	if list.Object != ObjectList {
		return nil, fmt.Errorf("unexpected object type %q, want %q", list.Object, ObjectList)
	}
	return list.Results, nil
}
