// Package nuclino is the public facade of the Nuclino API client.
//
// It exposes typed operations over items, collections, workspaces, teams,
// users, and files, on top of the rate-limited request executor in
// pkg/client. List endpoints are cursor-paginated; the Pager walks them
// lazily, while the Get* convenience methods materialize the full listing.
//
// Example usage:
//
//	nc, err := nuclino.NewWithAPIKey(os.Getenv("NUCLINO_API_KEY"))
//	if err != nil {
//		return err
//	}
//
//	// Lazy iteration: stops fetching as soon as the loop stops.
//	pager := nc.Items(nuclino.ItemListParams{WorkspaceID: "ws-1"})
//	for pager.Next(ctx) {
//		fmt.Println(pager.Entry().EntityID())
//	}
//	if err := pager.Err(); err != nil {
//		return err
//	}
//
// Items and collections share the /items endpoints and are distinguished by
// the `object` discriminator; list results decode into the Entity union.
// Parameter consistency (team vs. workspace scope, workspace vs. parent
// placement) is validated locally and fails with a validation error before
// any network call.
package nuclino
