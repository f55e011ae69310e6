// Command nuclino is a small CLI over the Nuclino API, mainly useful for
// exploring a workspace and smoke-testing credentials.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/nuclino-community/nuclino-go/pkg/client"
	"github.com/nuclino-community/nuclino-go/pkg/logging"
	"github.com/nuclino-community/nuclino-go/pkg/nuclino"
)

func newFacade(cmd *cli.Command) (*nuclino.Client, error) {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cmd.String("log-level")),
		Pretty: true,
	})

	cfg := client.DefaultConfig(cmd.String("api-key"))
	if baseURL := cmd.String("base-url"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if cmd.Bool("retry") {
		cfg.Retry = client.DefaultRetryPolicy()
	}
	return nuclino.New(cfg)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func optString(cmd *cli.Command, name string) *string {
	if value := cmd.String(name); value != "" {
		return &value
	}
	return nil
}

func listItems(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	entities, err := c.GetItems(ctx, nuclino.ItemListParams{
		TeamID:      cmd.String("team"),
		WorkspaceID: cmd.String("workspace"),
		Limit:       int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	for _, entity := range entities {
		if item := nuclino.AsItem(entity); item != nil {
			fmt.Printf("item        %s  %s\n", item.ID, item.Title)
			continue
		}
		collection := nuclino.AsCollection(entity)
		fmt.Printf("collection  %s  %s\n", collection.ID, collection.Title)
	}
	return nil
}

func getItem(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	entity, err := c.GetItem(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return printJSON(entity)
}

func createItem(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	item, err := c.CreateItem(ctx, nuclino.CreateItemParams{
		WorkspaceID: cmd.String("workspace"),
		ParentID:    cmd.String("parent"),
		Title:       optString(cmd, "title"),
		Content:     optString(cmd, "content"),
	})
	if err != nil {
		return err
	}
	return printJSON(item)
}

func updateItem(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	item, err := c.UpdateItem(ctx, cmd.Args().First(), nuclino.UpdateItemParams{
		Title:   optString(cmd, "title"),
		Content: optString(cmd, "content"),
	})
	if err != nil {
		return err
	}
	return printJSON(item)
}

func deleteItem(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	resp, err := c.DeleteItem(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func getCollection(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	collection, err := c.GetCollection(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return printJSON(collection)
}

func createCollection(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	collection, err := c.CreateCollection(ctx, nuclino.CreateCollectionParams{
		WorkspaceID: cmd.String("workspace"),
		ParentID:    cmd.String("parent"),
		Title:       optString(cmd, "title"),
	})
	if err != nil {
		return err
	}
	return printJSON(collection)
}

func updateCollection(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	collection, err := c.UpdateCollection(ctx, cmd.Args().First(), nuclino.UpdateCollectionParams{
		Title: optString(cmd, "title"),
	})
	if err != nil {
		return err
	}
	return printJSON(collection)
}

func deleteCollection(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	resp, err := c.DeleteCollection(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func listWorkspaces(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	workspaces, err := c.GetWorkspaces(ctx, nuclino.WorkspaceListParams{
		TeamID: cmd.String("team"),
	})
	if err != nil {
		return err
	}

	for _, ws := range workspaces {
		fmt.Printf("%s  %s\n", ws.ID, ws.Name)
	}
	return nil
}

func getWorkspace(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	ws, err := c.GetWorkspace(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return printJSON(ws)
}

func listTeams(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	teams, err := c.GetTeams(ctx, nuclino.TeamListParams{})
	if err != nil {
		return err
	}

	for _, team := range teams {
		fmt.Printf("%s  %s\n", team.ID, team.Name)
	}
	return nil
}

func getTeam(ctx context.Context, cmd *cli.Command) error {
	c, err := newFacade(cmd)
	if err != nil {
		return err
	}

	team, err := c.GetTeam(ctx, cmd.Args().First())
	if err != nil {
		return err
	}
	return printJSON(team)
}

// placementFlags returns fresh flag instances per command; cli flags carry
// parsed state and must not be shared.
func placementFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "workspace", Usage: "Workspace ID for root placement"},
		&cli.StringFlag{Name: "parent", Usage: "Parent collection ID"},
		&cli.StringFlag{Name: "title", Usage: "Title"},
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "nuclino",
		Usage: "Explore and edit a Nuclino team from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "api-key",
				Usage:    "Nuclino API key",
				Sources:  cli.EnvVars("NUCLINO_API_KEY"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API base URL override",
				Sources: cli.EnvVars("NUCLINO_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("NUCLINO_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "retry",
				Usage: "Retry server and network errors with backoff",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "items",
				Usage: "Work with items",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List the items of a team or workspace",
						Action: listItems,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "team", Usage: "Team ID"},
							&cli.StringFlag{Name: "workspace", Usage: "Workspace ID"},
							&cli.IntFlag{Name: "limit", Usage: "Page size (1-100)"},
						},
					},
					{
						Name:      "get",
						Usage:     "Fetch one item or collection",
						ArgsUsage: "<item-id>",
						Action:    getItem,
					},
					{
						Name:   "create",
						Usage:  "Create an item",
						Action: createItem,
						Flags: append(placementFlags(),
							&cli.StringFlag{Name: "content", Usage: "Markdown content"}),
					},
					{
						Name:      "update",
						Usage:     "Update an item's title and/or content",
						ArgsUsage: "<item-id>",
						Action:    updateItem,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Usage: "New title"},
							&cli.StringFlag{Name: "content", Usage: "New markdown content"},
						},
					},
					{
						Name:      "delete",
						Usage:     "Move an item to the trash",
						ArgsUsage: "<item-id>",
						Action:    deleteItem,
					},
				},
			},
			{
				Name:  "collections",
				Usage: "Work with collections",
				Commands: []*cli.Command{
					{
						Name:      "get",
						Usage:     "Fetch one collection",
						ArgsUsage: "<collection-id>",
						Action:    getCollection,
					},
					{
						Name:   "create",
						Usage:  "Create a collection",
						Action: createCollection,
						Flags:  placementFlags(),
					},
					{
						Name:      "update",
						Usage:     "Rename a collection",
						ArgsUsage: "<collection-id>",
						Action:    updateCollection,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "title", Usage: "New title"},
						},
					},
					{
						Name:      "delete",
						Usage:     "Move a collection to the trash",
						ArgsUsage: "<collection-id>",
						Action:    deleteCollection,
					},
				},
			},
			{
				Name:  "workspaces",
				Usage: "Work with workspaces",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List workspaces, optionally for one team",
						Action: listWorkspaces,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "team", Usage: "Team ID"},
						},
					},
					{
						Name:      "get",
						Usage:     "Fetch one workspace",
						ArgsUsage: "<workspace-id>",
						Action:    getWorkspace,
					},
				},
			},
			{
				Name:  "teams",
				Usage: "Work with teams",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List teams",
						Action: listTeams,
					},
					{
						Name:      "get",
						Usage:     "Fetch one team",
						ArgsUsage: "<team-id>",
						Action:    getTeam,
					},
				},
			},
		},
	}
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
