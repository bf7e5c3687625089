package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/blogsearch/pkg/client"
)

func newQueryCmd(c *cli) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run a search and print matching posts as JSON",
		Long: `Run a search and print the matching posts as a JSON array.

By default the query runs in process against the configured stores.
With --server it is sent to a running blogsearch API instead.`,
		Example: `  blogsearch query "context cancellation in Go"
  blogsearch query --server http://localhost:8080 "redis vector search"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if server != "" {
				return runRemoteQuery(cmd.Context(), cmd.OutOrStdout(), server, text)
			}
			return runLocalQuery(cmd.Context(), cmd.OutOrStdout(), c, text)
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "", "blogsearch API base URL")
	return cmd
}

func runLocalQuery(ctx context.Context, out io.Writer, c *cli, text string) error {
	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	docs, err := a.search.Search(ctx, text)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printJSON(out, docs)
}

func runRemoteQuery(ctx context.Context, out io.Writer, server, text string) error {
	cl, err := client.New(server)
	if err != nil {
		return err
	}
	posts, err := cl.Search(ctx, text)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return printJSON(out, posts)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
