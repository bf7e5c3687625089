package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/blogsearch/internal/domain/post"
)

// errIndexPartial reports that some posts failed; details are in the printed results.
var errIndexPartial = errors.New("some posts failed to index")

func newIndexCmd(c *cli) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "index <file.json|->",
		Short: "Embed and store blog posts",
		Long: `Embed and store blog posts from a JSON file ("-" reads stdin).

The input is either a JSON array of posts or one post object per line.
Each post needs a title or body; posts without an id get a UUID. Fields
other than id, title and body are stored and returned with search results.`,
		Example: `  blogsearch index posts.json
  cat posts.jsonl | blogsearch index -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := readPostsFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runIndex(cmd.Context(), cmd.OutOrStdout(), c, posts, batchSize)
		},
	}
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 100, "posts embedded per request")
	return cmd
}

func runIndex(ctx context.Context, out io.Writer, c *cli, posts []post.Post, batchSize int) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	enc := json.NewEncoder(out)
	failed := 0
	for start := 0; start < len(posts); start += batchSize {
		end := min(start+batchSize, len(posts))
		for _, r := range a.indexer.Index(ctx, posts[start:end]) {
			if !r.OK() {
				failed++
			}
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errIndexPartial, failed, len(posts))
	}
	return nil
}

func readPostsFile(path string, stdin io.Reader) ([]post.Post, error) {
	if path == "-" {
		return readPosts(stdin)
	}
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readPosts(f)
}

// readPosts accepts a JSON array of posts or newline-delimited post objects.
func readPosts(r io.Reader) ([]post.Post, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read posts: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var posts []post.Post
		if err := dec.Decode(&posts); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}
		return posts, nil
	}

	var posts []post.Post
	for {
		var p post.Post
		if err := dec.Decode(&p); err != nil {
			if errors.Is(err, io.EOF) {
				return posts, nil
			}
			return nil, fmt.Errorf("decode post %d: %w", len(posts)+1, err)
		}
		posts = append(posts, p)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if len(bytes.TrimSpace(b)) != 0 {
			return b[0], nil
		}
		if _, err := br.ReadByte(); err != nil {
			return 0, err
		}
	}
}
