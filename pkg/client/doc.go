// Package client is a Go client for the blogsearch HTTP API.
//
//	c, err := client.New("http://localhost:8080", client.WithTimeout(5*time.Second))
//	if err != nil { ... }
//	posts, err := c.Search(ctx, "goroutine leaks")
package client
