package pxlsdump

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bodgit/pxlsdump/info"
)

// Default pxls endpoints.
const (
	DefaultInfoURL  = "https://pxls.space/info"
	DefaultBoardURL = "https://pxls.space/boarddata"
)

// Client fetches canvas metadata and board data. Requests are never retried.
type Client struct {
	HTTP     *http.Client
	InfoURL  string
	BoardURL string
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %q", url, resp.Status)
	}

	return resp, nil
}

// FetchInfo retrieves and decodes the canvas metadata.
func (c *Client) FetchInfo(ctx context.Context) (*info.Info, error) {
	resp, err := c.get(ctx, c.InfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return info.Decode(resp.Body)
}

// FetchBoard retrieves the raw board data.
func (c *Client) FetchBoard(ctx context.Context) ([]byte, error) {
	resp, err := c.get(ctx, c.BoardURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
