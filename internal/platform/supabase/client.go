// Package supabase is a thin REST client for the hosted PostgREST
// endpoint the production data lives behind. It is used by the
// operational commands, not by the request path.
package supabase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
)

const pageSize = 500

// Client calls the PostgREST dossiers endpoint with the anon key.
type Client struct {
	http *resty.Client
}

// NewClient builds a client against url's /rest/v1 prefix.
func NewClient(url, anonKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(url, "/")+"/rest/v1").
		SetHeader("apikey", anonKey).
		SetHeader("Authorization", "Bearer "+anonKey).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)
	return &Client{http: c}
}

// FetchAllDossiers pages through the whole table in creation order and
// returns normalized records.
func (c *Client) FetchAllDossiers(ctx context.Context) ([]domain.Dossier, error) {
	out := []domain.Dossier{}
	for from := 0; ; from += pageSize {
		var page []map[string]any
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("select", "*").
			SetQueryParam("order", "created_at.asc").
			SetHeader("Range-Unit", "items").
			SetHeader("Range", fmt.Sprintf("%d-%d", from, from+pageSize-1)).
			SetResult(&page).
			Get("/dossiers")
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dossiers page at %d: %w", from, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("dossiers page at %d returned %s", from, resp.Status())
		}
		for _, raw := range page {
			if d, ok := compat.NormalizeDossier(raw); ok {
				out = append(out, d)
			}
		}
		if len(page) < pageSize {
			return out, nil
		}
	}
}

// CountDossiers asks PostgREST for an exact row count without fetching
// row bodies.
func (c *Client) CountDossiers(ctx context.Context) (int64, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", "id").
		SetHeader("Prefer", "count=exact").
		SetHeader("Range-Unit", "items").
		SetHeader("Range", "0-0").
		Get("/dossiers")
	if err != nil {
		return 0, fmt.Errorf("failed to count dossiers: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("dossier count returned %s", resp.Status())
	}
	// Content-Range looks like "0-0/128"; the total follows the slash.
	cr := resp.Header().Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 || idx+1 >= len(cr) {
		return 0, fmt.Errorf("malformed Content-Range %q", cr)
	}
	total, err := strconv.ParseInt(cr[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed Content-Range %q: %w", cr, err)
	}
	return total, nil
}
