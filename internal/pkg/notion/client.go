package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuelReschke/InvoiceRelay/internal/pkg/config"
)

const (
	APIVersion = "2022-06-28"
)

type Client struct {
	APIKey     string
	APIBaseURL string
	Version    string

	HTTPClient *http.Client
}

// Page is the subset of a Notion page object returned by updates.
type Page struct {
	Object         string `json:"object"`
	ID             string `json:"id"`
	LastEditedTime string `json:"last_edited_time"`
	Archived       bool   `json:"archived"`
	URL            string `json:"url"`
}

// StatusValue is the payload of a status property write.
type StatusValue struct {
	Status StatusOption `json:"status"`
}

type StatusOption struct {
	Name string `json:"name"`
}

type updatePageRequest struct {
	Properties map[string]any `json:"properties"`
}

func NewClient(apiKey, baseURL string) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = config.DefaultDocumentAPIBaseURL
	}
	return &Client{
		APIKey:     strings.TrimSpace(apiKey),
		APIBaseURL: base,
		Version:    APIVersion,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// UpdatePageProperties patches the given properties on one page.
func (c *Client) UpdatePageProperties(ctx context.Context, pageID string, properties map[string]any) (*Page, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("%w: DOCUMENT_API_KEY is not configured", config.ErrMissingCredential)
	}
	id := strings.TrimSpace(pageID)
	if id == "" {
		return nil, errors.New("page id is required")
	}

	u, err := url.Parse(c.APIBaseURL + "/v1/pages/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("invalid DOCUMENT_API_BASE_URL: %w", err)
	}

	payload, err := json.Marshal(updatePageRequest{Properties: properties})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Notion-Version", c.Version)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var out Page
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode notion page: %w", err)
	}
	return &out, nil
}
