// REST client for the n8n workflow server: deploy workflow definitions from
// JSON files and export the server's workflows back to disk.

package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Workflow mirrors the fields of a workflow definition we care about; Nodes,
// Connections and Settings pass through untouched.
type Workflow struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Active      bool            `json:"active,omitempty"`
	Nodes       json.RawMessage `json:"nodes"`
	Connections json.RawMessage `json:"connections"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

type listResponse struct {
	Data []Workflow `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-N8N-API-KEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// List returns every workflow on the server.
func (c *Client) List(ctx context.Context) ([]Workflow, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/workflows", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Deploy reads a workflow definition from disk and creates it on the server,
// or updates the existing workflow with the same name.
func (c *Client) Deploy(ctx context.Context, path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var wf Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}
	if wf.Name == "" {
		return nil, fmt.Errorf("workflow file %s has no name", path)
	}

	existing, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var deployed Workflow
	for _, e := range existing {
		if e.Name == wf.Name {
			wf.ID = ""
			if err := c.do(ctx, http.MethodPut, "/api/v1/workflows/"+e.ID, wf, &deployed); err != nil {
				return nil, err
			}
			return &deployed, nil
		}
	}

	if err := c.do(ctx, http.MethodPost, "/api/v1/workflows", wf, &deployed); err != nil {
		return nil, err
	}
	return &deployed, nil
}

// Activate switches a deployed workflow on.
func (c *Client) Activate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/workflows/"+id+"/activate", nil, nil)
}

var filenameRe = regexp.MustCompile(`\s+`)

// ExportAll writes every server workflow to dir as pretty-printed JSON and
// returns the written filenames.
func (c *Client) ExportAll(ctx context.Context, dir string) ([]string, error) {
	workflows, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var files []string
	for _, wf := range workflows {
		name := filenameRe.ReplaceAllString(strings.ToLower(wf.Name), "-") + ".json"
		data, err := json.MarshalIndent(wf, "", "  ")
		if err != nil {
			return files, fmt.Errorf("marshal workflow %s: %w", wf.Name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return files, fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, name)
	}
	return files, nil
}
