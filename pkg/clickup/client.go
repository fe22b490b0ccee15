// Package clickup wraps the ClickUp REST API v2. It exposes the raw
// project hierarchy (teams, spaces, folders, lists, tasks, comments,
// replies, activity) as decoded records and leaves all document shaping
// to the ingest package.
package clickup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrew/clickup-rag/pkg/models"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.clickup.com/api/v2"
	DefaultTimeout = 30 * time.Second

	// ClickUp's free plan allows 100 requests per minute; throttle
	// proactively a little below that.
	DefaultRequestsPerMinute = 90
)

// Config holds configuration for the ClickUp client.
type Config struct {
	// APIKey is the ClickUp personal API token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.clickup.com/api/v2).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerMinute caps the outgoing request rate (default: 90).
	RequestsPerMinute int
}

// Client talks to the ClickUp API. All methods block until the response
// arrives or the context is cancelled.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a ClickUp API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("clickup: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}, nil
}

// Teams lists the workspaces visible to the API token.
func (c *Client) Teams(ctx context.Context) ([]models.Team, error) {
	var env struct {
		Teams []models.Team `json:"teams"`
	}
	if err := c.get(ctx, "/team", &env); err != nil {
		return nil, err
	}
	return env.Teams, nil
}

// Spaces lists the spaces in a team.
func (c *Client) Spaces(ctx context.Context, teamID string) ([]models.Space, error) {
	var env struct {
		Spaces []models.Space `json:"spaces"`
	}
	if err := c.get(ctx, "/team/"+teamID+"/space", &env); err != nil {
		return nil, err
	}
	return env.Spaces, nil
}

// Folders lists the folders in a space.
func (c *Client) Folders(ctx context.Context, spaceID string) ([]models.Folder, error) {
	var env struct {
		Folders []models.Folder `json:"folders"`
	}
	if err := c.get(ctx, "/space/"+spaceID+"/folder", &env); err != nil {
		return nil, err
	}
	return env.Folders, nil
}

// Lists lists the lists inside a folder.
func (c *Client) Lists(ctx context.Context, folderID string) ([]models.List, error) {
	var env struct {
		Lists []models.List `json:"lists"`
	}
	if err := c.get(ctx, "/folder/"+folderID+"/list", &env); err != nil {
		return nil, err
	}
	return env.Lists, nil
}

// FolderlessLists lists the lists that belong directly to a space.
func (c *Client) FolderlessLists(ctx context.Context, spaceID string) ([]models.List, error) {
	var env struct {
		Lists []models.List `json:"lists"`
	}
	if err := c.get(ctx, "/space/"+spaceID+"/list", &env); err != nil {
		return nil, err
	}
	return env.Lists, nil
}

// Tasks lists the tasks in a list.
func (c *Client) Tasks(ctx context.Context, listID string) ([]models.Task, error) {
	var env struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.get(ctx, "/list/"+listID+"/task", &env); err != nil {
		return nil, err
	}
	return env.Tasks, nil
}

// Comments lists the comments on a task.
func (c *Client) Comments(ctx context.Context, taskID string) ([]models.Comment, error) {
	var env struct {
		Comments []models.Comment `json:"comments"`
	}
	if err := c.get(ctx, "/task/"+taskID+"/comment", &env); err != nil {
		return nil, err
	}
	return env.Comments, nil
}

// Replies lists the threaded replies under a comment.
func (c *Client) Replies(ctx context.Context, commentID string) ([]models.Reply, error) {
	var env struct {
		Comments []models.Reply `json:"comments"`
	}
	if err := c.get(ctx, "/comment/"+commentID+"/reply", &env); err != nil {
		return nil, err
	}
	return env.Comments, nil
}

// Activity lists the activity feed entries for a task.
func (c *Client) Activity(ctx context.Context, taskID string) ([]models.ActivityItem, error) {
	var env struct {
		Activities []models.ActivityItem `json:"activities"`
	}
	if err := c.get(ctx, "/task/"+taskID+"/activity", &env); err != nil {
		return nil, err
	}
	return env.Activities, nil
}

// Namespaces walks teams and spaces and returns one entry per pair,
// with the vector index partition name both the ingestion and query
// paths share.
func (c *Client) Namespaces(ctx context.Context) ([]models.NamespaceInfo, error) {
	teams, err := c.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	var namespaces []models.NamespaceInfo
	for _, team := range teams {
		spaces, err := c.Spaces(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("list spaces for team %s: %w", team.ID, err)
		}
		for _, space := range spaces {
			namespaces = append(namespaces, models.NamespaceInfo{
				TeamID:    team.ID,
				TeamName:  team.Name,
				SpaceID:   space.ID,
				SpaceName: space.Name,
				Namespace: NamespaceName(team.ID, space.ID),
			})
		}
	}
	return namespaces, nil
}

// NamespaceName returns the storage partition key for a team+space pair.
func NamespaceName(teamID, spaceID string) string {
	return fmt.Sprintf("team-%s-space-%s", teamID, spaceID)
}

// get performs a rate-limited GET and decodes the JSON envelope into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("clickup API error (status %d): %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
