package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound indicates that the requested issue does not exist or is not accessible.
var ErrNotFound = errors.New("jira: issue not found")

const todoLimit = 10

type Options struct {
	Server     string
	Email      string
	APIToken   string
	ProjectKey string
	IssueType  string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	projectKey string
	issueType  string
	authHeader string
	http       *http.Client
}

func New(opts Options) (*Client, error) {
	if opts.Server == "" || opts.Email == "" || opts.APIToken == "" || opts.ProjectKey == "" {
		return nil, errors.New("jira: server, email, apiToken, projectKey are required")
	}
	if opts.IssueType == "" {
		opts.IssueType = "Task"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	creds := base64.StdEncoding.EncodeToString([]byte(opts.Email + ":" + opts.APIToken))
	return &Client{
		baseURL:    strings.TrimRight(opts.Server, "/"),
		projectKey: opts.ProjectKey,
		issueType:  opts.IssueType,
		authHeader: "Basic " + creds,
		http:       httpClient,
	}, nil
}

// ProjectKey returns configured Jira project key.
func (c *Client) ProjectKey() string { return c.projectKey }

// BrowseURL builds an URL to view issue in browser.
func (c *Client) BrowseURL(key string) string { return c.baseURL + "/browse/" + strings.TrimSpace(key) }

// do sends a JSON request and decodes a JSON response into out when
// the status matches want. A 404 maps to ErrNotFound.
func (c *Client) do(ctx context.Context, method, path string, in, out any, want int, op string) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("jira: %s: encode: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jira: %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("jira: %s: read body (%d): %w", op, resp.StatusCode, err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("jira: %s failed (%d): %s", op, resp.StatusCode, truncate(string(data), 512))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("jira: %s: decode: %w", op, err)
	}
	return nil
}

// CreateIssue creates an issue in the configured project. description may be
// a plain string or a prepared ADF document.
func (c *Client) CreateIssue(ctx context.Context, summary string, description any) (key, browseURL string, err error) {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", "", errors.New("jira: summary is required")
	}

	issueType := map[string]any{"name": c.issueType}
	if _, err := strconv.Atoi(c.issueType); err == nil {
		issueType = map[string]any{"id": c.issueType}
	}
	fields := map[string]any{
		"project":   map[string]any{"key": c.projectKey},
		"issuetype": issueType,
		"summary":   summary,
	}
	switch d := description.(type) {
	case nil:
	case Doc:
		if len(d.Content) > 0 {
			fields["description"] = d
		}
	case string:
		if strings.TrimSpace(d) != "" {
			fields["description"] = TextDoc(d)
		}
	default:
		return "", "", fmt.Errorf("jira: unsupported description type %T", description)
	}

	var out struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest/api/3/issue", map[string]any{"fields": fields}, &out, http.StatusCreated, "create issue"); err != nil {
		return "", "", err
	}
	return out.Key, c.BrowseURL(out.Key), nil
}

// Issue is a lightweight view of a Jira issue.
type Issue struct {
	Key      string
	Summary  string
	Status   string
	Assignee string
	Priority string
	Created  time.Time
	Updated  time.Time
}

type rawIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  *struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
		Priority *struct {
			Name string `json:"name"`
		} `json:"priority"`
		Created string `json:"created"`
		Updated string `json:"updated"`
	} `json:"fields"`
}

func (r rawIssue) issue() Issue {
	out := Issue{
		Key:     r.Key,
		Summary: r.Fields.Summary,
		Created: parseTime(r.Fields.Created),
		Updated: parseTime(r.Fields.Updated),
	}
	if r.Fields.Status != nil {
		out.Status = r.Fields.Status.Name
	}
	if r.Fields.Assignee != nil {
		out.Assignee = r.Fields.Assignee.DisplayName
	}
	if r.Fields.Priority != nil {
		out.Priority = r.Fields.Priority.Name
	}
	return out
}

var issueFields = []string{"summary", "status", "assignee", "priority", "created", "updated"}

// GetIssueStatus fetches the fields needed to render a status card.
func (c *Client) GetIssueStatus(ctx context.Context, key string) (*Issue, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("jira: issue key is required")
	}
	path := "/rest/api/3/issue/" + url.PathEscape(key) + "?fields=" + strings.Join(issueFields, ",")
	var raw rawIssue
	if err := c.do(ctx, http.MethodGet, path, nil, &raw, http.StatusOK, "get issue"); err != nil {
		return nil, err
	}
	issue := raw.issue()
	return &issue, nil
}

// SearchIssues runs a JQL query and returns at most max issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, max int) ([]Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, errors.New("jira: jql is required")
	}
	if max <= 0 {
		max = todoLimit
	}
	in := map[string]any{
		"jql":        jql,
		"maxResults": max,
		"fields":     issueFields,
	}
	var out struct {
		Issues []rawIssue `json:"issues"`
	}
	if err := c.do(ctx, http.MethodPost, "/rest/api/3/search/jql", in, &out, http.StatusOK, "search"); err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(out.Issues))
	for _, r := range out.Issues {
		issues = append(issues, r.issue())
	}
	return issues, nil
}

// TodoJQL selects the project's open backlog, most recently updated first.
func (c *Client) TodoJQL() string {
	return fmt.Sprintf(`project = %s AND status = "TO DO" ORDER BY updated DESC`, c.projectKey)
}

func (c *Client) TodoIssues(ctx context.Context) ([]Issue, error) {
	return c.SearchIssues(ctx, c.TodoJQL(), todoLimit)
}

// AddComment posts a plain text comment; newlines become hard breaks.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	key = strings.TrimSpace(key)
	body = strings.TrimSpace(body)
	if key == "" {
		return errors.New("jira: issue key is required")
	}
	if body == "" {
		return errors.New("jira: comment body is empty")
	}
	in := map[string]any{"body": TextDoc(body)}
	return c.do(ctx, http.MethodPost, "/rest/api/3/issue/"+url.PathEscape(key)+"/comment", in, nil, http.StatusCreated, "add comment")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
