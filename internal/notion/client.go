package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/version"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// Client is a thin adapter over the remote store's HTTP API. It performs no
// retries and keeps no state beyond the connection settings; failures are
// classified and propagated to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client authenticating with the given integration token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TextCondition is an equality filter on a text-like property.
type TextCondition struct {
	Equals string `json:"equals,omitempty"`
}

// Filter restricts a database query to pages matching a property condition.
type Filter struct {
	Property string         `json:"property"`
	RichText *TextCondition `json:"rich_text,omitempty"`
}

// DatabaseQuery is the body of a query-database call.
type DatabaseQuery struct {
	Filter   *Filter `json:"filter,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

// QueryResult is a page listing returned by a database query.
type QueryResult struct {
	Results    []*Page `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// Parent addresses the database a page belongs to.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePageRequest is the body of a create-page call.
type CreatePageRequest struct {
	Parent     Parent     `json:"parent"`
	Properties Properties `json:"properties"`
	Children   []any      `json:"children,omitempty"`
}

type updatePageRequest struct {
	Properties Properties `json:"properties"`
}

type appendChildrenRequest struct {
	Children []any `json:"children"`
}

// QueryDatabase runs a filtered query against a database.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, query *DatabaseQuery) (*QueryResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/databases/"+databaseID+"/query", query)
	if err != nil {
		return nil, err
	}
	var result QueryResult
	if err := c.doRequest(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePage creates a page in a database, optionally with initial body blocks.
func (c *Client) CreatePage(ctx context.Context, create *CreatePageRequest) (*Page, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/pages", create)
	if err != nil {
		return nil, err
	}
	var page Page
	if err := c.doRequest(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage replaces the provided property keys on an existing page. Keys not
// present in props keep their stored values; that partial-merge behavior is
// the store's, not ours.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	req, err := c.newRequest(ctx, http.MethodPatch, "/pages/"+pageID, updatePageRequest{Properties: props})
	if err != nil {
		return nil, err
	}
	var page Page
	if err := c.doRequest(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AppendBlockChildren appends blocks to the end of a page body. Existing
// blocks are never touched.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []any) error {
	req, err := c.newRequest(ctx, http.MethodPatch, "/blocks/"+blockID+"/children", appendChildrenRequest{Children: children})
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid notion base URL").Build()
	}
	u.Path = path.Join(u.Path, endpoint)

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode notion request body").Build()
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(string(jsonBody)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		var err error
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("User-Agent", version.UserAgent())

	return req, nil
}

// apiError is the store's error payload shape.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "notion api unreachable").Retryable().Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classifyStatus(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.WrapError(err, errors.CategoryNotion, "failed to decode notion response").Build()
		}
	}
	return nil
}

// classifyStatus maps API rejections onto the error taxonomy. The body is
// consumed best-effort: an unparseable payload still yields a classified error
// with the HTTP status.
func (c *Client) classifyStatus(resp *http.Response) error {
	var detail apiError
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil {
		_ = json.Unmarshal(b, &detail)
	}
	message := detail.Message
	if message == "" {
		message = fmt.Sprintf("notion api error: %s", resp.Status)
	}

	var builder *errors.ErrorBuilder
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		builder = errors.AuthError(message)
	case http.StatusNotFound:
		builder = errors.NotFoundError(message)
	case http.StatusTooManyRequests:
		builder = errors.NotionError(message).RateLimit()
	default:
		builder = errors.NotionError(message)
	}
	if detail.Code != "" {
		builder = builder.WithContext("notion_code", detail.Code)
	}
	return builder.WithContext("http_status", resp.StatusCode).Build()
}
