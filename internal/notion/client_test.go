package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("secret-token", WithBaseURL(srv.URL))
}

func TestQueryDatabaseRequestShape(t *testing.T) {
	var gotPath, gotAuth, gotVersion string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "has_more": false})
	})

	query := &DatabaseQuery{
		Filter:   &Filter{Property: "Slug", RichText: &TextCondition{Equals: "lesson-a"}},
		PageSize: 1,
	}
	result, err := c.QueryDatabase(context.Background(), "db-1", query)
	require.NoError(t, err)
	require.Empty(t, result.Results)
	require.False(t, result.HasMore)

	require.Equal(t, "/databases/db-1/query", gotPath)
	require.Equal(t, "Bearer secret-token", gotAuth)
	require.Equal(t, apiVersion, gotVersion)
	require.Equal(t, map[string]any{
		"filter": map[string]any{
			"property":  "Slug",
			"rich_text": map[string]any{"equals": "lesson-a"},
		},
		"page_size": float64(1),
	}, gotBody)
}

func TestCreatePagePreservesRawPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pages", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"p-1","url":"https://notion.so/p-1","archived":false}`))
	})

	page, err := c.CreatePage(context.Background(), &CreatePageRequest{
		Parent:     Parent{DatabaseID: "db-1"},
		Properties: Properties{},
	})
	require.NoError(t, err)
	require.Equal(t, "p-1", page.ID)
	require.Equal(t, "https://notion.so/p-1", page.URL)

	// Fields we do not model survive a round trip.
	out, err := json.Marshal(page)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"p-1","url":"https://notion.so/p-1","archived":false}`, string(out))
}

func TestUpdatePageUsesPatch(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":"p-1"}`))
	})

	_, err := c.UpdatePage(context.Background(), "p-1", Properties{})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/pages/p-1", gotPath)
}

func TestAppendBlockChildren(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/blocks/p-1/children", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	})

	err := c.AppendBlockChildren(context.Background(), "p-1", BlockList([]Block{DividerBlock()}))
	require.NoError(t, err)
	children, ok := gotBody["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category errors.ErrorCategory
	}{
		{"unauthorized", http.StatusUnauthorized, `{"code":"unauthorized","message":"API token is invalid."}`, errors.CategoryAuth},
		{"forbidden", http.StatusForbidden, `{"code":"restricted_resource"}`, errors.CategoryAuth},
		{"not found", http.StatusNotFound, `{"code":"object_not_found","message":"Could not find database."}`, errors.CategoryNotFound},
		{"rate limited", http.StatusTooManyRequests, `{"code":"rate_limited"}`, errors.CategoryNotion},
		{"server error", http.StatusInternalServerError, `not json`, errors.CategoryNotion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.QueryDatabase(context.Background(), "db-1", &DatabaseQuery{})
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, tt.category))
		})
	}
}

func TestErrorCarriesAPIMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"object_not_found","message":"Could not find database."}`))
	})
	_, err := c.QueryDatabase(context.Background(), "db-1", &DatabaseQuery{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Could not find database.")

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "object_not_found", classified.Context()["notion_code"])
}

func TestRateLimitIsRetryable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.QueryDatabase(context.Background(), "db-1", &DatabaseQuery{})
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.NotEqual(t, errors.RetryNever, classified.RetryStrategy())
}
