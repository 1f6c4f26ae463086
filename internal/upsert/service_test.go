package upsert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notionbridge/internal/codefmt"
	"git.home.luguber.info/inful/notionbridge/internal/config"
	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/notion"
	"git.home.luguber.info/inful/notionbridge/internal/template"
)

// gatewayStub records calls and plays back canned pages.
type gatewayStub struct {
	queries  []*notion.DatabaseQuery
	queryDBs []string
	found    []*notion.Page

	created   *notion.CreatePageRequest
	updatedID string
	updated   notion.Properties
	appended  []any
	appendID  string

	queryErr  error
	createErr error
	updateErr error
	appendErr error
}

func (g *gatewayStub) QueryDatabase(_ context.Context, databaseID string, query *notion.DatabaseQuery) (*notion.QueryResult, error) {
	g.queryDBs = append(g.queryDBs, databaseID)
	g.queries = append(g.queries, query)
	if g.queryErr != nil {
		return nil, g.queryErr
	}
	return &notion.QueryResult{Results: g.found}, nil
}

func (g *gatewayStub) CreatePage(_ context.Context, create *notion.CreatePageRequest) (*notion.Page, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = create
	return &notion.Page{ID: "created-1"}, nil
}

func (g *gatewayStub) UpdatePage(_ context.Context, pageID string, properties notion.Properties) (*notion.Page, error) {
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	g.updatedID = pageID
	g.updated = properties
	return &notion.Page{ID: pageID}, nil
}

func (g *gatewayStub) AppendBlockChildren(_ context.Context, blockID string, children []any) error {
	if g.appendErr != nil {
		return g.appendErr
	}
	g.appendID = blockID
	g.appended = children
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Token:         "t",
		DatabaseID:    "default-db",
		TitleProperty: "Title",
		SlugProperty:  "Slug",
		Port:          3000,
	}
}

func newTestService(gw *gatewayStub) *Service {
	return NewService(gw, template.NewRenderer(codefmt.NewLight()), testConfig())
}

func TestUpsertCreatesWhenSlugUnmatched(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	result, err := svc.Upsert(context.Background(), Request{Title: "T", Slug: "lesson-b"})
	require.NoError(t, err)
	require.Equal(t, ModeCreate, result.Mode)
	require.Equal(t, "created-1", result.Page.ID)

	require.Len(t, gw.queries, 1)
	q := gw.queries[0]
	require.Equal(t, 1, q.PageSize)
	require.Equal(t, "Slug", q.Filter.Property)
	require.Equal(t, "lesson-b", q.Filter.RichText.Equals)
	require.Equal(t, "default-db", gw.created.Parent.DatabaseID)
}

func TestUpsertUpdatesWhenSlugMatched(t *testing.T) {
	gw := &gatewayStub{found: []*notion.Page{{ID: "existing-7"}}}
	svc := newTestService(gw)

	result, err := svc.Upsert(context.Background(), Request{Title: "T", Slug: "lesson-b"})
	require.NoError(t, err)
	require.Equal(t, ModeUpdate, result.Mode)
	require.Equal(t, "existing-7", gw.updatedID)
	require.Nil(t, gw.created, "no duplicate creation on update path")
	require.Empty(t, gw.appended, "no blocks computed, nothing appended")
}

func TestUpsertWithoutSlugAlwaysCreates(t *testing.T) {
	gw := &gatewayStub{found: []*notion.Page{{ID: "existing-7"}}}
	svc := newTestService(gw)

	result, err := svc.Upsert(context.Background(), Request{Title: "T"})
	require.NoError(t, err)
	require.Equal(t, ModeCreate, result.Mode)
	require.Empty(t, gw.queries, "no slug, no lookup")
}

func TestUpsertMergesTitleSlugAndCallerProperties(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	_, err := svc.Upsert(context.Background(), Request{
		Title:      "T",
		Slug:       "s",
		Properties: map[string]any{"Level": map[string]any{"select": map[string]any{"name": "beginner"}}},
	})
	require.NoError(t, err)

	require.Equal(t, notion.TitleValue("T"), gw.created.Properties["Title"])
	require.Equal(t, notion.RichTextValue("s"), gw.created.Properties["Slug"])
	require.Contains(t, gw.created.Properties, "Level")
}

func TestUpsertExplicitChildrenBypassTemplate(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	child := map[string]any{"type": "paragraph", "paragraph": map[string]any{}}
	_, err := svc.Upsert(context.Background(), Request{
		Title:    "T",
		Children: []any{child},
		Template: template.LessonV1,
	})
	require.NoError(t, err)
	require.Len(t, gw.created.Children, 1)
	require.Equal(t, child, gw.created.Children[0])
}

func TestUpsertTemplateRendersBody(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	_, err := svc.Upsert(context.Background(), Request{
		Title:    "My Lesson",
		Template: template.LessonV1,
	})
	require.NoError(t, err)
	require.Len(t, gw.created.Children, 12)

	first, ok := gw.created.Children[0].(notion.Block)
	require.True(t, ok)
	// SampleTitle defaults to the page title when not supplied.
	require.Contains(t, first.Callout.RichText[0].Text.Content, "My Lesson")
}

func TestUpsertTemplateBlocksAppendedOnUpdate(t *testing.T) {
	gw := &gatewayStub{found: []*notion.Page{{ID: "existing-7"}}}
	svc := newTestService(gw)

	result, err := svc.Upsert(context.Background(), Request{
		Title:    "T",
		Slug:     "lesson-b",
		Template: template.LessonV1,
	})
	require.NoError(t, err)
	require.Equal(t, ModeUpdate, result.Mode)
	require.Equal(t, "existing-7", gw.appendID)
	require.Len(t, gw.appended, 12)
}

func TestUpsertMarkdownBody(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	_, err := svc.Upsert(context.Background(), Request{
		Title:    "T",
		Markdown: "# Heading\n\nBody text.\n",
	})
	require.NoError(t, err)
	require.Len(t, gw.created.Children, 2)
}

func TestUpsertDatabaseOverride(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	_, err := svc.Upsert(context.Background(), Request{Title: "T", Slug: "s", DatabaseID: "other-db"})
	require.NoError(t, err)
	require.Equal(t, []string{"other-db"}, gw.queryDBs)
	require.Equal(t, "other-db", gw.created.Parent.DatabaseID)
}

func TestUpsertPropagatesGatewayError(t *testing.T) {
	gwErr := errors.NotionError("rate limited").RateLimit().Build()
	gw := &gatewayStub{queryErr: gwErr}
	svc := newTestService(gw)

	_, err := svc.Upsert(context.Background(), Request{Title: "T", Slug: "s"})
	require.ErrorIs(t, err, gwErr)
	require.Nil(t, gw.created, "no create after failed lookup")
}

func TestUpsertEmptyTitleRejected(t *testing.T) {
	svc := newTestService(&gatewayStub{})

	_, err := svc.Upsert(context.Background(), Request{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestUpsertUnknownTemplateRejectedBeforeGatewayCalls(t *testing.T) {
	gw := &gatewayStub{}
	svc := newTestService(gw)

	_, err := svc.Upsert(context.Background(), Request{Title: "T", Template: "nope"})
	require.Error(t, err)
	require.Empty(t, gw.queries)
	require.Nil(t, gw.created)
}
