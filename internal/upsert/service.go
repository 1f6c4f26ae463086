// Package upsert implements the create-or-update workflow against the remote
// store: merge properties, resolve body blocks, then route on the slug lookup.
package upsert

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/notionbridge/internal/config"
	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/logfields"
	"git.home.luguber.info/inful/notionbridge/internal/markdown"
	"git.home.luguber.info/inful/notionbridge/internal/metrics"
	"git.home.luguber.info/inful/notionbridge/internal/notion"
	"git.home.luguber.info/inful/notionbridge/internal/props"
	"git.home.luguber.info/inful/notionbridge/internal/template"
)

// Mode reports which path an upsert took.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// Gateway is the outbound surface the orchestrator needs from the remote
// store client.
type Gateway interface {
	QueryDatabase(ctx context.Context, databaseID string, query *notion.DatabaseQuery) (*notion.QueryResult, error)
	CreatePage(ctx context.Context, create *notion.CreatePageRequest) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties notion.Properties) (*notion.Page, error)
	AppendBlockChildren(ctx context.Context, blockID string, children []any) error
}

// Request is a validated page upsert. The HTTP boundary is responsible for
// schema validation and children filtering before this point.
type Request struct {
	DatabaseID   string
	Title        string
	Slug         string
	Properties   map[string]any
	Children     []any
	Template     string
	TemplateVars template.Vars
	Markdown     string
}

// Result carries the taken path and the page the store returned.
type Result struct {
	Mode Mode         `json:"mode"`
	Page *notion.Page `json:"page"`
}

// Service orchestrates upserts. It holds no per-request state; every call
// re-queries the store, which stays the sole source of truth.
type Service struct {
	gateway  Gateway
	renderer *template.Renderer
	cfg      *config.Config
	recorder metrics.Recorder
	logger   *slog.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = rec }
}

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the orchestrator.
func NewService(gateway Gateway, renderer *template.Renderer, cfg *config.Config, opts ...ServiceOption) *Service {
	s := &Service{
		gateway:  gateway,
		renderer: renderer,
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert creates or updates a page keyed on the request slug. Without a slug
// it always creates, since there is no dedup key to match on. Gateway failures
// propagate unchanged; nothing is retried and there is no local state to roll
// back.
func (s *Service) Upsert(ctx context.Context, req Request) (*Result, error) {
	if req.Title == "" {
		return nil, errors.ValidationError("title is required").Build()
	}

	databaseID := req.DatabaseID
	if databaseID == "" {
		databaseID = s.cfg.DatabaseID
	}

	properties := props.Compact(props.Merge(
		props.TitleProperty(s.cfg.TitleProperty, req.Title),
		props.SlugProperty(s.cfg.SlugProperty, req.Slug),
		props.Normalize(req.Properties),
	))

	children, err := s.resolveChildren(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Slug != "" {
		existing, err := s.findPageBySlug(ctx, databaseID, req.Slug)
		if err != nil {
			s.recorder.IncUpsertOutcome("error")
			return nil, err
		}
		if existing != nil {
			result, err := s.update(ctx, existing, properties, children)
			if err != nil {
				s.recorder.IncUpsertOutcome("error")
				return nil, err
			}
			s.recorder.IncUpsertOutcome(string(ModeUpdate))
			s.logger.Info("page updated",
				logfields.PageID(existing.ID),
				logfields.Slug(req.Slug),
				logfields.DatabaseID(databaseID),
				logfields.Blocks(len(children)))
			return result, nil
		}
	}

	created, err := s.gateway.CreatePage(ctx, &notion.CreatePageRequest{
		Parent:     notion.Parent{DatabaseID: databaseID},
		Properties: properties,
		Children:   children,
	})
	if err != nil {
		s.recorder.IncUpsertOutcome("error")
		return nil, err
	}
	s.recorder.IncUpsertOutcome(string(ModeCreate))
	s.logger.Info("page created",
		logfields.PageID(created.ID),
		logfields.Slug(req.Slug),
		logfields.DatabaseID(databaseID),
		logfields.Blocks(len(children)))
	return &Result{Mode: ModeCreate, Page: created}, nil
}

// resolveChildren picks the page body: explicit children win, then a named
// template, then a markdown body. No body at all is fine.
func (s *Service) resolveChildren(ctx context.Context, req Request) ([]any, error) {
	if len(req.Children) > 0 {
		return req.Children, nil
	}
	if req.Template != "" {
		vars := req.TemplateVars
		if vars.SampleTitle == "" {
			vars.SampleTitle = req.Title
		}
		blocks, err := s.renderer.Render(ctx, req.Template, vars)
		if err != nil {
			return nil, err
		}
		return notion.BlockList(blocks), nil
	}
	if req.Markdown != "" {
		return notion.BlockList(markdown.ToBlocks([]byte(req.Markdown))), nil
	}
	return nil, nil
}

// findPageBySlug queries the database for at most one page whose slug
// property equals slug.
func (s *Service) findPageBySlug(ctx context.Context, databaseID, slug string) (*notion.Page, error) {
	result, err := s.gateway.QueryDatabase(ctx, databaseID, &notion.DatabaseQuery{
		Filter: &notion.Filter{
			Property: s.cfg.SlugProperty,
			RichText: &notion.TextCondition{Equals: slug},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil
	}
	return result.Results[0], nil
}

// update replaces the provided properties and, when a body was computed,
// appends it after the page's existing blocks.
func (s *Service) update(ctx context.Context, existing *notion.Page, properties notion.Properties, children []any) (*Result, error) {
	updated, err := s.gateway.UpdatePage(ctx, existing.ID, properties)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		if err := s.gateway.AppendBlockChildren(ctx, existing.ID, children); err != nil {
			return nil, err
		}
	}
	return &Result{Mode: ModeUpdate, Page: updated}, nil
}
