package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/notionbridge/internal/foundation/errors"
	"git.home.luguber.info/inful/notionbridge/internal/logfields"
	"git.home.luguber.info/inful/notionbridge/internal/metrics"
	"git.home.luguber.info/inful/notionbridge/internal/template"
	"git.home.luguber.info/inful/notionbridge/internal/upsert"

	"git.home.luguber.info/inful/notionbridge/internal/server/responses"
)

// UpsertService is the slice of the orchestrator the handler needs.
type UpsertService interface {
	Upsert(ctx context.Context, req upsert.Request) (*upsert.Result, error)
}

// PageHandlers serves the create-or-update page endpoint.
type PageHandlers struct {
	service      UpsertService
	errorAdapter *errors.HTTPErrorAdapter
	recorder     metrics.Recorder
}

// NewPageHandlers creates a new page handlers instance.
func NewPageHandlers(service UpsertService, recorder metrics.Recorder) *PageHandlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &PageHandlers{
		service:      service,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
		recorder:     recorder,
	}
}

// pageRequest is the inbound JSON schema of the upsert endpoint.
type pageRequest struct {
	DatabaseID   string            `json:"databaseId"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Properties   map[string]any    `json:"properties"`
	Children     []any             `json:"children"`
	Template     string            `json:"template"`
	TemplateVars *pageTemplateVars `json:"templateVars"`
	Markdown     string            `json:"markdown"`
}

type pageTemplateVars struct {
	SampleTitle string `json:"sampleTitle"`
	HTMLCode    string `json:"htmlCode"`
	CSSCode     string `json:"cssCode"`
}

// HandleCreateOrUpdate handles POST /notion/pages.
func (h *PageHandlers) HandleCreateOrUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "POST").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	var body pageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		derr := errors.ValidationError("invalid JSON payload").
			WithContext("error", err.Error()).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, derr)
		return
	}

	if err := validatePageRequest(&body); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	children, dropped := filterChildren(body.Children)
	if dropped > 0 {
		h.recorder.AddDroppedChildren(dropped)
		slog.Warn("dropped malformed children", logfields.Dropped(dropped), logfields.Path(r.URL.Path))
	}

	req := upsert.Request{
		DatabaseID: body.DatabaseID,
		Title:      body.Title,
		Slug:       strings.TrimSpace(body.Slug),
		Properties: body.Properties,
		Children:   children,
		Template:   body.Template,
		Markdown:   body.Markdown,
	}
	if body.TemplateVars != nil {
		req.TemplateVars = template.Vars{
			SampleTitle: body.TemplateVars.SampleTitle,
			HTMLCode:    body.TemplateVars.HTMLCode,
			CSSCode:     body.TemplateVars.CSSCode,
		}
	}

	result, err := h.service.Upsert(r.Context(), req)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := &responses.UpsertResponse{Mode: string(result.Mode), Page: result.Page}
	if dropped > 0 {
		resp.Warnings = []string{fmt.Sprintf("ignored %d invalid children", dropped)}
	}

	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write upsert response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// validatePageRequest enforces the request schema and reports field-level
// issues the caller can act on.
func validatePageRequest(body *pageRequest) error {
	issues := map[string]any{}
	if strings.TrimSpace(body.Title) == "" {
		issues["title"] = "title is required"
	}
	if body.Template != "" && !template.Known(body.Template) {
		issues["template"] = fmt.Sprintf("unknown template %q", body.Template)
	}
	if len(issues) == 0 {
		return nil
	}
	builder := errors.ValidationError("invalid body")
	for field, issue := range issues {
		builder = builder.WithContext(field, issue)
	}
	return builder.Build()
}

// filterChildren keeps only entries that look like content blocks: an object
// whose "type" names a key the object actually carries. Everything else is
// dropped and counted.
func filterChildren(children []any) ([]any, int) {
	if len(children) == 0 {
		return nil, 0
	}
	kept := make([]any, 0, len(children))
	for _, child := range children {
		if isBlockObject(child) {
			kept = append(kept, child)
		}
	}
	if len(kept) == 0 {
		return nil, len(children)
	}
	return kept, len(children) - len(kept)
}

func isBlockObject(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	t, ok := m["type"].(string)
	if !ok || t == "" {
		return false
	}
	_, present := m[t]
	return present
}
