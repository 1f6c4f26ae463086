package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	colorable "github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notionbridge/internal/codefmt"
	"git.home.luguber.info/inful/notionbridge/internal/config"
	"git.home.luguber.info/inful/notionbridge/internal/metrics"
	"git.home.luguber.info/inful/notionbridge/internal/notion"
	"git.home.luguber.info/inful/notionbridge/internal/server/httpserver"
	"git.home.luguber.info/inful/notionbridge/internal/template"
	"git.home.luguber.info/inful/notionbridge/internal/upsert"
	"git.home.luguber.info/inful/notionbridge/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"notionbridge.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Metrics bool `help:"Expose Prometheus metrics on /metrics" default:"true"`
	} `cmd:"" help:"Start the page upsert HTTP service"`

	SamplePage struct {
		Titles  []string `arg:"" help:"Page titles to create, one request per title"`
		Slug    string   `help:"Slug for the page (only meaningful with a single title)"`
		Level   string   `help:"Value for the Level select property"`
		Tags    string   `help:"Comma-separated values for the Tags multi-select property"`
		Thumb   string   `help:"External URL for the Thumbnail files property"`
		BaseURL string   `help:"Service base URL" default:"http://localhost:3000"`
	} `cmd:"" name:"sample-page" help:"Create lesson sample pages through a running service"`
}

func main() {
	ctx := kong.Parse(&CLI)

	var err error
	switch ctx.Command() {
	case "serve":
		err = runServe()
	case "sample-page <titles>":
		err = runSamplePage()
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if CLI.Verbose || strings.EqualFold(cfg.LogLevel, "debug") {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		})
	}
	slog.SetDefault(slog.New(handler))
}

func runServe() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	slog.Info("starting notionbridge", "version", version.Version)

	registry := prom.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if CLI.Serve.Metrics {
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	formatter := codefmt.New(codefmt.WithFallbackHook(func(kind codefmt.Kind) {
		recorder.IncFormatterFallback(string(kind))
	}))
	renderer := template.NewRenderer(formatter)
	client := notion.NewClient(cfg.Token)
	service := upsert.NewService(client, renderer, cfg, upsert.WithRecorder(recorder))

	opts := httpserver.Options{Recorder: recorder}
	if CLI.Serve.Metrics {
		opts.Registry = registry
	}
	server := httpserver.New(cfg, service, opts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx)
}

// runSamplePage mirrors the service's own request schema: it builds a
// lesson-v1 payload per title and posts them strictly one at a time so the
// slug lookup in the service never races with a concurrent create.
func runSamplePage() error {
	setupLogging(&config.Config{})

	endpoint := strings.TrimRight(CLI.SamplePage.BaseURL, "/") + "/notion/pages"
	httpClient := &http.Client{Timeout: 60 * time.Second}

	failures := 0
	for _, title := range CLI.SamplePage.Titles {
		if err := postSamplePage(httpClient, endpoint, title); err != nil {
			failures++
			slog.Error("sample page failed", "title", title, "error", err)
			continue
		}
		slog.Info("sample page created", "title", title)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d sample pages failed", failures, len(CLI.SamplePage.Titles))
	}
	return nil
}

func postSamplePage(client *http.Client, endpoint, title string) error {
	props := map[string]any{}
	if CLI.SamplePage.Level != "" {
		props["Level"] = map[string]any{"select": map[string]any{"name": CLI.SamplePage.Level}}
	}
	if CLI.SamplePage.Tags != "" {
		var items []map[string]any
		for _, tag := range strings.Split(CLI.SamplePage.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				items = append(items, map[string]any{"name": tag})
			}
		}
		if len(items) > 0 {
			props["Tags"] = map[string]any{"multi_select": items}
		}
	}
	if CLI.SamplePage.Thumb != "" {
		props["Thumbnail"] = map[string]any{
			"files": []map[string]any{{
				"type":     "external",
				"name":     "thumb",
				"external": map[string]any{"url": CLI.SamplePage.Thumb},
			}},
		}
	}

	payload := map[string]any{
		"title":        title,
		"template":     template.LessonV1,
		"templateVars": map[string]any{"sampleTitle": title},
	}
	if CLI.SamplePage.Slug != "" {
		payload["slug"] = CLI.SamplePage.Slug
	}
	if len(props) > 0 {
		payload["properties"] = props
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(respBody))
	}
	return nil
}
