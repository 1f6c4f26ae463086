package codefmt

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
)

var errUnavailable = errors.New("external formatter not installed")

// prettierEngine shells out to a prettier executable when one is on PATH.
// Discovery happens once and is cached for the process lifetime; a missing
// binary or a non-zero exit both route callers to the light fallback.
type prettierEngine struct {
	once sync.Once
	path string
}

func newPrettierEngine() *prettierEngine {
	return &prettierEngine{}
}

func (e *prettierEngine) Format(ctx context.Context, kind Kind, source string) (string, error) {
	e.once.Do(func() {
		if p, err := exec.LookPath("prettier"); err == nil {
			e.path = p
		}
	})
	if e.path == "" {
		return "", errUnavailable
	}

	parser := "css"
	if kind == KindHTML {
		parser = "html"
	}

	cmd := exec.CommandContext(ctx, e.path, "--parser", parser)
	cmd.Stdin = strings.NewReader(source)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	// The external formatter appends a trailing newline; drop it so both
	// paths end without one.
	return strings.TrimRight(string(out), "\n"), nil
}
