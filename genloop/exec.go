package genloop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/uiskema"
)

// Request is the JSON message a CommandGenerator writes to the command's
// stdin.
type Request struct {
	Attempt     int                 `json:"attempt"`
	Previous    string              `json:"previous,omitempty"`
	Diagnostics uiskema.Diagnostics `json:"diagnostics,omitempty"`
	Catalog     any                 `json:"catalog,omitempty"`
}

// CommandGenerator runs an external program once per round. The program
// reads a Request from stdin and prints a document on stdout. A non-zero
// exit is treated as transient and retried.
type CommandGenerator struct {
	Path string
	Args []string
	// Catalog is embedded in every request, typically a catalog.Manifest.
	Catalog any
}

// Generate implements Generator.
func (g CommandGenerator) Generate(ctx context.Context, fb Feedback) ([]byte, error) {
	req, err := json.Marshal(Request{
		Attempt:     fb.Attempt,
		Previous:    string(fb.Previous),
		Diagnostics: fb.Diagnostics,
		Catalog:     g.Catalog,
	})
	if err != nil {
		return nil, PermanentError(fmt.Errorf("encode request: %w", err))
	}

	cmd := exec.CommandContext(ctx, g.Path, g.Args...)
	cmd.Stdin = bytes.NewReader(req)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, PermanentError(ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// not startable
			return nil, PermanentError(fmt.Errorf("%s: %w", g.Path, err))
		}
		return nil, fmt.Errorf("%s: %w: %s", g.Path, err, strings.TrimSpace(stderr.String()))
	}
	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty output", g.Path)
	}
	return out, nil
}
