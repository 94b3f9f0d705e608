package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/uiskema"
	"github.com/reoring/uiskema/validate"
)

type fileResult struct {
	File        string              `json:"file"`
	Valid       bool                `json:"valid"`
	Hash        string              `json:"hash,omitempty"`
	Diagnostics uiskema.Diagnostics `json:"diagnostics,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate UI documents",
		Long: `Validate one or more JSON UI documents. Use "-" to read stdin.
Exits with status 1 when any document is rejected.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}
			cfg, log, cat, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			v := validate.New(cat, validatorOptions(cfg, log)...)

			results, err := validateFiles(cmd.Context(), v, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := printResults(cmd.OutOrStdout(), format, results); err != nil {
				return err
			}
			for _, r := range results {
				if !r.Valid {
					return errInvalid
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}

// validateFiles validates files concurrently. Results keep argument order.
func validateFiles(ctx context.Context, v *validate.Validator, files []string, stdin io.Reader) ([]fileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		g.Go(func() error {
			var res uiskema.Result[uiskema.Document]
			if name == "-" {
				res = v.ValidateReader(ctx, stdin)
			} else {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				res = v.ValidateReader(ctx, f)
			}
			r := fileResult{File: name, Valid: res.OK(), Diagnostics: res.Diagnostics}
			if r.Valid {
				h, err := res.Value.Hash()
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				r.Hash = fmt.Sprintf("%016x", h)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(w io.Writer, format string, results []fileResult) error {
	if format == "json" {
		b, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(w, "%s: ok %s\n", r.File, r.Hash)
			continue
		}
		fmt.Fprintf(w, "%s: %d problem(s)\n", r.File, len(r.Diagnostics))
		for _, d := range r.Diagnostics {
			fmt.Fprintf(w, "  %s %s: %s\n", d.Path, d.Code, d.Message)
		}
	}
	return nil
}
