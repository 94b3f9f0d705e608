package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/uiskema/genloop"
	"github.com/reoring/uiskema/validate"
)

func newGenerateCmd(a *app) *cobra.Command {
	var maxAttempts int
	cmd := &cobra.Command{
		Use:   "generate -- COMMAND [ARG...]",
		Short: "Run a generator until it produces a valid document",
		Long: `Run COMMAND once per round. It receives a JSON request on stdin with
the attempt number, the catalog, and the previous document and diagnostics
when the last round was rejected. It must print a document on stdout.
The first valid document is printed in normalized form.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cat, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if maxAttempts <= 0 {
				maxAttempts = cfg.Generation.MaxAttempts
			}

			gen := genloop.CommandGenerator{Path: args[0], Args: args[1:], Catalog: cat.Manifest()}
			v := validate.New(cat, validatorOptions(cfg, log)...)
			doc, err := genloop.Run(cmd.Context(), gen, v,
				genloop.WithMaxAttempts(maxAttempts),
				genloop.WithLogger(log),
			)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "generation rounds (default from config)")
	return cmd
}
