package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newManifestCmd(a *app) *cobra.Command {
	var format, component string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the component catalog",
		Long: `Print the component catalog as JSON, YAML, compact text for prompts,
or JSON Schema (all components, or one with --component).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, cat, err := a.setup(cmd)
			if err != nil {
				return err
			}
			m := cat.Manifest()
			var out []byte
			switch format {
			case "json":
				out, err = m.JSON()
			case "yaml":
				out, err = m.YAML()
			case "text":
				out = []byte(m.Text())
			case "jsonschema":
				if component == "" {
					out, err = json.MarshalIndent(cat.JSONSchemas(), "", "  ")
					break
				}
				sc, ok := cat.JSONSchema(component)
				if !ok {
					return fmt.Errorf("unknown component %q", component)
				}
				out, err = json.MarshalIndent(sc, "", "  ")
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			if err == nil && (len(out) == 0 || out[len(out)-1] != '\n') {
				_, err = fmt.Fprintln(cmd.OutOrStdout())
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml, text, jsonschema)")
	cmd.Flags().StringVar(&component, "component", "", "component name for --format jsonschema")
	return cmd
}
