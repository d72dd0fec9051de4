package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/credentialguard/internal/lookup"
)

var (
	lookupOutput      string
	lookupFailOnError bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <npi>",
	Short: "Look up a single provider and print the normalized record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("lookup"); err != nil {
			return err
		}

		env := initLookup(cfg, false)
		result := env.Service.Lookup(cmd.Context(), args[0])

		if err := writeEnvelope(cmd.OutOrStdout(), result, lookupOutput); err != nil {
			return err
		}
		if lookupFailOnError && !result.OK() {
			return eris.Errorf("lookup failed: %s", result.Outcome())
		}
		return nil
	},
}

// writeEnvelope renders env as indented JSON or YAML.
func writeEnvelope(w io.Writer, env lookup.Envelope, format string) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return eris.Wrap(err, "lookup: encode json")
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return eris.Wrap(err, "lookup: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "lookup: flush yaml")
		}
	default:
		return eris.Errorf("lookup: unknown output format %q (want json or yaml)", format)
	}
	return nil
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupOutput, "output", "o", "json", "output format: json or yaml")
	lookupCmd.Flags().BoolVar(&lookupFailOnError, "fail-on-error", false, "exit non-zero when the lookup fails")
	rootCmd.AddCommand(lookupCmd)
}
