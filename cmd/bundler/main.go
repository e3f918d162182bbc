package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fhirfoundry/bundler/internal/config"
	"github.com/fhirfoundry/bundler/internal/fhir"
	"github.com/fhirfoundry/bundler/pkg/pagination"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bundler",
		Short: "Assemble and flatten FHIR bundles",
	}

	rootCmd.AddCommand(assembleCmd())
	rootCmd.AddCommand(flattenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}
	return logger
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func assembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a Bundle from an NDJSON resource stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			input, _ := cmd.Flags().GetString("input")
			bundleType, _ := cmd.Flags().GetString("bundle-type")
			base, _ := cmd.Flags().GetString("base")
			includeValues, _ := cmd.Flags().GetStringArray("include")
			includeAll, _ := cmd.Flags().GetBool("include-all")
			total, _ := cmd.Flags().GetInt("total")
			searchURL, _ := cmd.Flags().GetString("search-url")
			count, _ := cmd.Flags().GetInt("count")
			offset, _ := cmd.Flags().GetInt("offset")
			pretty, _ := cmd.Flags().GetBool("pretty")

			if base == "" {
				base = cfg.ServerBaseURL
			}
			if count <= 0 {
				count = cfg.DefaultPageSize
			}
			if count > cfg.MaxPageSize {
				count = cfg.MaxPageSize
			}

			in, err := openInput(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			resources, err := fhir.ReadNDJSON(in)
			if err != nil {
				return err
			}
			logger.Info().Int("resources", len(resources)).Msg("loaded resource stream")

			pool := fhir.NewPool(resources...)
			scanner := fhir.NewMapScanner(pool)
			assembler := fhir.NewAssembler(scanner, fhir.DefaultRegistry(), logger)

			var rule fhir.InclusionRule
			includes := fhir.ParseIncludes(includeValues, false)
			if len(includes) > 0 && !includeAll {
				rule = fhir.BasedOnIncludes
			}

			bt := fhir.BundleType(bundleType)
			meta := fhir.EntryMetadata{}
			if bt == fhir.BundleTypeSearchSet {
				for _, r := range resources {
					meta.Set(r.Identity(), fhir.EntryMeta{SearchMode: fhir.SearchModeMatch})
				}
			}

			assembler.AddResourcesToBundle(resources, bt, base, rule, includes, meta)

			if total < 0 {
				total = len(resources)
			}
			links := fhir.BundleLinks{ServerBase: base, BundleType: bt}
			if searchURL != "" {
				params := pagination.Params{Limit: count, Offset: offset}
				set := params.Links(searchURL, "", total)
				links.Self = set.Self
				links.Next = set.Next
				links.Prev = set.Previous
			}
			now := time.Now().UTC()
			assembler.AddRootPropertiesToBundle("", links, &total, &now)

			bundle := assembler.ResourceBundle()
			logger.Info().Int("entries", len(bundle.Entry)).Str("type", string(bundle.Type)).Msg("assembled bundle")

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(bundle)
		},
	}

	cmd.Flags().StringP("input", "i", "-", "NDJSON resource stream ('-' for stdin)")
	cmd.Flags().StringP("bundle-type", "t", "searchset", "Bundle type code")
	cmd.Flags().String("base", "", "Server base URL for fullUrl computation (default from SERVER_BASE_URL)")
	cmd.Flags().StringArray("include", nil, "_include spec, e.g. Observation:subject (repeatable)")
	cmd.Flags().Bool("include-all", false, "Promote every resolvable reference regardless of _include specs")
	cmd.Flags().Int("total", -1, "Total result count (-1 = number of input resources)")
	cmd.Flags().String("search-url", "", "Search URL to derive self/next/previous links from")
	cmd.Flags().Int("count", 0, "Page size for navigation links")
	cmd.Flags().Int("offset", 0, "Page offset for navigation links")
	cmd.Flags().Bool("pretty", false, "Indent JSON output")

	return cmd
}

func flattenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten a Bundle back to an NDJSON resource stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			input, _ := cmd.Flags().GetString("input")

			in, err := openInput(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read bundle: %w", err)
			}

			var bundle fhir.Bundle
			if err := json.Unmarshal(data, &bundle); err != nil {
				return fmt.Errorf("decode bundle: %w", err)
			}

			assembler := fhir.NewAssembler(nil, fhir.DefaultRegistry(), logger)
			assembler.InitializeWithBundleResource(&bundle)
			resources := assembler.ToListOfResources()
			logger.Info().Int("resources", len(resources)).Msg("flattened bundle")

			writer := fhir.NewNDJSONWriter(cmd.OutOrStdout())
			for _, res := range resources {
				if err := writer.WriteResource(res); err != nil {
					return fmt.Errorf("write resource: %w", err)
				}
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringP("input", "i", "-", "Bundle JSON document ('-' for stdin)")

	return cmd
}
