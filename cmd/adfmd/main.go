package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgonek/adfmd"
	"github.com/rgonek/adfmd/converter"
	"github.com/rgonek/adfmd/mdconverter"
)

// cliConfig is the optional YAML config file; flags override it.
type cliConfig struct {
	Strict bool   `yaml:"strict"`
	Engine string `yaml:"engine"`
}

var (
	flagStrict bool
	flagEngine string
	flagConfig string
)

func loadConfig() (cliConfig, error) {
	var cfg cliConfig
	if flagConfig != "" {
		data, err := os.ReadFile(flagConfig)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}
	if flagStrict {
		cfg.Strict = true
	}
	if flagEngine != "" {
		cfg.Engine = flagEngine
	}
	return cfg, nil
}

func (c cliConfig) options() adfmd.Options {
	return adfmd.Options{
		Strict: c.Strict,
		Engine: mdconverter.Engine(c.Engine),
	}
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func newToMarkdownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-md [file]",
		Short: "Convert ADF JSON to extended markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := readInput(args)
			if err != nil {
				return err
			}
			markdown, err := adfmd.ADFJSONToMarkdown(cmd.Context(), data, cfg.options())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), markdown)
			return nil
		},
	}
}

func newToADFCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-adf [file]",
		Short: "Convert extended markdown to ADF JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := readInput(args)
			if err != nil {
				return err
			}
			doc, err := adfmd.MarkdownToADF(cmd.Context(), string(data), cfg.options())
			if err != nil {
				return err
			}
			pretty, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate ADF JSON or extended markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args)
			if err != nil {
				return err
			}

			var result converter.ValidationResult
			switch format {
			case "adf":
				var doc converter.Doc
				if err := json.Unmarshal(data, &doc); err != nil {
					return fmt.Errorf("parsing ADF JSON: %w", err)
				}
				result = adfmd.ValidateADF(doc)
			case "md":
				result = adfmd.ValidateMarkdown(string(data))
			default:
				return fmt.Errorf("unknown format %q (allowed: adf, md)", format)
			}

			for _, issue := range result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", issue.String())
			}
			for _, issue := range result.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", issue.String())
			}
			if !result.Valid {
				return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "adf", "Input format: adf|md")
	return cmd
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "adfmd",
		Short:         "Convert between Atlassian Document Format and extended markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail on malformed input instead of best-effort output")
	root.PersistentFlags().StringVar(&flagEngine, "engine", "", "Markdown parser engine: goldmark|tokenizer")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")

	root.AddCommand(newToMarkdownCommand())
	root.AddCommand(newToADFCommand())
	root.AddCommand(newValidateCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
