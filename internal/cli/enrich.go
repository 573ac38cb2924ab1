package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/example/openapi-xmldoc/internal/binding"
	"github.com/example/openapi-xmldoc/internal/enricher"
	specvalidator "github.com/example/openapi-xmldoc/internal/validator"
	"github.com/example/openapi-xmldoc/pkg/openapi"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

const (
	defaultOutput = "-"
	defaultFormat = "json"
)

// EnrichConfig holds configuration for one enrichment run.
type EnrichConfig struct {
	SpecPath     string   `validate:"required"`
	XMLPaths     []string `validate:"required,dive,required"`
	BindingsPath string   `validate:"required"`
	OutputPath   string   `validate:"required"`
	Format       string   `validate:"oneof=json yaml yml"`
	Validate     bool
	Concurrency  int `validate:"gte=1"`
	ConfigPath   string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func newEnrichCommand() *cobra.Command {
	var config EnrichConfig

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Copy XML documentation onto an OpenAPI document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunEnrich(cmd.Context(), &config, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&config.SpecPath, "spec", "", "Path to the OpenAPI document (JSON or YAML)")
	cmd.Flags().StringArrayVar(&config.XMLPaths, "xml", nil, "Path to an XML documentation file; repeat for several, later files win")
	cmd.Flags().StringVar(&config.BindingsPath, "bindings", "", "Path to the symbol bindings manifest")
	cmd.Flags().StringVar(&config.OutputPath, "output", defaultOutput, "Path to output file or '-' for stdout")
	cmd.Flags().StringVar(&config.Format, "format", defaultFormat, "Output format: json or yaml")
	cmd.Flags().BoolVar(&config.Validate, "validate", false, "Validate the enriched document before writing it")
	cmd.Flags().IntVar(&config.Concurrency, "concurrency", enricher.DefaultConcurrency, "Operations annotated in parallel")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to .xmldoc.yml config file")

	return cmd
}

// RunEnrich loads the document, documentation and bindings named by config,
// enriches the document and writes it to config.OutputPath, or to stdout
// when the path is "-".
func RunEnrich(ctx context.Context, config *EnrichConfig, stdout io.Writer) error {
	if err := loadConfigFile(config); err != nil {
		return err
	}
	if err := validate.Struct(config); err != nil {
		return errors.Errorf("invalid configuration: %w", err)
	}
	format, err := openapi.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(config.SpecPath))
	if err != nil {
		return errors.Errorf("read spec: %w", err)
	}
	spec, err := openapi.Decode(data)
	if err != nil {
		return errors.Errorf("decode spec %s: %w", config.SpecPath, err)
	}

	index, err := xmldoc.LoadFiles(config.XMLPaths...)
	if err != nil {
		return err
	}
	slogctx.Debug(ctx, "loaded documentation", "files", len(config.XMLPaths), "members", index.Len())

	manifest, err := binding.LoadFile(config.BindingsPath)
	if err != nil {
		return err
	}
	bindings, err := binding.Bind(manifest)
	if err != nil {
		return errors.Errorf("bind %s: %w", config.BindingsPath, err)
	}

	stats, err := enricher.New(index, bindings, enricher.WithConcurrency(config.Concurrency)).Enrich(ctx, spec)
	if err != nil {
		return err
	}
	slogctx.Info(ctx, "enriched document",
		"schemas", stats.Schemas,
		"properties", stats.Properties,
		"operations", stats.Operations,
		"requestBodies", stats.RequestBodies,
	)

	var out bytes.Buffer
	if err := openapi.Encode(&out, format, spec); err != nil {
		return err
	}
	if config.Validate {
		if err := specvalidator.Validate(ctx, out.Bytes()); err != nil {
			return errors.Errorf("enriched document: %w", err)
		}
	}
	return writeOutput(out.Bytes(), config.OutputPath, stdout)
}

func loadConfigFile(config *EnrichConfig) error {
	if config.ConfigPath == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(config.ConfigPath))
	if err != nil {
		return errors.Errorf("read config: %w", err)
	}

	var cfg struct {
		Enrich struct {
			Spec        string   `yaml:"spec"`
			XML         []string `yaml:"xml"`
			Bindings    string   `yaml:"bindings"`
			Output      string   `yaml:"output"`
			Format      string   `yaml:"format"`
			Validate    bool     `yaml:"validate"`
			Concurrency int      `yaml:"concurrency"`
		} `yaml:"enrich"`
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Errorf("parse config: %w", err)
	}

	// Apply config values if flags weren't set
	if config.SpecPath == "" {
		config.SpecPath = cfg.Enrich.Spec
	}
	if len(config.XMLPaths) == 0 {
		config.XMLPaths = cfg.Enrich.XML
	}
	if config.BindingsPath == "" {
		config.BindingsPath = cfg.Enrich.Bindings
	}
	if config.OutputPath == defaultOutput && cfg.Enrich.Output != "" {
		config.OutputPath = cfg.Enrich.Output
	}
	if config.Format == defaultFormat && cfg.Enrich.Format != "" {
		config.Format = cfg.Enrich.Format
	}
	if cfg.Enrich.Validate {
		config.Validate = true
	}
	if config.Concurrency == enricher.DefaultConcurrency && cfg.Enrich.Concurrency != 0 {
		config.Concurrency = cfg.Enrich.Concurrency
	}

	return nil
}
