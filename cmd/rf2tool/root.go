package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/handler"
	"github.com/gofhir/rf2/pkg/config"
	"github.com/gofhir/rf2/pkg/logger"
)

// app is the state shared by subcommands, built once per invocation.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	metrics  *rf2.Metrics
	registry *handler.Registry
	output   string
}

type rootOptions struct {
	configPath string
	envFiles   []string
	handler    string
	namespace  string
	logLevel   string
	logFormat  string
	output     string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	a := &app{}

	cmd := &cobra.Command{
		Use:           "rf2tool",
		Short:         "Import, export and inspect RF2 translation and refset files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default: .env if present)")
	flags.StringVar(&opts.handler, "handler", "", "handler key: RF2, DEFAULT or FHIR (overrides config)")
	flags.StringVar(&opts.namespace, "namespace", "", "namespace written into exported file names")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, none")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console, json")
	flags.StringVarP(&opts.output, "output", "o", "text", "summary format: text, json, yaml")

	cmd.AddCommand(
		newImportTranslationCmd(a),
		newExportTranslationCmd(a),
		newImportRefsetCmd(a),
		newExportRefsetCmd(a),
		newInspectCmd(a),
		newBatchCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command, opts rootOptions) error {
	cfg, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if opts.handler != "" {
		cfg.Handler = opts.handler
	}
	if opts.namespace != "" {
		cfg.Namespace = opts.namespace
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return withCode(exitUsage, err)
	}

	switch opts.output {
	case "text", "json", "yaml":
	default:
		return withCode(exitUsage, fmt.Errorf("unsupported --output: %s", opts.output))
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return withCode(exitUsage, err)
	}
	logger.SetDefault(log)

	a.cfg = cfg
	a.log = log
	a.metrics = rf2.NewMetrics()
	a.registry = handler.Default(cfg.Options(log, a.metrics)...)
	a.output = opts.output
	return nil
}

func (a *app) translationHandler(key string) (handler.TranslationHandler, error) {
	if key == "" {
		key = a.cfg.Handler
	}
	return a.registry.Translation(key)
}

func (a *app) refsetHandler(key string) (handler.RefsetHandler, error) {
	if key == "" {
		key = a.cfg.Handler
	}
	return a.registry.Refset(key)
}

// textRenderer is implemented by summaries with a human-readable form.
type textRenderer interface {
	renderText(w io.Writer)
}

// render writes v in the selected output format.
func (a *app) render(w io.Writer, v textRenderer) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		v.renderText(w)
		return nil
	}
}

func printRows(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s%s  %s\n", r[0], strings.Repeat(" ", width-len(r[0])), r[1])
	}
}
