package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
)

type translationFlags struct {
	handler          string
	language         string
	version          string
	module           string
	languageRefsetID string
}

func (f *translationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.handler, "with", "", "handler key for this command (default: --handler)")
	cmd.Flags().StringVar(&f.language, "language", "", "language code of the translation")
	cmd.Flags().StringVar(&f.version, "release", "", "release version written into file names")
	cmd.Flags().StringVar(&f.module, "module", "", "module SCTID owning imported content")
	cmd.Flags().StringVar(&f.languageRefsetID, "language-refset", "", "language refset SCTID")
}

// translation builds the owning translation from config defaults and flags.
func (f *translationFlags) translation(a *app) *model.Translation {
	t := &model.Translation{
		Language:         a.cfg.Translation.Language,
		Version:          a.cfg.Translation.Version,
		Module:           a.cfg.Translation.Module,
		LanguageRefsetID: a.cfg.Translation.LanguageRefsetID,
	}
	if f.language != "" {
		t.Language = f.language
	}
	if f.version != "" {
		t.Version = f.version
	}
	if f.module != "" {
		t.Module = f.module
	}
	if f.languageRefsetID != "" {
		t.LanguageRefsetID = f.languageRefsetID
	}
	return t
}

// translationSummary reports the outcome of a translation import.
type translationSummary struct {
	Bundle          string            `json:"bundle" yaml:"bundle"`
	Handler         string            `json:"handler" yaml:"handler"`
	Language        string            `json:"language" yaml:"language"`
	Concepts        int               `json:"concepts" yaml:"concepts"`
	Descriptions    int               `json:"descriptions" yaml:"descriptions"`
	LanguageMembers int               `json:"languageMembers" yaml:"language_members"`
	Export          *rf2.ExportResult `json:"export,omitempty" yaml:"export,omitempty"`
	Output          string            `json:"output,omitempty" yaml:"output,omitempty"`
}

func (s *translationSummary) renderText(w io.Writer) {
	rows := [][2]string{
		{"Bundle:", s.Bundle},
		{"Handler:", s.Handler},
		{"Language:", s.Language},
		{"Concepts:", fmt.Sprint(s.Concepts)},
		{"Descriptions:", fmt.Sprint(s.Descriptions)},
		{"Language members:", fmt.Sprint(s.LanguageMembers)},
	}
	if s.Output != "" {
		rows = append(rows, [2]string{"Written:", s.Output})
	}
	printRows(w, rows)
	if s.Export != nil {
		for _, e := range s.Export.Entries {
			fmt.Fprintf(w, "  %s (%s): %d rows\n", e.Name, e.Kind, e.Rows)
		}
	}
}

func newImportTranslationCmd(a *app) *cobra.Command {
	var flags translationFlags

	cmd := &cobra.Command{
		Use:   "import-translation <bundle>",
		Short: "Import a translation bundle and report what it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, _, err := a.importTranslation(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), summary)
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportTranslationCmd(a *app) *cobra.Command {
	var (
		flags  translationFlags
		target string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export-translation <bundle>",
		Short: "Import a translation bundle and write it back out as a new release",
		Long: `Import a translation bundle and export the assembled concepts.

Every imported component is reset to an unpublished draft of the target
translation, so the exported bundle carries the translation's module and
no effective times. --out may name a file or an existing directory; in the
latter case the bundle is written under its conventional release name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return withCode(exitUsage, fmt.Errorf("--out is required"))
			}
			summary, concepts, err := a.importTranslation(cmd, args[0], &flags)
			if err != nil {
				return err
			}

			key := target
			if key == "" {
				key = summary.Handler
			}
			h, err := a.translationHandler(key)
			if err != nil {
				return err
			}

			t := flags.translation(a)
			var buf bytes.Buffer
			res, err := h.ExportConcepts(cmd.Context(), &buf, t, concepts)
			if err != nil {
				return err
			}

			path, err := writeOutput(out, res.FileName, buf.Bytes())
			if err != nil {
				return err
			}
			a.log.Info("translation exported",
				zap.String("batch_id", res.BatchID),
				zap.String("path", path),
				zap.Int("rows", res.TotalRows()),
			)

			summary.Export = res
			summary.Output = path
			return a.render(cmd.OutOrStdout(), summary)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&target, "to", "", "handler key used for the export (default: the import handler)")
	cmd.Flags().StringVar(&out, "out", "", "output file or directory")
	return cmd
}

func (a *app) importTranslation(cmd *cobra.Command, path string, flags *translationFlags) (*translationSummary, []*model.Concept, error) {
	key := flags.handler
	if key == "" {
		key = a.cfg.Handler
	}
	h, err := a.translationHandler(key)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, withCode(exitUsage, err)
	}
	defer f.Close()

	t := flags.translation(a)
	concepts, err := h.ImportConcepts(cmd.Context(), f, t)
	if err != nil {
		return nil, nil, err
	}

	descriptions, members := model.Count(concepts)
	return &translationSummary{
		Bundle:          path,
		Handler:         key,
		Language:        t.Language,
		Concepts:        len(concepts),
		Descriptions:    descriptions,
		LanguageMembers: members,
	}, concepts, nil
}

// writeOutput writes data to out, or to out/name when out is a directory.
func writeOutput(out, name string, data []byte) (string, error) {
	path := out
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		path = filepath.Join(out, name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // release files are meant to be shared
		return "", err
	}
	return path, nil
}
