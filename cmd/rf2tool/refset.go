package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gofhir/rf2"
	"github.com/gofhir/rf2/model"
)

type refsetFlags struct {
	handler    string
	definition string
	refsetID   string
	module     string
	version    string
}

func (f *refsetFlags) register(cmd *cobra.Command, handlerFlag string) {
	cmd.Flags().StringVar(&f.handler, handlerFlag, "", "handler key used to read the input (default: --handler)")
	cmd.Flags().StringVar(&f.definition, "definition", "", "definition file to import alongside the members")
	cmd.Flags().StringVar(&f.refsetID, "refset-id", "", "SCTID of the refset concept")
	cmd.Flags().StringVar(&f.module, "module", "", "module SCTID owning imported members")
	cmd.Flags().StringVar(&f.version, "release", "", "release version written into file names")
}

func (f *refsetFlags) refset(a *app) *model.Refset {
	r := &model.Refset{
		TerminologyID: f.refsetID,
		Module:        a.cfg.Translation.Module,
		Version:       a.cfg.Translation.Version,
	}
	if f.module != "" {
		r.Module = f.module
	}
	if f.version != "" {
		r.Version = f.version
	}
	return r
}

// refsetSummary reports the outcome of a refset import or conversion.
type refsetSummary struct {
	Members    string              `json:"members" yaml:"members"`
	Handler    string              `json:"handler" yaml:"handler"`
	RefsetID   string              `json:"refsetId,omitempty" yaml:"refset_id,omitempty"`
	Count      int                 `json:"count" yaml:"count"`
	Active     int                 `json:"active" yaml:"active"`
	Definition string              `json:"definition,omitempty" yaml:"definition,omitempty"`
	Exports    []*rf2.ExportResult `json:"exports,omitempty" yaml:"exports,omitempty"`
	Outputs    []string            `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

func (s *refsetSummary) renderText(w io.Writer) {
	rows := [][2]string{
		{"Members:", s.Members},
		{"Handler:", s.Handler},
		{"Count:", fmt.Sprint(s.Count)},
		{"Active:", fmt.Sprint(s.Active)},
	}
	if s.RefsetID != "" {
		rows = append(rows, [2]string{"Refset:", s.RefsetID})
	}
	if s.Definition != "" {
		rows = append(rows, [2]string{"Definition:", s.Definition})
	}
	printRows(w, rows)
	for _, out := range s.Outputs {
		fmt.Fprintf(w, "  wrote %s\n", out)
	}
}

func newImportRefsetCmd(a *app) *cobra.Command {
	var flags refsetFlags

	cmd := &cobra.Command{
		Use:   "import-refset <members>",
		Short: "Import simple refset members and, optionally, the refset definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, _, _, err := a.importRefset(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), summary)
		},
	}
	flags.register(cmd, "with")
	return cmd
}

func newExportRefsetCmd(a *app) *cobra.Command {
	var (
		flags  refsetFlags
		target string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export-refset <members>",
		Short: "Convert refset members (and definition) from one handler's format to another's",
		Example: `  rf2tool export-refset der2_Refset_SimpleSnapshot_INT_20240131.txt \
      --refset-id 450970008 --from RF2 --to FHIR --out ./fhir`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				return withCode(exitUsage, fmt.Errorf("--out is required"))
			}
			if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
				return withCode(exitUsage, fmt.Errorf("--out must be an existing directory: %s", outDir))
			}

			summary, refset, members, err := a.importRefset(cmd, args[0], &flags)
			if err != nil {
				return err
			}

			key := target
			if key == "" {
				key = summary.Handler
			}
			h, err := a.refsetHandler(key)
			if err != nil {
				return err
			}
			summary.Handler = key

			var buf bytes.Buffer
			res, err := h.ExportMembers(cmd.Context(), &buf, refset, members)
			if err != nil {
				return err
			}
			if err := summary.write(outDir, res, buf.Bytes()); err != nil {
				return err
			}

			if refset.Definition != "" {
				buf.Reset()
				res, err := h.ExportDefinition(cmd.Context(), &buf, refset)
				if err != nil {
					return err
				}
				if err := summary.write(outDir, res, buf.Bytes()); err != nil {
					return err
				}
			}

			a.log.Info("refset exported",
				zap.String("handler", key),
				zap.Strings("outputs", summary.Outputs),
			)
			return a.render(cmd.OutOrStdout(), summary)
		},
	}
	flags.register(cmd, "from")
	cmd.Flags().StringVar(&target, "to", "", "handler key used for the export (default: --from)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	return cmd
}

func (s *refsetSummary) write(dir string, res *rf2.ExportResult, data []byte) error {
	path, err := writeOutput(dir, res.FileName, data)
	if err != nil {
		return err
	}
	s.Exports = append(s.Exports, res)
	s.Outputs = append(s.Outputs, path)
	return nil
}

func (a *app) importRefset(cmd *cobra.Command, path string, flags *refsetFlags) (*refsetSummary, *model.Refset, []*model.SimpleRefsetMember, error) {
	key := flags.handler
	if key == "" {
		key = a.cfg.Handler
	}
	h, err := a.refsetHandler(key)
	if err != nil {
		return nil, nil, nil, err
	}

	refset := flags.refset(a)
	members, err := readWith(path, func(r io.Reader) ([]*model.SimpleRefsetMember, error) {
		return h.ImportMembers(cmd.Context(), r, refset)
	})
	if err != nil {
		return nil, nil, nil, err
	}

	if flags.definition != "" {
		def, err := readWith(flags.definition, func(r io.Reader) (string, error) {
			return h.ImportDefinition(cmd.Context(), r)
		})
		if err != nil {
			return nil, nil, nil, err
		}
		refset.Definition = def
	}

	active := 0
	for _, m := range members {
		m.Refset = refset
		if m.Active {
			active++
		}
	}

	return &refsetSummary{
		Members:    path,
		Handler:    key,
		RefsetID:   refset.TerminologyID,
		Count:      len(members),
		Active:     active,
		Definition: refset.Definition,
	}, refset, members, nil
}

func readWith[T any](path string, fn func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, withCode(exitUsage, err)
	}
	defer f.Close()
	return fn(f)
}
