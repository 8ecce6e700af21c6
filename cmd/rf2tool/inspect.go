package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gofhir/rf2/archive"
	"github.com/gofhir/rf2/rf2io"
	"github.com/gofhir/rf2/row"
)

// entryReport describes one archive entry.
type entryReport struct {
	Name  string `json:"name" yaml:"name"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Size  int64  `json:"size" yaml:"size"`
	Rows  int    `json:"rows" yaml:"rows"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

type inspectReport struct {
	Path    string         `json:"path" yaml:"path"`
	Format  archive.Format `json:"format" yaml:"format"`
	Entries []entryReport  `json:"entries" yaml:"entries"`
	Invalid int            `json:"invalid" yaml:"invalid"`
}

func (r *inspectReport) renderText(w io.Writer) {
	printRows(w, [][2]string{
		{"Path:", r.Path},
		{"Format:", string(r.Format)},
		{"Entries:", fmt.Sprint(len(r.Entries))},
	})
	for _, e := range r.Entries {
		kind := e.Kind
		if kind == "" {
			kind = "-"
		}
		name := e.Name
		if name == "" {
			name = "<stream>"
		}
		fmt.Fprintf(w, "  %-16s %8d rows  %s\n", kind, e.Rows, name)
		if e.Error != "" {
			fmt.Fprintf(w, "  %16s %s\n", "", e.Error)
		}
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the entries of a bundle or flat file with their row kinds and counts",
		Long: `List the entries of a bundle or flat file.

Entries are classified by name. Recognised entries are parsed in full, so a
malformed row is reported with its line number. A flat file has no name to
classify; pass --kind to parse it (e.g. --kind simple).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var flatKind row.Kind = -1
			if kindName != "" {
				k, ok := parseKind(kindName)
				if !ok {
					return withCode(exitUsage, fmt.Errorf("unknown row kind: %s", kindName))
				}
				flatKind = k
			}

			report, err := inspect(args[0], flatKind)
			if err != nil {
				return err
			}
			if err := a.render(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Invalid > 0 {
				return withCode(exitData, fmt.Errorf("%d invalid entries", report.Invalid))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "", "row kind of a flat file")
	return cmd
}

func inspect(path string, flatKind row.Kind) (*inspectReport, error) {
	a, err := archive.OpenFile(path)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	defer a.Close()

	report := &inspectReport{Path: path, Format: a.Format()}
	for _, e := range a.Entries() {
		er := entryReport{Name: e.Name, Size: e.Size}

		kind, ok := rf2io.ClassifyEntry(e.Name)
		if !ok && e.Name == "" && flatKind.IsValid() {
			kind, ok = flatKind, true
		}
		if ok {
			er.Kind = kind.String()
			n, err := countRows(e, kind)
			er.Rows = n
			if err != nil {
				er.Error = err.Error()
				report.Invalid++
			}
		}
		report.Entries = append(report.Entries, er)
	}
	return report, nil
}

func countRows(e archive.Entry, kind row.Kind) (int, error) {
	rc, err := e.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	r := row.NewReader(rc, kind, e.Name)
	n := 0
	for r.Next() {
		n++
	}
	return n, r.Err()
}

func parseKind(name string) (row.Kind, bool) {
	for k := row.KindConcept; k.IsValid(); k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
