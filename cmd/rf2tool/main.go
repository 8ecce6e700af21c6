// Command rf2tool imports, exports and inspects RF2 translation bundles and
// refset files.
//
// Usage:
//
//	rf2tool import-translation bundle.zip --language es --module 450829007 --release 20240131
//	rf2tool export-translation bundle.zip --out ./release
//	rf2tool import-refset members.txt --definition definition.txt
//	rf2tool export-refset members.txt --to FHIR --out ./fhir
//	rf2tool inspect bundle.zip --output yaml
//	rf2tool batch es.zip fr.zip --workers 4
package main

import (
	"context"
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeOf(err))
	}
}
