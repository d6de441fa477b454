// Command samplepdf writes the demo research paper used to try pdfdigest.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/pdfdigest/internal/samplepdf"
)

func main() {
	out := flag.String("o", samplepdf.DefaultPath, "output path")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := samplepdf.WriteFile(*out); err != nil {
		log.Error("write sample pdf", "path", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Sample PDF created: %s\n", *out)
}
