// Command lintfeed decodes and normalizes a saved listing file without
// touching the network or the database. It is the offline check for format
// drift: point it at a snapshot of a source listing and it prints every
// rejected row with its reason plus a summary.
//
// Usage:
//
//	go run ./cmd/lintfeed -variant koeri-list -file testdata/lst6.txt
//	go run ./cmd/lintfeed -variant afad-api -file snapshot.json -print-events
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/quakewatch/quake-data-etl/internal/decode"
	"github.com/quakewatch/quake-data-etl/internal/domain"
)

func main() {
	variantName := flag.String("variant", "", "source variant name to decode as")
	file := flag.String("file", "", "path to a saved listing document")
	printEvents := flag.Bool("print-events", false, "print normalized events as JSON lines")
	flag.Parse()

	if *variantName == "" || *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*variantName, *file, *printEvents); code != 0 {
		os.Exit(code)
	}
}

func run(variantName, file string, printEvents bool) int {
	variant, err := domain.VariantByName(variantName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	doc, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read listing: %v\n", err)
		return 1
	}

	res, err := decode.Decode(doc, variant)
	if err != nil {
		if errors.Is(err, decode.ErrNoListing) {
			fmt.Fprintf(os.Stderr, "FATAL: document is not a %s listing: %v\n", variant.Name, err)
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: decode: %v\n", err)
		}
		return 1
	}

	normalized, rejected := 0, 0
	keys := make(map[string]int)
	for _, row := range res.Rows {
		ev, err := domain.Normalize(row, variant)
		if err != nil {
			rejected++
			fmt.Printf("REJECT  %v\n", err)
			continue
		}
		normalized++

		key := domain.IdentityKey(ev)
		keys[key]++
		if keys[key] > 1 {
			fmt.Printf("DUPKEY  %s appears %d times (row %d)\n", key, keys[key], row.Ordinal)
		}

		if printEvents {
			line, _ := json.Marshal(ev)
			fmt.Println(string(line))
		}
	}

	fmt.Printf("\nrows=%d decode_skipped=%d normalized=%d rejected=%d unique_keys=%d\n",
		len(res.Rows)+res.Skipped, res.Skipped, normalized, rejected, len(keys))
	return 0
}
