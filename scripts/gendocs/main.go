// Package main generates the portal CLI and configuration reference.
//
// Usage:
//
//	go run ./scripts/gendocs
//	go run ./scripts/gendocs -outdir=docs/cli
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
)

func main() {
	outDir := flag.String("outdir", "", "output directory (default: docs/cli next to go.mod)")
	flag.Parse()

	dir := *outDir
	if dir == "" {
		root, err := moduleRoot()
		if err != nil {
			log.Fatalf("gendocs: %v", err)
		}
		dir = filepath.Join(root, "docs", "cli")
	}

	files, err := generateCLIDocs(dir)
	if err != nil {
		log.Fatalf("gendocs: %v", err)
	}
	log.Printf("wrote %d pages to %s", len(files), dir)
}

// moduleRoot returns the nearest directory above the working directory that
// holds a go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for ; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			return "", errors.New("go.mod not found")
		}
	}
}
