//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Paper builds the CLI and generates a paper for query into output/.
func Paper(query string) error {
	mg.Deps(Build, Init)
	env := map[string]string{"RESEARCH_WRITER_OUTPUT_DIR": "output"}
	return sh.RunWithV(env, filepath.Join(binDir, binName), "--query", query)
}

// History lists the most recent recorded runs.
func History() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "history")
}
