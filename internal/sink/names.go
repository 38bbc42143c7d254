// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"path/filepath"
	"time"
)

const timestampLayout = "20060102_150405"

// OutputName returns the document file name for a run. An empty name
// becomes research_output_<timestamp>.pdf; a name with no extension gets
// ".pdf". Relative names are placed under dir.
func OutputName(dir, name string, now time.Time) string {
	if name == "" {
		name = "research_output_" + now.Format(timestampLayout) + ".pdf"
	} else if filepath.Ext(name) == "" {
		name += ".pdf"
	}
	if dir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	return name
}

// SnapshotName returns the evidence snapshot file name under dir.
func SnapshotName(dir string, now time.Time) string {
	return OutputName(dir, "research_snapshot_"+now.Format(timestampLayout)+".pdf", now)
}
