package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"apttool/internal/config"
	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/query"
)

// status prints a progress or summary line to stderr unless --quiet is
// set, so listings on stdout can be piped.
func status(format string, args ...interface{}) {
	if quiet {
		return
	}
	ui.Muted.Fprintf(os.Stderr, format+"\n", args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// loadCatalog runs a full pass over the package database so lookups see
// every package.
func loadCatalog(ctx context.Context) error {
	var progress catalog.ProgressFunc
	var sp *ui.Spinner
	if !quiet {
		sp = ui.NewSpinner("Loading package cache")
		sp.Start()
		progress = sp.Progress()
	}

	err := cat.Load(ctx, progress)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return fmt.Errorf("loading package cache: %w", err)
	}
	logger.Printf("loaded %d of ~%d packages", cat.Len(), cat.RoughSize())
	return nil
}

// lookupRecord finds name in the loaded catalog. Qualified names are tried
// against the arch index, then without the qualifier.
func lookupRecord(name string) *catalog.Record {
	name = strings.TrimSpace(name)
	if r, ok := cat.Lookup(name); ok {
		return r
	}
	if !strings.Contains(name, ":") {
		return nil
	}
	if r, ok := cat.LookupArch(name); ok {
		return r
	}
	return cat.Get(query.StripArch(name), nil)
}

// recordName is the name listings print: qualified for foreign
// architectures unless strip is set.
func recordName(r *catalog.Record, strip bool) string {
	if strip || !cat.MultiArch() {
		return r.Name
	}
	switch r.Architecture {
	case "", "all", cat.NativeArch():
		return r.Name
	}
	return r.FullName()
}

func installFilter(installed, notInstalled bool) query.InstallFilter {
	switch {
	case installed:
		return query.InstalledOnly
	case notInstalled:
		return query.NotInstalledOnly
	default:
		return query.Any
	}
}

func lineOptions(short bool) ui.LineOptions {
	return ui.LineOptions{
		DescWidth:   cfg.Output.DescriptionWidth,
		NoDesc:      short,
		ShowVersion: !short,
	}
}

// structured reports whether output goes through ui.Encode.
func structured() bool {
	return cfg.Output.Format != config.FormatText
}

func encode(v interface{}) error {
	return ui.Encode(os.Stdout, cfg.Output.Format, v)
}
