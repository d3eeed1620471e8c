// Command cirbind drives the core over a set of C/C++ headers: it loads
// configuration, walks the headers through a cursor provider, resolves
// forward references, and writes the resulting item graph as JSON. The
// flag surface and the load/scan/write shape follow
// pablor21-goscanner/cmd/main.go; the scan step itself is pluggable
// through RootCursors, since wiring a real libclang binding is out of
// scope for this module (see clangcursor's package doc).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pablor21/cirbind/clangcursor"
	"github.com/pablor21/cirbind/config"
	"github.com/pablor21/cirbind/derive"
	"github.com/pablor21/cirbind/diag"
	"github.com/pablor21/cirbind/ir"
	"github.com/pablor21/cirbind/logger"
	"github.com/pablor21/cirbind/naming"
	"github.com/pablor21/cirbind/parser"
)

var (
	headers    string
	configPath string
	output     string
	logLevel   string
)

// RootCursors turns a resolved header file list into top-level cursors to
// dispatch. The default is unset: a real build links in a package that
// sets this (a go-clang binding, or a synthetic cursor provider), since
// this module never imports go-clang itself.
var RootCursors func(headerFiles []string) ([]clangcursor.Cursor, error)

func main() {
	flag.StringVar(&headers, "headers", "", "Comma-separated header path globs, e.g. include/**/*.h")
	flag.StringVar(&configPath, "config", "", "Path to a JSON config overriding the embedded default")
	flag.StringVar(&output, "out", "cirbind.json", "Output item-graph JSON file")
	flag.StringVar(&logLevel, "log-level", "", "Override the configured log level")
	flag.Parse()

	opts := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts = loaded
	}
	if logLevel != "" {
		opts.LogLevel = logger.Level(logLevel)
	}

	log := logger.New(opts.LogLevel)
	collector := diag.NewCollector()
	ctx := ir.NewContext(opts, log, collector)

	headerFiles, err := config.ExpandHeaderGlobs(strings.Split(headers, ","))
	if err != nil {
		log.Errorf("expanding header globs: %v", err)
		os.Exit(1)
	}

	if err := scan(ctx, headerFiles); err != nil {
		log.Errorf("scan failed: %v", err)
		os.Exit(1)
	}

	for _, d := range collector.All() {
		log.Warnf("%s", d.String())
	}

	report := buildReport(ctx)
	b, err := json.MarshalIndent(report, "", "\t")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(output, b, 0644); err != nil {
		log.Errorf("writing %s: %v", output, err)
		os.Exit(1)
	}
	log.Infof("item graph written to: %s", output)
}

// scan runs the parse/resolve/codegen pipeline: dispatch every root
// cursor, close the typeref-collection phase, then enter the codegen
// phase so naming and derive queries are legal.
func scan(ctx *ir.Context, headerFiles []string) error {
	if RootCursors == nil {
		return fmt.Errorf("no cursor provider linked into this binary; build with a package that sets cirbind/cmd/cirbind.RootCursors")
	}
	roots, err := RootCursors(headerFiles)
	if err != nil {
		return err
	}

	p := parser.New(ctx)
	for _, root := range roots {
		root.Visit(func(cursor, _ clangcursor.Cursor) clangcursor.ChildVisitResult {
			p.Dispatch(cursor, ctx.CurrentModule())
			return clangcursor.ChildVisitContinue
		})
	}

	parser.ResolvePlaceholders(ctx, ctx.AllItemIDs(), func(cursor clangcursor.Cursor, ty clangcursor.Type) (ir.ItemId, bool) {
		if id, ok := ctx.BuiltinOrResolvedTy(ty); ok {
			return id, true
		}
		return ir.InvalidItemId, false
	})
	ctx.EnterCodegenPhase()
	return nil
}

// itemReport is the JSON shape written to -out: one entry per item, named
// and pathed through naming.Namer, the way goscanner's ScanningResult
// serializes its own type table.
type itemReport struct {
	ID               ir.ItemId `json:"id"`
	Kind             string    `json:"kind"`
	CanonicalName    string    `json:"canonical_name,omitempty"`
	Path             []string  `json:"canonical_path,omitempty"`
	Hidden           bool      `json:"hidden"`
	CanDeriveDebug   bool      `json:"can_derive_debug,omitempty"`
	CanDeriveDefault bool      `json:"can_derive_default,omitempty"`
}

func buildReport(ctx *ir.Context) []itemReport {
	namer := naming.New(ctx)
	deriver := derive.New(ctx)

	var out []itemReport
	for _, id := range ctx.AllItemIDs() {
		it, ok := ctx.ResolveItemFallible(id)
		if !ok || id == ctx.RootModule() {
			continue
		}
		entry := itemReport{
			ID:            id,
			Kind:          it.Kind().String(),
			CanonicalName: namer.CanonicalName(id),
			Path:          namer.CanonicalPath(id),
			Hidden:        it.IsHidden(),
		}
		if it.IsType() {
			entry.CanDeriveDebug = deriver.CanDeriveDebug(id)
			entry.CanDeriveDefault = deriver.CanDeriveDefault(id)
		}
		out = append(out, entry)
	}
	return out
}
