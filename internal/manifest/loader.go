// Package manifest builds registry snapshots from HCL manifest files.
//
// A manifest declares functions grouped by module:
//
//	module "pkg" {
//	  function "install" {
//	    doc = <<-EOT
//	      Install the passed package
//	    EOT
//	    arg "name" {}
//	    arg "refresh" { default = false }
//	    varargs = "pkgs"
//	    kwargs  = "kwargs"
//	  }
//	}
//
// The function above is registered as "pkg.install". Arguments keep their
// declaration order and defaults must trail.
package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lrevnic/salt/internal/registry"
)

// Extension is the file suffix of manifest files.
const Extension = ".hcl"

// Load parses every manifest under dirs and returns one immutable snapshot.
// Files are parsed concurrently; the result does not depend on scheduling.
// A missing directory or an invalid manifest yields an unavailable error.
func Load(ctx context.Context, kind registry.Kind, dirs []string, logger *zap.Logger) (*registry.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(dirs) == 0 {
		return nil, registry.Unavailable(kind, "no manifest directories configured", nil)
	}

	var files []string
	for _, dir := range dirs {
		found, err := findFiles(dir)
		if err != nil {
			return nil, registry.Unavailable(kind, "manifest directory "+dir, err)
		}
		if len(found) == 0 {
			logger.Warn("no manifest files found", zap.String("dir", dir))
		}
		files = append(files, found...)
	}
	logger.Debug("loading manifests",
		zap.String("registry", string(kind)),
		zap.Strings("files", files))

	results := make([][]entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// hclparse.Parser caches files in a map and is not safe to share.
			parser := hclparse.NewParser()
			file, diags := parser.ParseHCLFile(path)
			if diags.HasErrors() {
				return fmt.Errorf("failed to parse manifest %s: %w", path, diags)
			}
			entries, diags := decodeFile(file)
			if diags.HasErrors() {
				return fmt.Errorf("invalid manifest %s: %w", path, diags)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, registry.Unavailable(kind, "invalid manifests", err)
	}

	descriptors := make(map[string]registry.Descriptor)
	origins := make(map[string]string)
	for _, entries := range results {
		for _, e := range entries {
			if prev, dup := origins[e.Name]; dup {
				err := fmt.Errorf("function %q declared in %s and %s", e.Name, prev, e.Range)
				return nil, registry.Unavailable(kind, "invalid manifests", err)
			}
			origins[e.Name] = e.Range.String()
			descriptors[e.Name] = e.Function
		}
	}

	reg, err := registry.New(kind, descriptors)
	if err != nil {
		return nil, registry.Unavailable(kind, "invalid manifests", err)
	}
	logger.Info("registry loaded",
		zap.String("registry", string(kind)),
		zap.Int("files", len(files)),
		zap.Int("functions", reg.Len()))
	return reg, nil
}

// findFiles returns every manifest below root in lexical order.
func findFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
