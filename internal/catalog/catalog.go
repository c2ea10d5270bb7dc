// Package catalog reads the directory of asset definition files that
// drives resolution and composition. Definitions are parsed lazily on
// first access and cached for the process lifetime; the catalog is
// safe for concurrent readers.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Catalog indexes a definition directory and resolves entries and
// image assets from it. The filename index is built once in Open;
// entry payloads load on demand behind a singleflight guard so that
// concurrent first reads never observe a half-parsed entry.
type Catalog struct {
	dir       string
	assetRoot string
	log       *zap.Logger

	mu      sync.RWMutex
	entries map[string]*Entry // filename -> parsed entry; nil = known bad

	byCategory map[string][]string // category name -> sorted filenames

	group singleflight.Group
}

// Open scans dir for *.json definition files. A missing or unreadable
// directory is fatal; individual files are not touched yet. assetRoot
// is the root of the image asset tree (see AssetPath).
func Open(dir, assetRoot string, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory %s: %w", dir, err)
	}

	c := &Catalog{
		dir:        dir,
		assetRoot:  assetRoot,
		log:        log,
		entries:    make(map[string]*Entry),
		byCategory: make(map[string][]string),
	}

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		cat := CategoryOf(de.Name())
		c.byCategory[cat] = append(c.byCategory[cat], de.Name())
	}
	for _, files := range c.byCategory {
		sort.Strings(files)
	}

	return c, nil
}

// Dir returns the definition directory the catalog was opened on.
func (c *Catalog) Dir() string { return c.dir }

// Entry returns the parsed definition for the given filename.
// Unknown filenames and malformed files both return (nil, false);
// malformed files are logged once and remembered as bad, never fatal.
func (c *Catalog) Entry(file string) (*Entry, bool) {
	c.mu.RLock()
	e, cached := c.entries[file]
	c.mu.RUnlock()
	if cached {
		return e, e != nil
	}

	if !c.knownFile(file) {
		return nil, false
	}

	v, _, _ := c.group.Do(file, func() (interface{}, error) {
		e := c.parseEntry(file)
		c.mu.Lock()
		c.entries[file] = e
		c.mu.Unlock()
		return e, nil
	})
	e, _ = v.(*Entry)
	return e, e != nil
}

func (c *Catalog) parseEntry(file string) *Entry {
	path := filepath.Join(c.dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		c.log.Warn("skipping unreadable catalog file",
			zap.String("file", file), zap.Error(err))
		return nil
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Warn("skipping malformed catalog file",
			zap.String("file", file), zap.Error(err))
		return nil
	}
	if len(e.Layer1) == 0 || len(e.Variants) == 0 {
		c.log.Warn("skipping incomplete catalog file",
			zap.String("file", file))
		return nil
	}
	return &e
}

func (c *Catalog) knownFile(file string) bool {
	for _, f := range c.byCategory[CategoryOf(file)] {
		if f == file {
			return true
		}
	}
	return false
}

// KnownCategory reports whether any definition file belongs to the
// given category name.
func (c *Catalog) KnownCategory(name string) bool {
	return len(c.byCategory[name]) > 0
}

// ItemsFor returns the sorted definition filenames for a category name.
func (c *Catalog) ItemsFor(name string) []string {
	return c.byCategory[name]
}

// Contract builds the resolved-path -> allowed-variants mapping across
// every loadable definition and body type. This is the cross-field
// contract the build validator checks variants against.
func (c *Catalog) Contract() map[string][]string {
	contract := make(map[string][]string)
	for _, files := range c.byCategory {
		for _, f := range files {
			e, ok := c.Entry(f)
			if !ok {
				continue
			}
			for _, path := range e.Layer1 {
				if path != "" {
					contract[path] = e.Variants
				}
			}
		}
	}
	return contract
}

// EntryByPath finds the definition whose layer_1 mapping contains the
// given resolved category path.
func (c *Catalog) EntryByPath(path string) (*Entry, bool) {
	for _, files := range c.byCategory {
		for _, f := range files {
			e, ok := c.Entry(f)
			if !ok {
				continue
			}
			for _, p := range e.Layer1 {
				if p == path {
					return e, true
				}
			}
		}
	}
	return nil, false
}

// AssetPath returns the image file for a category path, variant and
// animation: <assetRoot>/<categoryPath>/<variant>/<animation>.png.
func (c *Catalog) AssetPath(categoryPath, variant, animation string) string {
	return filepath.Join(c.assetRoot, filepath.FromSlash(categoryPath), variant, animation+".png")
}
