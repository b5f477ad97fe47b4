// Package tileset loads the MGRS tile allowlist used to filter catalog
// pages and push events down to the tiles this deployment cares about.
package tileset

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Allowlist is a set of 5-character MGRS tile codes.
type Allowlist struct {
	tiles map[string]struct{}
}

// Load reads a newline-delimited file of tile codes (§6, "MGRS allowlist
// file"). Blank lines and lines starting with # are ignored.
func Load(path string) (*Allowlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tile allowlist %s: %w", path, err)
	}
	defer f.Close()

	tiles := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tiles[strings.ToUpper(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tile allowlist %s: %w", path, err)
	}

	return &Allowlist{tiles: tiles}, nil
}

// Allowed reports whether tileID is in the allowlist.
func (a *Allowlist) Allowed(tileID string) bool {
	_, ok := a.tiles[strings.ToUpper(tileID)]
	return ok
}

// Len reports the number of tiles loaded.
func (a *Allowlist) Len() int {
	return len(a.tiles)
}
