// Package resources serves the dashboard's stylesheet and chart script.
package resources

import (
	"path/filepath"
	"runtime"
	"strings"
)

// staticDir is the asset directory relative to the repository root.
const staticDir = "internal/ui/resources/static"

// urlPrefix is where Handler is mounted.
const urlPrefix = "/static/"

// StaticPath returns the URL of a static asset, with a content version in
// production builds so browsers can cache it indefinitely.
func StaticPath(name string) string {
	name = strings.TrimPrefix(name, "/")
	if v := version(name); v != "" {
		return urlPrefix + name + "?v=" + v
	}
	return urlPrefix + name
}

// SourceDir locates static/ in the source tree this binary was built from,
// falling back to the repository-relative path.
func SourceDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return staticDir
	}
	return filepath.Join(filepath.Dir(filename), "static")
}
