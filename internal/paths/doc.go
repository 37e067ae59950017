// Package paths resolves the filesystem locations confpipe reads from.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. confpipe's own settings live in
// <ConfigHome>/confpipe/config.yaml unless CONFPIPE_CONFIG_DIR points
// elsewhere.
//
// Schema and profile locations given on the command line go through
// [Resolve], which expands "~" and anchors relative paths to a base
// directory.
package paths
