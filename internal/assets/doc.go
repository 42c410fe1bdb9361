// Package assets provides theme stylesheet loading from embedded files with
// optional filesystem overrides.
package assets
