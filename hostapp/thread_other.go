//go:build !linux

package hostapp

// threadID is unsupported here; OnMainThread falls back to the running flag.
func threadID() int {
	return 0
}
