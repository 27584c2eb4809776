package app

import (
	"time"

	"github.com/hyperifyio/labelflat/internal/export"
)

// Config holds runtime configuration for the application.
type Config struct {
	InputPath  string
	OutputPath string

	// Product is the commercial product name written to the document.
	Product string

	// Debug exports every flattened table next to the output.
	Debug        bool
	DebugFormats []export.Format

	Verbose bool

	// Date overrides the processing date; zero means today.
	Date time.Time

	// Service
	ListenAddr string
	BatchLimit int
	// CacheDir enables the on-disk document cache of the service.
	CacheDir string
	// CacheMaxAge purges older cache entries at startup; zero keeps all.
	CacheMaxAge time.Duration
	// CacheStrictPerms restricts the cache to 0700 dirs and 0600 entries.
	CacheStrictPerms bool
}
