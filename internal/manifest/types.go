package manifest

// Manifest is the top-level output of a micropng build.
type Manifest struct {
	Version     int             `json:"version"`
	GeneratedAt string          `json:"generated_at"`
	Profile     string          `json:"profile"`
	Compression string          `json:"compression"` // compressor name, e.g. "zlib/9"
	BuildInfo   *BuildInfo      `json:"build_info,omitempty"`
	Files       map[string]File `json:"files"`
	Stats       Stats           `json:"stats"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
}

// File describes one source image and the PNG written for it.
type File struct {
	Source   Source `json:"source"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"` // 3 = RGB, 4 = RGBA
	Size     int64  `json:"size"`     // bytes on disk
	Hash     string `json:"hash"`     // first 16 hex chars of xxhash64
	Path     string `json:"path"`     // relative to the manifest directory
}

// Source holds metadata about the input image.
type Source struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// Stats aggregates build metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalFiles       int   `json:"total_files"`
	RGBFiles         int   `json:"rgb_files"`
	RGBAFiles        int   `json:"rgba_files"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "micropng.manifest.json"
