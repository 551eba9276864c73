package profile

import "github.com/AnyUserName/micropng"

// Profile defines encoding parameters for a batch or single conversion.
type Profile struct {
	Name     string
	Level    micropng.CompressionLevel
	MaxWidth int  // downscale wider inputs; 0 keeps original size
	Alpha    bool // keep the alpha channel when the source has one
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:  "default",
		Level: micropng.DefaultCompression,
		Alpha: true,
	},
	"fast": {
		Name:  "fast",
		Level: micropng.BestSpeed,
		Alpha: true,
	},
	"best": {
		Name:  "best",
		Level: micropng.BestCompression,
		Alpha: true,
	},
	"store": {
		Name:  "store",
		Level: micropng.NoCompression,
		Alpha: true,
	},
	"thumbnail": {
		Name:     "thumbnail",
		Level:    micropng.BestCompression,
		MaxWidth: 256,
		Alpha:    false,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// ParseLevel maps a level name to a compression level.
func ParseLevel(name string) (micropng.CompressionLevel, bool) {
	switch name {
	case "default":
		return micropng.DefaultCompression, true
	case "none", "store":
		return micropng.NoCompression, true
	case "speed", "fast":
		return micropng.BestSpeed, true
	case "best":
		return micropng.BestCompression, true
	}
	return 0, false
}

// TargetSize returns the output dimensions for a w×h source, keeping the
// aspect ratio when MaxWidth applies.
func (p Profile) TargetSize(w, h int) (int, int) {
	if p.MaxWidth <= 0 || w <= p.MaxWidth {
		return w, h
	}
	nh := int(float64(h) * float64(p.MaxWidth) / float64(w))
	if nh < 1 {
		nh = 1
	}
	return p.MaxWidth, nh
}
