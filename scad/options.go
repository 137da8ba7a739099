package scad

// Option configures Write.
type Option func(*config)

type config struct {
	segments   int
	header     []string
	importRoot string
	indent     string
}

func defaultConfig() config {
	return config{indent: "  "}
}

// WithSegments sets the $fn special variable, the number of facets used for
// every circle. Zero leaves OpenSCAD's default.
func WithSegments(n int) Option {
	return func(c *config) {
		c.segments = n
	}
}

// WithHeader adds a comment line at the top of the file. It may be given
// several times.
func WithHeader(comment string) Option {
	return func(c *config) {
		c.header = append(c.header, comment)
	}
}

// WithImportRoot makes relative import paths relative to dir.
func WithImportRoot(dir string) Option {
	return func(c *config) {
		c.importRoot = dir
	}
}
