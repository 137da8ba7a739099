package bottleclip

// Option configures a Build call.
//
// Example:
//
//	// Everything, with material tags
//	tree := bottleclip.Build(p)
//
//	// Only the text material, for a single-color STL export
//	tree := bottleclip.Build(p, bottleclip.WithActiveColor(p.TextColor))
type Option func(*buildOptions)

// buildOptions holds optional configuration for Build.
type buildOptions struct {
	activeColor string
}

// defaultOptions returns the default build options: all colors shown.
func defaultOptions() buildOptions {
	return buildOptions{activeColor: AllColors}
}

// WithActiveColor restricts the build to the branches tagged with color.
// An empty string or AllColors keeps every branch.
func WithActiveColor(color string) Option {
	return func(o *buildOptions) {
		o.activeColor = color
	}
}

func applyOptions(opts []Option) buildOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
