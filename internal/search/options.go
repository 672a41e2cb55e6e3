package search

type options struct {
	expansionLimit int
}

// Option tunes a search call.
type Option func(*options)

// WithExpansionLimit stops greedy and A* searches after n node expansions
// and reports a *NoPathError with Limited set. n <= 0 means no limit.
// Uniform-cost search delegates to a library routine and ignores it.
func WithExpansionLimit(n int) Option {
	return func(o *options) { o.expansionLimit = n }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
