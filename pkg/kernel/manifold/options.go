package manifold

// Option configures the Manifold kernel.
type Option func(*settings)

type settings struct {
	segments int
}

func defaults() settings {
	return settings{segments: 64}
}

// WithSegments sets the number of facets used for round primitives.
func WithSegments(n int) Option {
	return func(s *settings) {
		if n >= 3 {
			s.segments = n
		}
	}
}
