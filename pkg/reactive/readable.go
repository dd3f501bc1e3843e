package reactive

// Readable is implemented by Signal and Computed.
type Readable interface {
	ID() uint64
	sourceNode() *source
}

func (s *Signal[T]) sourceNode() *source {
	return &s.base
}
