package codec

// Encoder defines the output encoding interface
type Encoder interface {
	Encode(v any) ([]byte, error)
	ContentType() string
}

// Registry manages multiple encoder implementations
type Registry interface {
	Register(name string, enc Encoder)
	Get(name string) (Encoder, bool)
	Default() Encoder
}
