package compress

// Compress encodes and decodes archive snapshots.
type Compress interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ByName returns the codec registered under name, defaulting to gzip.
func ByName(name string) Compress {
	switch name {
	case "nop":
		return NewNop()
	case "brotli":
		return NewBrotli()
	case "lz4":
		return NewLZ4()
	default:
		return NewGZip()
	}
}
