package dedupe

// Option configures the in-memory deduper.
type Option func(*fifo)

// WithMaxSize sets how many ids are kept before the oldest is evicted.
// Zero or less keeps every id.
func WithMaxSize(maxSize int) Option {
	return func(d *fifo) {
		d.maxSize = maxSize
	}
}
