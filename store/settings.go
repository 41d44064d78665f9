package store

// ReallocationStrategy governs how a Store grows its backing slice once its
// reserved capacity is exhausted. Grounded on original_source's
// data/src/basic/storage.rs ReallocationStrategy enum.
type ReallocationStrategy interface {
	nextCapacity(current int) int
}

// FixedSize grows capacity by a constant number of slots each time.
type FixedSize int

func (f FixedSize) nextCapacity(current int) int { return current + int(f) }

// Multiplicative grows capacity by a constant factor each time.
type Multiplicative int

func (m Multiplicative) nextCapacity(current int) int {
	if current == 0 {
		return int(m)
	}
	return current * int(m)
}

// StorageSettings bounds and tunes a Store's growth (spec §5).
type StorageSettings struct {
	InitialSize          int
	MaxItems             int
	ReallocationStrategy ReallocationStrategy
}

// DefaultStorageSettings matches the teacher's conservative defaults: small
// initial reservation, effectively unbounded max, fixed-size growth steps.
func DefaultStorageSettings() StorageSettings {
	return StorageSettings{
		InitialSize:          16,
		MaxItems:             1 << 30,
		ReallocationStrategy: FixedSize(64),
	}
}

// Option configures a Store at construction time, following the functional
// options pattern jcorbin/gothird uses for its VMOption type.
type Option func(*StorageSettings)

// WithInitialSize sets the initial reserved capacity.
func WithInitialSize(n int) Option {
	return func(s *StorageSettings) { s.InitialSize = n }
}

// WithMaxItems bounds the total number of addresses a Store may allocate.
func WithMaxItems(n int) Option {
	return func(s *StorageSettings) { s.MaxItems = n }
}

// WithReallocationStrategy overrides the growth strategy.
func WithReallocationStrategy(r ReallocationStrategy) Option {
	return func(s *StorageSettings) { s.ReallocationStrategy = r }
}
