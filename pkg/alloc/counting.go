package alloc

// Stats records the calls an allocator has served.
type Stats struct {
	// Allocs is the number of Allocate calls.
	Allocs int
	// Deallocs is the number of Deallocate calls.
	Deallocs int
	// Constructs is the number of Construct calls.
	Constructs int
	// Destroys is the number of Destroy calls.
	Destroys int
	// LiveElements is the number of elements allocated and not yet returned.
	LiveElements int
}

// Balanced reports whether every allocation was matched by a deallocation.
func (s Stats) Balanced() bool {
	return s.Allocs == s.Deallocs && s.LiveElements == 0
}

// Counting decorates an allocator and counts the calls it forwards.
// Copies of a *Counting share the same counters.
type Counting[T any] struct {
	base  Allocator[T]
	stats Stats
}

// NewCounting wraps base. A nil base means the heap allocator.
func NewCounting[T any](base Allocator[T]) *Counting[T] {
	return &Counting[T]{base: Or(base)}
}

// Allocate implements Allocator.
func (c *Counting[T]) Allocate(n int) []T {
	block := c.base.Allocate(n)
	c.stats.Allocs++
	c.stats.LiveElements += n

	return block
}

// Deallocate implements Allocator.
func (c *Counting[T]) Deallocate(block []T) {
	c.stats.Deallocs++
	c.stats.LiveElements -= len(block)
	c.base.Deallocate(block)
}

// Construct implements Allocator.
func (c *Counting[T]) Construct(slot *T, value T) {
	c.stats.Constructs++
	c.base.Construct(slot, value)
}

// Destroy implements Allocator.
func (c *Counting[T]) Destroy(slot *T) {
	c.stats.Destroys++
	c.base.Destroy(slot)
}

// MaxSize implements Allocator.
func (c *Counting[T]) MaxSize() int {
	return c.base.MaxSize()
}

// Stats returns a snapshot of the counters.
func (c *Counting[T]) Stats() Stats {
	return c.stats
}

// Reset zeroes the counters.
func (c *Counting[T]) Reset() {
	c.stats = Stats{}
}
