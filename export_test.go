package treeline

// Test-only accessors for observing decoder internals,
// used by the stack invariant tests.

// StackForTest returns the live traversal stack, bottom to top.
func (d *Decoder) StackForTest() []Node {
	return d.stack
}

// PositionForTest returns the decoder's current content position.
func (d *Decoder) PositionForTest() uint64 {
	return d.position
}

// HeaderForTest returns the parsed header region, if any.
func (d *Decoder) HeaderForTest() (Region, bool) {
	return d.header, d.haveHeader
}
