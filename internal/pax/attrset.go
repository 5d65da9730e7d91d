package pax

// AttributeSet is a set of message type tags encoded on the wire as a
// 64-bit bitmask: bit N set means tag value N is present. Only tags with
// values up to 63 are representable; higher values (notably StatusUpdate
// itself, 254) are silently excluded. That is a protocol limitation, not a
// client shortcut.
type AttributeSet uint64

// NewAttributeSet builds a set from the given types, dropping any whose
// tag value exceeds 63.
func NewAttributeSet(types ...MessageType) AttributeSet {
	var s AttributeSet
	for _, t := range types {
		s.Add(t)
	}
	return s
}

// Add inserts a type into the set. Tags above 63 are ignored.
func (s *AttributeSet) Add(t MessageType) {
	if t <= 63 {
		*s |= 1 << t
	}
}

// Has reports whether the set contains the given type.
func (s AttributeSet) Has(t MessageType) bool {
	return t <= 63 && s&(1<<t) != 0
}

// Types returns the members of the set in ascending tag order.
func (s AttributeSet) Types() []MessageType {
	var types []MessageType
	for bit := 0; bit < 64; bit++ {
		if s&(1<<bit) != 0 {
			types = append(types, MessageType(bit))
		}
	}
	return types
}

// Len returns the number of members.
func (s AttributeSet) Len() int {
	n := 0
	for bit := 0; bit < 64; bit++ {
		if s&(1<<bit) != 0 {
			n++
		}
	}
	return n
}
