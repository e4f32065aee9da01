package genint

// Bit is the logical value a gene slot holds. Exactly two canonical
// symbols exist, Zero and One, and equality is by value; no other value
// is ever vended by this package.
type Bit byte

const (
	Zero Bit = 0
	One  Bit = 1
)

// Flip returns the opposite symbol.
func (b Bit) Flip() Bit {
	if b == Zero {
		return One
	}
	return Zero
}

func (b Bit) String() string {
	if b == One {
		return "1"
	}
	return "0"
}
