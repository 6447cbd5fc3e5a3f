// Package invalidation provides the dirty-flag primitive behind every lazily
// derived value in the scene core.
//
// Each owner declares its own flag type so flags of one owner cannot be passed
// to another owner's set:
//
//	type Flag uint32
//
//	const (
//		ViewMatrix Flag = 1 << iota
//		ProjectionMatrix
//	)
//
//	var flags invalidation.Set[Flag]
//
// A Set is not synchronized. It is written by the thread that mutates its owner.
package invalidation

// Flag is the constraint for owner-declared flag types.
type Flag interface {
	~uint32
}

// Set is a bitmask of pending recomputations.
type Set[F Flag] struct {
	bits F
}

// All returns a set with every bit in mask already invalidated.
// Owners start with all derived values stale.
func All[F Flag](mask F) Set[F] {
	return Set[F]{bits: mask}
}

// Invalidate marks every value in mask as stale.
func (s *Set[F]) Invalidate(mask F) {
	s.bits |= mask
}

// Has reports whether any value in mask is stale.
func (s *Set[F]) Has(mask F) bool {
	return s.bits&mask != 0
}

// Clear marks every value in mask as fresh.
func (s *Set[F]) Clear(mask F) {
	s.bits &^= mask
}

// Bits returns the raw pending mask.
func (s *Set[F]) Bits() F {
	return s.bits
}

// Refresh runs recompute when flag is stale and clears it afterwards.
// It returns whether recompute ran.
func (s *Set[F]) Refresh(flag F, recompute func()) bool {
	if !s.Has(flag) {
		return false
	}
	recompute()
	s.Clear(flag)
	return true
}
