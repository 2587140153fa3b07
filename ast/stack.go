// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

// Range is declared in node.go; Stack produces Range values when splitting
// and aligning.

// Stack is the lifter's operand stack: a LIFO of pending expressions, each
// either a fully-built expression tree still awaiting its consumer, or a
// Temporary reference once leaked. Every Stack belonging to the same
// function shares one temporary-id counter (via the counter pointer) so
// that ids stay dense and never collide across nested blocks — mirroring
// spec.md §3's "Temporary indices are dense within a function; reuse is not
// required."
type Stack struct {
	entries []Expression

	counter *uint32

	// previous is the temporary-id counter's value at the moment this
	// Stack was split off from its parent, i.e. where this block's result
	// slots begin once the block closes. Set by splitLast.
	previous uint32
}

// NewStack creates the outermost Stack for a function, with a fresh
// temporary-id counter starting at zero.
func NewStack() *Stack {
	var c uint32
	return &Stack{counter: &c}
}

func (s *Stack) push(e Expression) {
	s.entries = append(s.entries, e)
}

func (s *Stack) pop() Expression {
	return s.popLen(1)[0]
}

// popLen removes and returns the top n entries, in their original
// left-to-right (bottom-to-top, i.e. evaluation) order — so the first
// element of the result is the first-pushed (e.g. the first call argument).
func (s *Stack) popLen(n int) []Expression {
	k := len(s.entries) - n
	out := append([]Expression(nil), s.entries[k:]...)
	s.entries = s.entries[:k]
	return out
}

func (s *Stack) pushTemporary() uint32 {
	id := *s.counter
	*s.counter++
	s.push(Temporary{ID: id})
	return id
}

// pushTemporaries allocates a contiguous range of n fresh temporaries,
// pushing each in order, and returns the range.
func (s *Stack) pushTemporaries(n int) ResultList {
	if n == 0 {
		return ResultList{Start: *s.counter, Len: 0}
	}
	start := *s.counter
	for i := 0; i < n; i++ {
		s.pushTemporary()
	}
	return ResultList{Start: start, Len: uint32(n)}
}

// splitLast pops numParam values into a freshly created child Stack
// (preserving their order), then records the shared counter's current
// value as the child's "previous" marker — the position at which the
// block's eventual numResult result values will live once the parent
// reclaims them.
func (s *Stack) splitLast(numParam, numResult int) *Stack {
	params := s.popLen(numParam)
	child := &Stack{
		entries:  append([]Expression(nil), params...),
		counter:  s.counter,
		previous: *s.counter,
	}
	_ = numResult // result count is consumed by the caller via pushTemporaries
	return child
}

// leakInto materializes every pending entry matching shouldLeak into a
// SetTemporary statement, in stack order (bottom to top), replacing it in
// place with a Temporary reference. Already-leaked entries are left alone.
// Passing a predicate that always returns true implements leak_all.
func (s *Stack) leakInto(code *[]Statement, shouldLeak func(Expression) bool) {
	for i, e := range s.entries {
		if _, already := e.(Temporary); already {
			continue
		}
		if !shouldLeak(e) {
			continue
		}
		id := *s.counter
		*s.counter++
		*code = append(*code, SetTemporary{ID: id, Value: e})
		s.entries[i] = Temporary{ID: id}
	}
}

// getBrAlignment computes the value-transfer between this stack's top
// `result` slots (which must already be leaked — callers run leakAll
// before computing any Br) and the target block's result frame, recorded
// as `targetPrevious`.
func (s *Stack) getBrAlignment(targetPrevious uint32, result int) Align {
	var old Range
	if result > 0 {
		top, ok := s.entries[len(s.entries)-result].(Temporary)
		if !ok {
			panic("ast: br alignment computed before stack was leaked")
		}
		old = Range{Start: top.ID, Len: uint32(result)}
	}
	return Align{
		Old: old,
		New: Range{Start: targetPrevious, Len: uint32(result)},
	}
}

// readGet reports whether the expression tree e would observe a read of
// local `local`, global `global`, or memory `mem` — used by the leak_*
// predicates to decide whether a pending expression must be spilled before
// a hazardous write. Mirrors spec.md §4.5's ReadGet traversal: it visits
// GetLocal/GetGlobal/LoadAt leaves and short-circuits on the first match.
func readGet(e Expression, local, global, mem func(uint32) bool) bool {
	switch v := e.(type) {
	case Local:
		return local(v.Var)
	case GetGlobal:
		return global(v.Var)
	case LoadAt:
		if mem(v.Memory) {
			return true
		}
		return readGet(v.Pointer, local, global, mem)
	case UnOp:
		return readGet(v.Rhs, local, global, mem)
	case BinOp:
		return readGet(v.Lhs, local, global, mem) || readGet(v.Rhs, local, global, mem)
	case CmpOp:
		return readGet(v.Lhs, local, global, mem) || readGet(v.Rhs, local, global, mem)
	case Select:
		return readGet(v.Condition, local, global, mem) ||
			readGet(v.OnTrue, local, global, mem) ||
			readGet(v.OnFalse, local, global, mem)
	default:
		// ValueExpr, Temporary, MemorySize: leaves with no local/global/
		// memory read of the kind leak predicates care about.
		return false
	}
}
