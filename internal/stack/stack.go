// Package stack provides a small generic LIFO used by the format tokenizer
// to keep its lexical modes.
package stack

const errorPrefix = "fq / stack: "

// Stack is a slice backed LIFO. The zero value is an empty, usable stack.
type Stack[T any] struct {
	s []T
}

func New[T any](items ...T) *Stack[T] {
	st := &Stack[T]{s: make([]T, 0, len(items)+4)}
	st.s = append(st.s, items...)
	return st
}

func (st *Stack[T]) Len() int {
	return len(st.s)
}

func (st *Stack[T]) IsEmpty() bool {
	return len(st.s) == 0
}

func (st *Stack[T]) Push(t T) {
	st.s = append(st.s, t)
}

// Pop removes and returns the top element. It panics on an empty stack.
func (st *Stack[T]) Pop() (t T) {
	l := len(st.s)
	if l == 0 {
		panic(errorPrefix + "Pop from empty stack")
	}
	t = st.s[l-1]
	st.s = st.s[:l-1]
	return
}

// Top returns the top element without removing it. It panics on an empty stack.
func (st *Stack[T]) Top() T {
	l := len(st.s)
	if l == 0 {
		panic(errorPrefix + "Top on empty stack")
	}
	return st.s[l-1]
}

// Snapshot returns a copy of the elements, bottom first.
func (st *Stack[T]) Snapshot() []T {
	out := make([]T, len(st.s))
	copy(out, st.s)
	return out
}
