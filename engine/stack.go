package engine

import (
	"errors"
	"fmt"
	"strings"
)

const (
	initialCapacity = 10
	resizeStep      = 10
	shrinkFloor     = 20
)

var ErrEmptyStack = errors.New("stack is empty")

// Stack is a LIFO container backed by an explicitly sized array. Capacity grows by a fixed
// step once the stack is three quarters full and shrinks by the same step once it is a
// quarter full, never below the initial capacity.
type Stack[T any] struct {
	elements []T
	size     int
}

func NewStack[T any]() *Stack[T] {
	return &Stack[T]{elements: make([]T, initialCapacity)}
}

// Push grows the backing array before inserting when size >= 75% of capacity.
func (s *Stack[T]) Push(element T) {
	if s.elements == nil {
		s.elements = make([]T, initialCapacity)
	}
	if 4*s.size >= 3*len(s.elements) {
		s.resize(len(s.elements) + resizeStep)
	}
	s.elements[s.size] = element
	s.size++
}

// Pop shrinks the backing array before removing when capacity >= 20 and size <= 25% of capacity.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if s.size == 0 {
		return zero, ErrEmptyStack
	}

	if len(s.elements) >= shrinkFloor && 4*s.size <= len(s.elements) {
		s.resize(len(s.elements) - resizeStep)
	}

	v := s.elements[s.size-1]
	s.elements[s.size-1] = zero
	s.size--
	return v, nil
}

func (s *Stack[T]) Peek() (T, error) {
	var zero T
	if s.size == 0 {
		return zero, ErrEmptyStack
	}
	return s.elements[s.size-1], nil
}

func (s *Stack[T]) IsEmpty() bool {
	return s.size == 0
}

func (s *Stack[T]) Len() int {
	return s.size
}

func (s *Stack[T]) Cap() int {
	if s.elements == nil {
		return initialCapacity
	}
	return len(s.elements)
}

// Top returns the index of the top element, or -1 when the stack is empty.
func (s *Stack[T]) Top() int {
	return s.size - 1
}

func (s *Stack[T]) Clear() {
	s.elements = make([]T, initialCapacity)
	s.size = 0
}

func (s *Stack[T]) String() string {
	if s.size == 0 {
		return "Empty stack."
	}

	var sb strings.Builder
	sb.WriteString("Stack: ")
	for i := s.size - 1; i >= 0; i-- {
		fmt.Fprint(&sb, s.elements[i])
		if i > 0 {
			sb.WriteString(", ")
		} else {
			sb.WriteString(".")
		}
	}
	return sb.String()
}

// resize never drops live elements or goes below the initial capacity.
func (s *Stack[T]) resize(capacity int) {
	capacity = max(capacity, s.size, initialCapacity)
	if capacity == len(s.elements) {
		return
	}
	elements := make([]T, capacity)
	copy(elements, s.elements[:s.size])
	s.elements = elements
}
