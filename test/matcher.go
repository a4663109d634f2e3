package test

import (
	"fmt"

	"go.uber.org/mock/gomock"
)

// Predicate adapts a typed check to a gomock argument matcher
type Predicate[T any] func(T) bool

func (p Predicate[T]) Matches(x any) bool {
	v, ok := x.(T)
	return ok && p(v)
}

func (p Predicate[T]) String() string {
	var zero T
	return fmt.Sprintf("satisfies a %T predicate", zero)
}

func Match[T any](p func(T) bool) gomock.Matcher {
	return Predicate[T](p)
}

// IndianNumber matches a +91 prefixed ten digit number
func IndianNumber() gomock.Matcher {
	return Match(func(phone string) bool {
		return len(phone) == 13 && phone[:3] == "+91"
	})
}
