package options

import "fmt"

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

// Func is a functional option wrapping a function. A non-empty name is used
// to label errors returned by the function.
type Func[T any] struct {
	name      string
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	if err := f.applyFunc(target); err != nil {
		if f.name != "" {
			return fmt.Errorf("%s: %w", f.name, err)
		}

		return err
	}

	return nil
}

// New creates a functional option from a function.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// Named creates a functional option whose errors are prefixed with name.
func Named[T any](name string, fn func(T) error) *Func[T] {
	return &Func[T]{name: name, applyFunc: fn}
}

// NoError creates a functional option from a function that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies options in order and stops at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
