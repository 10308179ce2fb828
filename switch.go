package routematch

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
)

var (
	InvalidVariantError       = errors.New("invalid route variant")
	UnknownCaptureError       = errors.New("unknown capture")
	UnsupportedFieldTypeError = errors.New("unsupported field type")
	NoVariantError            = errors.New("no route variant can be built")
)

// Resolver is implemented by *Switch. Passing a switch to WithNested lets the variants of another
// switch have fields of its type: such fields are resolved recursively from the captured text.
type Resolver interface {
	// Type returns the type of the values produced by the resolver.
	Type() reflect.Type
	resolveValue(input string, st *extraState) (reflect.Value, bool)
	buildValue(v reflect.Value) (string, error)
}

// SwitchOption configures a Switch.
type SwitchOption func(*binder)

// WithNested registers switches usable as field types.
func WithNested(resolvers ...Resolver) SwitchOption {
	return func(b *binder) {
		for _, r := range resolvers {
			b.nested[r.Type()] = r
		}
	}
}

// WithLogger sets the logger used to report resolution at debug level. It defaults to slog.Default().
func WithLogger(logger *slog.Logger) SwitchOption {
	return func(b *binder) {
		b.logger = logger
	}
}

// Switch maps an input string to a value of type T, usually an interface implemented by one
// struct type per route variant.
//
// Variants are tried in declaration order: the first one whose matcher matches and whose fields
// can all be bound from the captures wins.
//
// Fields are bound according to their `route` tag:
//
//	ID    int       `route:"id"`        // the capture named "id"
//	Slug  string                        // the capture named "Slug"
//	First string    `route:"0"`         // the first capture of the pattern, named or not
//	Page  *int      `route:"page"`      // nil when the capture is absent or not a valid int
//	Tab   string    `route:"tab,optional"` // zero when the capture is absent
//	Data  any       `route:",state"`    // receives the state passed to ResolveState
//	Extra string    `route:"-"`         // ignored
//
// Supported field types are strings, integers, floats, booleans, []string (split on "/"),
// encoding.TextUnmarshaler implementations such as uuid.UUID, pointers to those, and the types
// of the switches registered with WithNested.
// Captured text is percent-decoded before it is stored, except for nested switches which
// receive it as matched.
// A Switch must be fully built before it is shared between goroutines.
type Switch[T any] struct {
	binder
	variants []variant
}

// NewSwitch creates an empty switch.
func NewSwitch[T any](options ...SwitchOption) *Switch[T] {
	s := &Switch[T]{binder: binder{nested: make(map[reflect.Type]Resolver), logger: slog.Default()}}
	for _, o := range options {
		o(&s.binder)
	}

	return s
}

// Type returns the type T.
func (s *Switch[T]) Type() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Route compiles pattern with the default options and adds a variant.
func (s *Switch[T]) Route(pattern string, prototype T) error {
	m, err := Compile(pattern, Options{})
	if err != nil {
		return err
	}

	return s.Add(m, prototype)
}

// Add declares a variant: inputs matched by m resolve to a value of the dynamic type of prototype,
// which must be a struct or a pointer to a struct.
// It checks that the capture of every bound field exists in m.
func (s *Switch[T]) Add(m *Matcher, prototype T) error {
	rv := reflect.ValueOf(prototype)
	if !rv.IsValid() {
		return fmt.Errorf("%w: nil prototype for %q", InvalidVariantError, m)
	}

	v, err := s.layout(rv.Type(), m)
	if err != nil {
		return err
	}

	s.variants = append(s.variants, v)

	return nil
}

// Resolve returns the value of the first variant matching input.
func (s *Switch[T]) Resolve(input string) (T, bool) {
	return s.ResolveState(input, nil)
}

// ResolveState is like Resolve, and hands state to the first field tagged with the "state" option
// whose type can hold it. At most one field of the resolved value, nested values included, receives it.
func (s *Switch[T]) ResolveState(input string, state any) (T, bool) {
	var zero T

	v, ok := s.resolveValue(input, &extraState{value: state})
	if !ok {
		return zero, false
	}

	return v.Interface().(T), true
}

func (s *Switch[T]) resolveValue(input string, st *extraState) (reflect.Value, bool) {
	for _, v := range s.variants {
		captures, ok := v.matcher.Match(input)
		if !ok {
			continue
		}

		attempt := *st
		value, ok := s.bind(v, captures, &attempt)
		if !ok {
			s.logger.Debug("route matched but could not be bound", "input", input, "pattern", v.matcher.String(), "variant", v.typ.String())

			continue
		}

		*st = attempt
		s.logger.Debug("route resolved", "input", input, "pattern", v.matcher.String(), "variant", v.typ.String())

		return value, true
	}

	s.logger.Debug("no route resolved", "input", input)

	return reflect.Value{}, false
}

// Build returns a string that resolves to v, the inverse of Resolve.
// Variants of the dynamic type of v are tried in declaration order.
// Field values are percent-encoded by Matcher.Expand and decoded back by Resolve; fields that
// hold state are not part of the string, so they are not restored by Resolve.
func (s *Switch[T]) Build(v T) (string, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "", fmt.Errorf("%w: nil value", NoVariantError)
	}

	return s.buildValue(rv)
}

func (s *Switch[T]) buildValue(rv reflect.Value) (string, error) {
	var errs []error
	for _, v := range s.variants {
		if v.typ != rv.Type() {
			continue
		}

		values, escaped, err := s.values(v, rv)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		result, err := v.matcher.expand(values, escaped)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		return result, nil
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("%w: %s is not a declared variant", NoVariantError, rv.Type())
	}

	return "", fmt.Errorf("%w: %s: %w", NoVariantError, rv.Type(), errors.Join(errs...))
}
