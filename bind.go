package routematch

import (
	"encoding"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// extraState is the payload handed to ResolveState. It can be claimed by a single field.
type extraState struct {
	value   any
	claimed bool
}

// binder populates variant values from captures.
type binder struct {
	nested map[reflect.Type]Resolver
	logger *slog.Logger
}

// variant is a declared route variant: a matcher and the layout of the fields it populates.
type variant struct {
	matcher *Matcher
	// typ is the type of the prototype, a struct or a pointer to a struct.
	typ    reflect.Type
	fields []fieldBinding
}

type fieldBinding struct {
	index int
	name  string
	// key is the capture name, or its declaration index when position is not -1.
	key      string
	position int
	state    bool
	optional bool
}

// layout analyzes the fields of typ and checks they can be populated from the captures of m.
func (b *binder) layout(typ reflect.Type, m *Matcher) (variant, error) {
	st := typ
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return variant{}, fmt.Errorf("%w: %s is not a struct", InvalidVariantError, typ)
	}

	v := variant{matcher: m, typ: typ}
	names := m.CaptureNames()

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("route")
		if tag == "-" {
			continue
		}

		key, opts, _ := strings.Cut(tag, ",")
		if key == "" {
			key = field.Name
		}

		f := fieldBinding{index: i, name: field.Name, key: key, position: -1}
		for _, opt := range strings.Split(opts, ",") {
			switch opt {
			case "state":
				f.state = true
			case "optional":
				f.optional = true
			}
		}

		if f.state {
			v.fields = append(v.fields, f)

			continue
		}

		if !b.supported(field.Type) {
			return variant{}, fmt.Errorf("%w: field %s of %s has type %s", UnsupportedFieldTypeError, field.Name, typ, field.Type)
		}

		if isPosition(key) {
			position, err := strconv.Atoi(key)
			if err != nil || position >= m.NumCaptures() {
				return variant{}, fmt.Errorf("%w: field %s of %s: %q has %d captures, not %s", UnknownCaptureError, field.Name, typ, m, m.NumCaptures(), key)
			}
			f.position = position
		} else if !slices.Contains(names, key) {
			return variant{}, fmt.Errorf("%w: field %s of %s: %q has no capture named %q%s", UnknownCaptureError, field.Name, typ, m, key, suggest(key, names))
		}

		v.fields = append(v.fields, f)
	}

	return v, nil
}

func isPosition(key string) bool {
	for _, c := range key {
		if !isDigit(c) {
			return false
		}
	}

	return true
}

// suggest returns a hint naming the capture closest to key.
func suggest(key string, names []string) string {
	best, bestDistance := "", -1
	for _, name := range names {
		d := levenshtein.ComputeDistance(strings.ToLower(key), strings.ToLower(name))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = name, d
		}
	}

	if bestDistance < 0 || bestDistance > max(2, len(key)/3) {
		return ""
	}

	return fmt.Sprintf("; did you mean %q?", best)
}

func (b *binder) supported(t reflect.Type) bool {
	if _, ok := b.nested[t]; ok {
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.String
	case reflect.Pointer:
		return t.Elem().Kind() != reflect.Pointer && b.supported(t.Elem())
	}

	return false
}

// bind populates a new value of the variant type from captures.
func (b *binder) bind(v variant, captures Captures, st *extraState) (reflect.Value, bool) {
	structType := v.typ
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	ptr := reflect.New(structType)
	sv := ptr.Elem()

	for _, f := range v.fields {
		dst := sv.Field(f.index)

		if f.state {
			if !st.claimed && st.value != nil && reflect.TypeOf(st.value).AssignableTo(dst.Type()) {
				dst.Set(reflect.ValueOf(st.value))
				st.claimed = true
			}

			continue
		}

		var raw string
		var ok bool
		if f.position >= 0 {
			raw, ok = captures.At(f.position)
		} else {
			raw, ok = captures.Get(f.key)
		}

		if !ok {
			// Missing keys fall back to the zero value for optional fields, pointers and slices.
			if f.optional || dst.Kind() == reflect.Pointer || dst.Kind() == reflect.Slice {
				continue
			}

			return reflect.Value{}, false
		}

		if !b.decode(dst, raw, st) {
			return reflect.Value{}, false
		}
	}

	if v.typ.Kind() == reflect.Pointer {
		return ptr, true
	}

	return sv, true
}

// decode sets dst from the captured text raw.
// Nested switches receive raw as is, other types its percent-decoded form.
func (b *binder) decode(dst reflect.Value, raw string, st *extraState) bool {
	t := dst.Type()

	if r, ok := b.nested[t]; ok {
		v, ok := r.resolveValue(raw, st)
		if !ok {
			return false
		}
		dst.Set(v)

		return true
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(unescape(raw))) == nil
	}

	text := unescape(raw)

	switch t.Kind() {
	case reflect.Pointer:
		// Pointers behave as options: text that cannot be decoded gives nil instead of failing.
		elem := reflect.New(t.Elem())
		if b.decode(elem.Elem(), raw, st) {
			dst.Set(elem)
		} else {
			dst.Set(reflect.Zero(t))
		}

	case reflect.String:
		dst.SetString(text)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return false
		}
		dst.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return false
		}
		dst.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return false
		}
		dst.SetFloat(n)

	case reflect.Bool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return false
		}
		dst.SetBool(v)

	case reflect.Slice:
		// For many captures: "a/b%2Fc" → ["a", "b/c"]
		var parts []string
		if raw != "" {
			parts = strings.Split(raw, "/")
			for i, part := range parts {
				parts[i] = unescape(part)
			}
		}
		dst.Set(reflect.ValueOf(parts).Convert(t))

	default:
		return false
	}

	return true
}

// unescape percent-decodes captured text. Text that is not validly encoded is returned as is.
func unescape(raw string) string {
	if !strings.Contains(raw, "%") {
		return raw
	}

	text, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}

	return text
}

// values extracts the capture values of a variant value, keyed like Matcher.Expand expects.
// The keys of values built by nested switches, which are already encoded, are reported in escaped.
func (b *binder) values(v variant, rv reflect.Value) (values map[string]string, escaped map[string]bool, err error) {
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil, fmt.Errorf("%w: nil %s", InvalidVariantError, rv.Type())
		}
		rv = rv.Elem()
	}

	values = make(map[string]string, len(v.fields))
	escaped = make(map[string]bool)
	for _, f := range v.fields {
		if f.state {
			continue
		}

		fv := rv.Field(f.index)
		text, ok, err := b.encode(fv)
		if err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		if !ok {
			continue
		}

		key := f.key
		if f.position >= 0 {
			key = strconv.Itoa(f.position)
		}
		values[key] = text
		if b.isNested(fv.Type()) {
			escaped[key] = true
		}
	}

	return values, escaped, nil
}

func (b *binder) isNested(t reflect.Type) bool {
	if _, ok := b.nested[t]; ok {
		return true
	}
	if t.Kind() == reflect.Pointer {
		_, ok := b.nested[t.Elem()]

		return ok
	}

	return false
}

// encode formats a field value as captured text. It reports false for nil pointers, slices and interfaces.
func (b *binder) encode(fv reflect.Value) (string, bool, error) {
	t := fv.Type()

	if r, ok := b.nested[t]; ok {
		if (t.Kind() == reflect.Interface || t.Kind() == reflect.Pointer) && fv.IsNil() {
			return "", false, nil
		}
		if t.Kind() == reflect.Interface {
			fv = fv.Elem()
		}

		s, err := r.buildValue(fv)

		return s, err == nil, err
	}

	if m, ok := textMarshaler(fv); ok {
		text, err := m.MarshalText()

		return string(text), err == nil, err
	}

	switch t.Kind() {
	case reflect.Pointer:
		if fv.IsNil() {
			return "", false, nil
		}

		return b.encode(fv.Elem())

	case reflect.String:
		return fv.String(), true, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(fv.Int(), 10), true, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(fv.Uint(), 10), true, nil

	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(fv.Float(), 'g', -1, t.Bits()), true, nil

	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), true, nil

	case reflect.Slice:
		if fv.IsNil() {
			return "", false, nil
		}

		parts := fv.Convert(reflect.TypeOf((*[]string)(nil)).Elem()).Interface().([]string)
		for _, part := range parts {
			if strings.Contains(part, "/") {
				return "", false, fmt.Errorf("%w: segment %q contains a slash", InvalidCaptureValueError, part)
			}
		}

		return strings.Join(parts, "/"), true, nil
	}

	return "", false, fmt.Errorf("%w: %s", UnsupportedFieldTypeError, t)
}

func textMarshaler(fv reflect.Value) (encoding.TextMarshaler, bool) {
	t := fv.Type()
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return nil, false
	}

	if t.Implements(textMarshalerType) {
		return fv.Interface().(encoding.TextMarshaler), true
	}

	if reflect.PointerTo(t).Implements(textMarshalerType) {
		p := reflect.New(t)
		p.Elem().Set(fv)

		return p.Interface().(encoding.TextMarshaler), true
	}

	return nil, false
}
