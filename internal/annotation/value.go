package annotation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	oerrors "github.com/kubegen/cli/internal/errors"
)

// fieldFunc decodes one attribute value.
type fieldFunc func(v any) error

// fields is the closed table of keys a record accepts.
type fields map[string]fieldFunc

// decodeRecord applies fs to every key of rec in lexical order. Keys missing
// from fs are rejected. path prefixes nested keys in error messages.
func decodeRecord(annotation, path string, rec map[string]any, fs fields) error {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field := key
		if path != "" {
			field = path + "." + key
		}
		fn, ok := fs[key]
		if !ok {
			return oerrors.NewConfigError(annotation, field, fmt.Sprintf("unknown field %q", key))
		}
		if err := fn(rec[key]); err != nil {
			var gen *oerrors.GenerationError
			if errors.As(err, &gen) {
				return err
			}
			return oerrors.NewConfigError(annotation, field, err.Error())
		}
	}
	return nil
}

// merge combines field tables; later tables win.
func merge(tables ...fields) fields {
	out := fields{}
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

func unparsable(v any) error {
	return fmt.Errorf("unable to parse value: %v", v)
}

// stringValue returns a scalar as a string with $env{} placeholders resolved.
func stringValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return ResolveEnv(t)
	case Expression:
		return "", unparsable(t.Text)
	case int, int32, int64, uint64, float64, bool:
		return fmt.Sprint(t), nil
	default:
		return "", unparsable(v)
	}
}

// nonBlankString is stringValue rejecting empty and whitespace-only values.
func nonBlankString(v any) (string, error) {
	s, err := stringValue(v)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("value cannot be blank")
	}
	return s, nil
}

// intValue decodes a 32-bit integer. Values outside the int32 range are
// rejected rather than truncated.
func intValue(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return int32Range(int64(t), v)
	case int32:
		return int(t), nil
	case int64:
		return int32Range(t, v)
	case uint64:
		if t > math.MaxInt32 {
			return 0, unparsable(t)
		}
		return int(t), nil
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt32 || t < math.MinInt32 {
			return 0, unparsable(t)
		}
		return int(t), nil
	case string:
		resolved, err := ResolveEnv(t)
		if err != nil {
			return 0, err
		}
		i, err := strconv.ParseInt(strings.TrimSpace(resolved), 10, 32)
		if err != nil {
			return 0, unparsable(t)
		}
		return int(i), nil
	case Expression:
		return 0, unparsable(t.Text)
	default:
		return 0, unparsable(v)
	}
}

func int32Range(i int64, raw any) (int, error) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, unparsable(raw)
	}
	return int(i), nil
}

// nonNegativeInt is intValue rejecting negative numbers.
func nonNegativeInt(v any) (int, error) {
	i, err := intValue(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("value must not be negative: %d", i)
	}
	return i, nil
}

func boolValue(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		resolved, err := ResolveEnv(t)
		if err != nil {
			return false, err
		}
		b, err := strconv.ParseBool(strings.TrimSpace(resolved))
		if err != nil {
			return false, unparsable(t)
		}
		return b, nil
	case Expression:
		return false, unparsable(t.Text)
	default:
		return false, unparsable(v)
	}
}

func recordValue(v any) (map[string]any, error) {
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case Attributes:
		return t, nil
	case Expression:
		return nil, unparsable(t.Text)
	default:
		return nil, unparsable(v)
	}
}

func listValue(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case Expression:
		return nil, unparsable(t.Text)
	default:
		return nil, unparsable(v)
	}
}

func recordListValue(v any) ([]map[string]any, error) {
	items, err := listValue(v)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, err := recordValue(item)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// stringListValue accepts a list of scalars or a single scalar.
func stringListValue(v any) ([]string, error) {
	items, err := listValue(v)
	if err != nil {
		s, serr := stringValue(v)
		if serr != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := stringValue(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMapValue(v any) (map[string]string, error) {
	rec, err := recordValue(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rec))
	for k, raw := range rec {
		s, err := stringValue(raw)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// enumValue matches v case-insensitively against allowed and returns the
// canonical spelling.
func enumValue(v any, allowed []string) (string, error) {
	s, err := stringValue(v)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(s), a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("invalid value %q: expected one of %s", s, strings.Join(allowed, ", "))
}

// Field setters used by the processor tables.

func setString(dst *string) fieldFunc {
	return func(v any) error {
		s, err := stringValue(v)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}
}

func setName(dst *string) fieldFunc {
	return func(v any) error {
		s, err := nonBlankString(v)
		if err != nil {
			return err
		}
		*dst = normalize(s)
		return nil
	}
}

func setInt(dst *int) fieldFunc {
	return func(v any) error {
		i, err := intValue(v)
		if err != nil {
			return err
		}
		*dst = i
		return nil
	}
}

func setNonNegativeInt(dst *int) fieldFunc {
	return func(v any) error {
		i, err := nonNegativeInt(v)
		if err != nil {
			return err
		}
		*dst = i
		return nil
	}
}

// setPort accepts a TCP port number in 1-65535.
func setPort(dst *int) fieldFunc {
	return func(v any) error {
		i, err := intValue(v)
		if err != nil {
			return err
		}
		if i < 1 || i > math.MaxUint16 {
			return fmt.Errorf("port must be between 1 and 65535: %d", i)
		}
		*dst = i
		return nil
	}
}

func setBool(dst *bool) fieldFunc {
	return func(v any) error {
		b, err := boolValue(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func setEnum(dst *string, allowed []string) fieldFunc {
	return func(v any) error {
		s, err := enumValue(v, allowed)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}
}

func setStringMap(dst *map[string]string) fieldFunc {
	return func(v any) error {
		m, err := stringMapValue(v)
		if err != nil {
			return err
		}
		*dst = m
		return nil
	}
}

func setStringList(dst *[]string) fieldFunc {
	return func(v any) error {
		l, err := stringListValue(v)
		if err != nil {
			return err
		}
		*dst = l
		return nil
	}
}
