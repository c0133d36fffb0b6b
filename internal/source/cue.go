package source

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/format"

	"github.com/kubegen/cli/internal/annotation"
)

// ParseCUE decodes a CUE descriptor. Fields that do not evaluate to a
// concrete value become annotation.Expression so the processors can report
// them.
func ParseCUE(filename string, data []byte) (*Project, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling cue: %s", cueerrors.Details(err, nil))
	}

	units := v.LookupPath(cue.ParsePath("units"))
	if !units.Exists() {
		return &Project{}, nil
	}
	iter, err := units.List()
	if err != nil {
		return nil, fmt.Errorf("units: %w", err)
	}

	p := &Project{}
	for iter.Next() {
		u, err := cueUnit(iter.Value())
		if err != nil {
			return nil, err
		}
		p.Units = append(p.Units, u)
	}
	return p, nil
}

func cueUnit(v cue.Value) (Unit, error) {
	u := Unit{
		Name:       cueString(v, "name"),
		Artifact:   cueString(v, "artifact"),
		SourceRoot: cueString(v, "sourceRoot"),
	}

	entities := v.LookupPath(cue.ParsePath("entities"))
	if !entities.Exists() {
		return u, nil
	}
	iter, err := entities.List()
	if err != nil {
		return u, fmt.Errorf("unit %s: entities: %w", u.Name, err)
	}
	for iter.Next() {
		ev := iter.Value()
		e := Entity{Entity: annotation.Entity{
			Kind: annotation.EntityKind(cueString(ev, "kind")),
			Name: cueString(ev, "name"),
		}}
		if port := ev.LookupPath(cue.ParsePath("port")); port.Exists() {
			n, err := port.Int64()
			if err != nil {
				return u, fmt.Errorf("unit %s: entity %s: port: %w", u.Name, e.Name, err)
			}
			e.Port = int(n)
		}

		anns := ev.LookupPath(cue.ParsePath("annotations"))
		if anns.Exists() {
			fields, err := anns.Fields()
			if err != nil {
				return u, fmt.Errorf("unit %s: entity %s: annotations: %w", u.Name, e.Name, err)
			}
			for fields.Next() {
				name := fields.Selector().Unquoted()
				val, err := cueValue(fields.Value())
				if err != nil {
					return u, fmt.Errorf("unit %s: entity %s: @%s: %w", u.Name, e.Name, name, err)
				}
				attrs, ok := val.(map[string]any)
				if !ok {
					return u, fmt.Errorf("unit %s: entity %s: @%s: attributes must be a struct", u.Name, e.Name, name)
				}
				e.Annotations = append(e.Annotations, Annotation{Name: name, Attributes: attrs})
			}
		}
		u.Entities = append(u.Entities, e)
	}
	return u, nil
}

func cueString(v cue.Value, path string) string {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return ""
	}
	s, err := f.String()
	if err != nil {
		return ""
	}
	return s
}

// cueValue converts an evaluated value into the shapes processors accept.
func cueValue(v cue.Value) (any, error) {
	if d, ok := v.Default(); ok {
		v = d
	}
	switch v.IncompleteKind() {
	case cue.StructKind:
		fields, err := v.Fields()
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		for fields.Next() {
			child, err := cueValue(fields.Value())
			if err != nil {
				return nil, err
			}
			out[fields.Selector().Unquoted()] = child
		}
		return out, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var out []any
		for iter.Next() {
			child, err := cueValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	}

	if !v.IsConcrete() {
		return expression(v), nil
	}
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	default:
		return expression(v), nil
	}
}

func expression(v cue.Value) annotation.Expression {
	src, err := format.Node(v.Syntax())
	if err != nil {
		return annotation.Expression{Text: fmt.Sprint(v)}
	}
	return annotation.Expression{Text: string(src)}
}
