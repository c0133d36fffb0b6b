package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kubegen/cli/internal/annotation"
)

// ExprTag marks a YAML scalar as a non-literal expression.
const ExprTag = "!expr"

type yamlProject struct {
	Units []yamlUnit `yaml:"units"`
}

type yamlUnit struct {
	Name       string       `yaml:"name"`
	Artifact   string       `yaml:"artifact"`
	SourceRoot string       `yaml:"sourceRoot"`
	Entities   []yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	Kind        string    `yaml:"kind"`
	Name        string    `yaml:"name"`
	Port        int       `yaml:"port"`
	Annotations yaml.Node `yaml:"annotations"`
}

// ParseYAML decodes a YAML descriptor. Annotation order follows the
// document.
func ParseYAML(data []byte) (*Project, error) {
	var raw yamlProject
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	p := &Project{}
	for _, ru := range raw.Units {
		u := Unit{Name: ru.Name, Artifact: ru.Artifact, SourceRoot: ru.SourceRoot}
		for _, re := range ru.Entities {
			anns, err := yamlAnnotations(&re.Annotations)
			if err != nil {
				return nil, fmt.Errorf("unit %s: entity %s: %w", ru.Name, re.Name, err)
			}
			u.Entities = append(u.Entities, Entity{
				Entity: annotation.Entity{
					Kind: annotation.EntityKind(re.Kind),
					Name: re.Name,
					Port: re.Port,
				},
				Annotations: anns,
			})
		}
		p.Units = append(p.Units, u)
	}
	return p, nil
}

func yamlAnnotations(node *yaml.Node) ([]Annotation, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: annotations must be a mapping", node.Line)
	}

	var out []Annotation
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		body := node.Content[i+1]

		attrs := annotation.Attributes{}
		switch body.Kind {
		case yaml.MappingNode:
			v, err := yamlValue(body)
			if err != nil {
				return nil, fmt.Errorf("@%s: %w", name, err)
			}
			attrs = v.(map[string]any)
		case yaml.ScalarNode:
			if body.Tag != "!!null" {
				return nil, fmt.Errorf("line %d: @%s: attributes must be a mapping", body.Line, name)
			}
		default:
			return nil, fmt.Errorf("line %d: @%s: attributes must be a mapping", body.Line, name)
		}
		out = append(out, Annotation{Name: name, Attributes: attrs})
	}
	return out, nil
}

// yamlValue converts a node into the value shapes processors accept.
func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[node.Content[i].Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", node.Line)
}

func yamlScalar(node *yaml.Node) (any, error) {
	switch node.Tag {
	case ExprTag:
		return annotation.Expression{Text: node.Value}, nil
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return node.Value, nil
	}
}
