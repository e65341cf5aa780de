package meshio

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// yamlContainer is a container written as nested YAML mappings, e.g.
//
//	parts:
//	  part_001:
//	    mesh:
//	      "0":
//	        points: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
//	        triangle: [[0, 1, 2]]
type yamlContainer struct {
	root yamlGroup
}

type yamlGroup struct {
	node *yaml.Node
}

func openYAML(path string) (Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "meshio: read %s", path)
	}
	return parseYAML(data, path)
}

func parseYAML(data []byte, path string) (*yamlContainer, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "meshio: parse %s", path)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		// an empty document has no hierarchy at all
		root = &yaml.Node{Kind: yaml.MappingNode}
	}
	return &yamlContainer{root: yamlGroup{node: root}}, nil
}

func (c *yamlContainer) Root() Group  { return c.root }
func (c *yamlContainer) Close() error { return nil }

func (g yamlGroup) Names() ([]string, error) {
	names := make([]string, 0, len(g.node.Content)/2)
	for i := 0; i+1 < len(g.node.Content); i += 2 {
		names = append(names, g.node.Content[i].Value)
	}
	return names, nil
}

func (g yamlGroup) child(name string) *yaml.Node {
	for i := 0; i+1 < len(g.node.Content); i += 2 {
		if g.node.Content[i].Value == name {
			return g.node.Content[i+1]
		}
	}
	return nil
}

func (g yamlGroup) Group(name string) (Group, bool, error) {
	n := g.child(name)
	if n == nil || n.Tag == "!!null" {
		return nil, false, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, false, errors.Errorf("meshio: %q is not a group (line %d)", name, n.Line)
	}
	return yamlGroup{node: n}, true, nil
}

func (g yamlGroup) Float64Array(name string) (Array[float64], bool, error) {
	return decodeArray[float64](g.child(name), name)
}

func (g yamlGroup) Int64Array(name string) (Array[int64], bool, error) {
	return decodeArray[int64](g.child(name), name)
}

// decodeArray decodes a sequence of equal-length rows. A flat sequence is
// read as a rank-1 array.
func decodeArray[T float64 | int64](n *yaml.Node, name string) (Array[T], bool, error) {
	var a Array[T]
	if n == nil || n.Tag == "!!null" {
		return a, false, nil
	}
	if n.Kind != yaml.SequenceNode {
		return a, false, errors.Errorf("meshio: %q is not an array (line %d)", name, n.Line)
	}
	if len(n.Content) == 0 {
		a.Shape = []int{0}
		return a, true, nil
	}

	if n.Content[0].Kind != yaml.SequenceNode {
		if err := n.Decode(&a.Data); err != nil {
			return a, false, errors.Wrapf(err, "meshio: decode %q", name)
		}
		a.Shape = []int{len(a.Data)}
		return a, true, nil
	}

	var rows [][]T
	if err := n.Decode(&rows); err != nil {
		return a, false, errors.Wrapf(err, "meshio: decode %q", name)
	}
	cols := len(rows[0])
	a.Data = make([]T, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return a, false, errors.Wrapf(ErrMalformedGeometry, "%q row %d has %d columns, want %d", name, i, len(r), cols)
		}
		a.Data = append(a.Data, r...)
	}
	a.Shape = []int{len(rows), cols}
	return a, true, nil
}
