// Package treefile reads and writes trees as nested YAML or JSON documents:
//
//	- name: docs
//	  kind: branch
//	  children:
//	    - name: guide.md
//	- name: README.md
//
// Ids are optional on input; a missing id becomes the slash path of names
// from the root, the same scheme a directory-backed tree uses.
package treefile

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"arbor/internal/domain"
)

// Format selects the document encoding
type Format int

const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses "yaml", "yml" or "json"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown tree file format %q", s)
	}
}

// FormatFor picks the format from a file extension
func FormatFor(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return 0, fmt.Errorf("cannot tell format of %s: no extension", filename)
	}
	return ParseFormat(ext)
}

// DocNode is one node of a tree document
type DocNode struct {
	ID       string      `yaml:"id,omitempty" json:"id,omitempty"`
	Name     string      `yaml:"name" json:"name"`
	Kind     domain.Kind `yaml:"kind,omitempty" json:"kind,omitempty"`
	Children []DocNode   `yaml:"children,omitempty" json:"children,omitempty"`
}

// Decode parses a document into records
func Decode(r io.Reader, format Format) ([]domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var nodes []DocNode
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &nodes)
	case JSON:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		err = json.Unmarshal(data, &nodes)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s tree: %w", format, err)
	}

	var records []domain.Record
	if err := flatten(nodes, "", "", &records); err != nil {
		return nil, err
	}
	return records, nil
}

func flatten(nodes []DocNode, parentID, parentPath string, records *[]domain.Record) error {
	for i, n := range nodes {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			return fmt.Errorf("node %d under %q has no name", i, parentPath)
		}
		p := path.Join(parentPath, name)
		id := n.ID
		if id == "" {
			id = p
		}
		kind := n.Kind
		if len(n.Children) > 0 {
			kind = domain.KindBranch
		}
		*records = append(*records, domain.Record{ID: id, ParentID: parentID, Name: name, Kind: kind, Index: i})
		if err := flatten(n.Children, id, p, records); err != nil {
			return err
		}
	}
	return nil
}

// Nest turns a tree into document nodes
func Nest(tree *domain.Tree) []DocNode {
	return nest(tree.Roots())
}

func nest(level []*domain.Node) []DocNode {
	nodes := make([]DocNode, 0, len(level))
	for _, n := range level {
		nodes = append(nodes, DocNode{
			ID:       n.ID(),
			Name:     n.Name(),
			Kind:     n.Kind(),
			Children: nest(n.Children()),
		})
	}
	return nodes
}

// Encode writes tree as a document
func Encode(w io.Writer, tree *domain.Tree, format Format) error {
	nodes := Nest(tree)
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return err
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}
