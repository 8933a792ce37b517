package application

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"arbor/internal/domain"
)

// MaxNameLength matches the usual filesystem limit so directory-backed trees
// can always be written back
const MaxNameLength = 255

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		// Format field name with spaces for error message (e.g., "targetID" -> "target ID")
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "parentID" -> "parent ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"id":            "node ID",
		"ids":           "node IDs",
		"parentID":      "parent ID",
		"sourceID":      "source ID",
		"targetID":      "target ID",
		"destinationID": "destination ID",
		"name":          "name",
		"query":         "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateName checks a node name before it reaches the tree
func ValidateName(fieldName, name string) error {
	if err := ValidateRequired(fieldName, name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("must be at most %d characters", MaxNameLength),
		}
	}
	if strings.ContainsAny(name, "/\x00") || name == "." || name == ".." {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid name %q", name),
		}
	}
	return nil
}

// ResolveNode looks id up in tree, returning ErrNotFound when it is missing
func ResolveNode(tree *domain.Tree, fieldName, id string) (*domain.Node, error) {
	if err := ValidateRequired(fieldName, id); err != nil {
		return nil, err
	}
	n, ok := tree.Get(id)
	if !ok {
		return nil, NotFound(id)
	}
	return n, nil
}

// ValidateBranch checks that id names a branch (or is empty, meaning the root list)
func ValidateBranch(tree *domain.Tree, fieldName, id string) error {
	if id == "" {
		return nil
	}
	n, err := ResolveNode(tree, fieldName, id)
	if err != nil {
		return err
	}
	if !n.IsBranch() {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is a leaf and cannot hold children", n.Name()),
		}
	}
	return nil
}
