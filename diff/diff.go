package diff

import (
	"fmt"
	"sort"
)

// AttributeChange represents a change between two snapshots of an attribute.
type AttributeChange struct {
	Name string
	Old  []any
	New  []any
}

// Removed reports whether the change clears the attribute.
func (c AttributeChange) Removed() bool {
	return len(c.New) == 0
}

// FindChanges compares two attribute snapshots and returns the changes
// ordered by attribute name. Multi-valued attributes are compared as sets.
func FindChanges(prev, curr map[string][]any) []AttributeChange {
	var changes []AttributeChange

	// Detect changed or added attributes
	for k, newVal := range curr {
		oldVal, exists := prev[k]
		if !exists && len(newVal) == 0 {
			continue
		}
		if !exists || !Equal(oldVal, newVal) {
			changes = append(changes, AttributeChange{Name: k, Old: oldVal, New: newVal})
		}
	}

	// Detect removed attributes
	for k, oldVal := range prev {
		if _, exists := curr[k]; !exists && len(oldVal) > 0 {
			changes = append(changes, AttributeChange{Name: k, Old: oldVal, New: nil})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes
}

// Equal compares two value sets, ignoring order.
func Equal(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := canonical(a), canonical(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// canonical flattens values to sorted strings so natives of different
// dynamic types (string vs []byte) compare by content.
func canonical(values []any) []string {
	result := make([]string, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case string:
			result[i] = val
		case []byte:
			result[i] = string(val)
		case interface{ DistinguishedName() string }:
			result[i] = val.DistinguishedName()
		default:
			result[i] = fmt.Sprint(val)
		}
	}
	sort.Strings(result)
	return result
}
