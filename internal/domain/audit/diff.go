package audit

import (
	"fmt"
	"sort"
	"time"
)

// FieldChange is one changed property between an entity snapshot and a
// patch.
type FieldChange struct {
	Property string
	Existed  string
	Updated  string
}

// Bookkeeping timestamps are maintained by the persistence layer and are
// excluded from diffs.
var excludedProperties = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"created_on": {},
	"updated_on": {},
}

// DiffFields compares an entity snapshot against a patch and returns one
// change per property whose value differs. Only properties present in the
// patch are considered. Values are compared after stringification so that
// equivalent values of different types ("5" vs 5) do not produce false
// positives. Changes are returned in property order for deterministic
// output.
func DiffFields(existed, updated map[string]any) []FieldChange {
	properties := make([]string, 0, len(updated))
	for property := range updated {
		if _, excluded := excludedProperties[property]; excluded {
			continue
		}
		properties = append(properties, property)
	}
	sort.Strings(properties)

	changes := make([]FieldChange, 0, len(properties))
	for _, property := range properties {
		before := Stringify(existed[property])
		after := Stringify(updated[property])
		if before == after {
			continue
		}
		changes = append(changes, FieldChange{
			Property: property,
			Existed:  before,
			Updated:  after,
		})
	}
	return changes
}

// Stringify renders a field value for comparison and storage. Nil renders
// as the empty string, times in RFC 3339, everything else through the
// default format.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
