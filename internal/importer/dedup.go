package importer

import "strings"

// Decision is the deduplicator's verdict for one candidate
type Decision int

const (
	DecisionAdmit Decision = iota
	DecisionSkipDuplicate
)

// NameKey is the comparison key for names: lowercased, trimmed and with
// whitespace runs collapsed.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Deduplicator tracks catalog names for one run. It is not safe for
// concurrent use; a run processes candidates sequentially.
type Deduplicator struct {
	existing map[string]struct{}
}

// NewDeduplicator preloads the names already in the catalog
func NewDeduplicator(existingNames []string) *Deduplicator {
	d := &Deduplicator{existing: make(map[string]struct{}, len(existingNames))}
	for _, name := range existingNames {
		d.existing[NameKey(name)] = struct{}{}
	}
	return d
}

// Admit skips names already known and records admitted ones immediately,
// so a later candidate with the same key is skipped as well.
func (d *Deduplicator) Admit(name string) Decision {
	key := NameKey(name)
	if _, ok := d.existing[key]; ok {
		return DecisionSkipDuplicate
	}
	d.existing[key] = struct{}{}
	return DecisionAdmit
}

// markIntraRunDuplicates flags every candidate whose name key appeared
// earlier in the list; the first occurrence is kept.
func markIntraRunDuplicates(candidates []RawCandidate) []bool {
	seen := make(map[string]struct{}, len(candidates))
	duplicates := make([]bool, len(candidates))
	for i, c := range candidates {
		key := NameKey(c.Name)
		if _, ok := seen[key]; ok {
			duplicates[i] = true
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}
