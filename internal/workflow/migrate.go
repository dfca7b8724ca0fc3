package workflow

import "fmt"

// migration transforms a document from version n-1 to version n. Each
// migration is a pure old-shape to new-shape function; the chain from any
// historical version to current composes in order.
type migration struct {
	to    int
	apply func(*Document) bool // returns true if anything changed
}

var migrations = []migration{
	{to: 2, apply: migrateV2},
}

// Migrate brings a document forward to CurrentVersion, backfilling every
// optional field the older schema lacked with its documented default.
// Returns true if anything changed; migrating an already-current document
// is a no-op.
func Migrate(doc *Document) (bool, error) {
	if doc.Version == 0 {
		// Documents written before version stamping are treated as v1.
		doc.Version = 1
	}
	if doc.Version == CurrentVersion {
		return false, nil
	}
	if doc.Version > CurrentVersion {
		return false, fmt.Errorf("workflow %q: schema version %d is newer than supported %d",
			doc.Name, doc.Version, CurrentVersion)
	}

	changed := false
	for _, m := range migrations {
		if doc.Version >= m.to {
			continue
		}
		if m.apply(doc) {
			changed = true
		}
		doc.Version = m.to
		changed = true
	}

	return changed, nil
}

// migrateV2 backfills the defaults and config blocks introduced in v2.
func migrateV2(doc *Document) bool {
	changed := false
	if doc.Defaults.Provider == "" {
		doc.Defaults.Provider = DefaultProvider
		changed = true
	}
	if doc.Config.TimeoutSeconds == 0 {
		doc.Config.TimeoutSeconds = DefaultTimeoutSeconds
		changed = true
	}
	// continue_on_error defaults to false, which is already the zero value.
	return changed
}
