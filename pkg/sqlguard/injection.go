// Package sqlguard validates identifiers that schema sources interpolate
// into introspection queries. Identifiers come from the datasource's own
// catalog or from caller-supplied table lists, so they are checked before
// use even though adapters also quote them.
package sqlguard

import (
	"fmt"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/vectorlens/schemarag/pkg/apperrors"
)

// CheckIdentifier rejects table or column names that carry SQL injection
// patterns. Returns nil for clean names.
func CheckIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", apperrors.ErrUnsafeIdentifier)
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(name); isSQLi {
		return fmt.Errorf("%w: %q (fingerprint %s)", apperrors.ErrUnsafeIdentifier, name, fingerprint)
	}

	return nil
}

// CheckIdentifiers validates a batch of identifiers, failing on the first
// unsafe one.
func CheckIdentifiers(names ...string) error {
	for _, name := range names {
		if err := CheckIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}
