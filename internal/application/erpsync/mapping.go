package erpsync

import (
	"fmt"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// Field mapping engine: pure translation between a remote object's field set
// and a local entity's field set, driven by the admin-configured mapping
// table. No I/O, no hidden state, inputs are never mutated and values pass
// through unchanged.

// ToLocal translates a remote row into a partial local record. For each
// (remoteField, localField) pair whose target is not the ignore sentinel,
// the remote value is copied under the local field name. Remote fields
// absent from the mapping are dropped silently.
func ToLocal(remoteRow map[string]any, fieldMappings map[string]string) map[string]any {
	local := make(map[string]any, len(fieldMappings))
	for remoteField, localField := range fieldMappings {
		if localField == erpsync.FieldIgnored {
			continue
		}
		if value, ok := remoteRow[remoteField]; ok {
			local[localField] = value
		}
	}
	return local
}

// ToRemote translates a local record into a partial remote row. The reverse
// mapping table (localField -> remoteField) is built once per call; local
// keys without a reverse mapping, and nil values, are dropped silently.
func ToRemote(localRecord map[string]any, fieldMappings map[string]string) map[string]any {
	reverse := reverseMappings(fieldMappings)

	remote := make(map[string]any, len(localRecord))
	for localField, value := range localRecord {
		if value == nil {
			continue
		}
		if remoteField, ok := reverse[localField]; ok {
			remote[remoteField] = value
		}
	}
	return remote
}

// ApplyRequiredFields force-includes the natural key and any remote-mandated
// fields into a remote row built by ToRemote, looking their values up
// directly in the source record the caller already holds. This is an
// engine-level override rather than generic mapping behavior: the remote
// protocol rejects writes missing these fields even when the mapped local
// record does not carry them.
func ApplyRequiredFields(remoteRow, source map[string]any, fieldMappings map[string]string, required ...string) error {
	for _, remoteField := range required {
		if remoteField == "" {
			continue
		}
		if _, ok := remoteRow[remoteField]; ok {
			continue
		}

		value := lookupSource(source, fieldMappings, remoteField)
		if value == nil {
			return fmt.Errorf("%w: %s", erpsync.ErrMappingGap, remoteField)
		}
		remoteRow[remoteField] = value
	}
	return nil
}

// lookupSource finds the source value for a remote field: first under the
// mapped local field name, then under the remote field name itself.
func lookupSource(source map[string]any, fieldMappings map[string]string, remoteField string) any {
	if localField, ok := fieldMappings[remoteField]; ok && localField != erpsync.FieldIgnored {
		if value, ok := source[localField]; ok && value != nil {
			return value
		}
	}
	if value, ok := source[remoteField]; ok && value != nil {
		return value
	}
	return nil
}

// reverseMappings inverts the mapping table, excluding ignored fields
func reverseMappings(fieldMappings map[string]string) map[string]string {
	reverse := make(map[string]string, len(fieldMappings))
	for remoteField, localField := range fieldMappings {
		if localField == erpsync.FieldIgnored {
			continue
		}
		reverse[localField] = remoteField
	}
	return reverse
}
