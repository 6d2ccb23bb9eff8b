// Package resolver computes the effective description shown for a
// business requirement link.
package resolver

import "regexp"

// The placeholder token catalog maintainers may embed in a template
// description. Matched case-insensitively.
var placeholder = regexp.MustCompile(`(?i)\[businessname\]`)

// Resolve substitutes every occurrence of the business-name placeholder
// in a template description with the literal business name. A missing
// description resolves to the empty string.
func Resolve(description, businessName string) string {
	if description == "" {
		return ""
	}
	return placeholder.ReplaceAllLiteralString(description, businessName)
}

// Effective picks the text a link actually displays: the override when
// one is set (even an empty one), otherwise the resolved template text.
// It is recomputed on every read so template edits show up immediately
// for links without an override.
func Effective(override *string, description, businessName string) string {
	if override != nil {
		return *override
	}
	return Resolve(description, businessName)
}
