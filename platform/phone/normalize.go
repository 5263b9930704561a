// Package phone normalizes caller and contact phone numbers.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed to be domestic; the voice
// vendor delivers caller IDs in E.164 already, so this mostly affects
// numbers typed into the dashboard.
const defaultRegion = "US"

// NormalizeE164 converts input to E.164 form. Input that cannot be parsed
// or is not a valid number is returned trimmed but otherwise untouched, so
// callers never lose the raw value.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
