package domain

import "time"

// IsValidTimezone reports whether timezone is a name the Go runtime's
// embedded IANA database can resolve.
func IsValidTimezone(timezone string) bool {
	if timezone == "" {
		return false
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
