package services

import (
	"fmt"
	"time"
)

// DefaultCacheTTL is how long computed reports are served before recomputation.
const DefaultCacheTTL = 15 * time.Minute

const (
	SwingKeyPrefix       = "swing:"
	DemographicKeyPrefix = "demographics:"
)

func stateKeyPart(state string) string {
	if state == "" {
		return "all"
	}
	return state
}

func swingCacheKey(fromYear, toYear int, state string) string {
	return fmt.Sprintf("%s%d:%d:%s", SwingKeyPrefix, fromYear, toYear, stateKeyPart(state))
}

func demographicCacheKey(year int, state string) string {
	return fmt.Sprintf("%s%d:%s", DemographicKeyPrefix, year, stateKeyPart(state))
}
