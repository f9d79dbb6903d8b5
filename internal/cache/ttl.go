package cache

import "time"

// Per-source-class TTLs from spec §4.2.
const (
	TTLRSS               = 3 * time.Hour
	TTLGovernmentPortal  = 6 * time.Hour
	TTLCompanyPage       = 12 * time.Hour
	TTLNormalizedDerived = 30 * time.Minute
)
