package normalizer

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/jonesrussell/jobcore/internal/model"
)

// Identity implements identity(job) -> hex string from spec §4.6:
// H(lower(title) || "_" || lower(company.name) || "_" || lower(location)),
// truncated/formatted to 16 hex characters.
//
// xxhash.Sum64 already returns a 64-bit value, which formats to exactly
// 16 hex digits — no second truncation step is needed the way a wider
// hash (e.g. a 128-bit one) would require.
func Identity(job *model.Job) string {
	key := model.NormalizedTitle(job) + "_" + model.NormalizedCompany(job) + "_" + model.NormalizedLocation(job)
	sum := xxhash.Sum64String(key)
	return fmt.Sprintf("%016x", sum)
}
