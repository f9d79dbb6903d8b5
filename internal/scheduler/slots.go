package scheduler

import "github.com/jonesrussell/jobcore/internal/sources"

// PaidSearchPlan names which paid-search call (if any) a slot makes, and
// how many quota units it may spend.
type PaidSearchPlan struct {
	Enabled     bool
	SearchType  sources.SearchType
	QuotaBudget int
	GapFillOnly bool // only run if the gap-fill condition at 21:00 holds
}

// SlotPlan is one row of the fixed daily slot table (spec §4.7): which
// hour it runs at, which adapters it touches, and with what scope.
type SlotPlan struct {
	Hour          int
	RunRSS        bool
	RSSPriorities []sources.RSSPriority
	RunGovernment bool
	RunCompany    bool
	PaidSearch    PaidSearchPlan
}

// DefaultSlotTable is the fixed hour table from spec §4.7. Hours run in
// ascending order, strictly sequential (spec §5).
var DefaultSlotTable = []SlotPlan{
	{
		Hour:          0,
		RunRSS:        true,
		RSSPriorities: []sources.RSSPriority{sources.RSSPriorityHigh},
	},
	{
		Hour:          6,
		RunRSS:        true,
		RSSPriorities: []sources.RSSPriority{sources.RSSPriorityHigh, sources.RSSPriorityMedium},
		PaidSearch: PaidSearchPlan{
			Enabled:     true,
			SearchType:  sources.SearchFresh,
			QuotaBudget: 1,
		},
	},
	{
		Hour:          9,
		RunGovernment: true,
		RunCompany:    true,
	},
	{
		Hour:          12,
		RunRSS:        true, // all priorities
		RunGovernment: true,
	},
	{
		Hour:          15,
		RunRSS:        true,
		RSSPriorities: []sources.RSSPriority{sources.RSSPriorityHigh},
		PaidSearch: PaidSearchPlan{
			Enabled:     true,
			SearchType:  sources.SearchExecutive,
			QuotaBudget: 1,
		},
	},
	{
		Hour:          18,
		RunRSS:        true,
		RSSPriorities: []sources.RSSPriority{sources.RSSPriorityHigh, sources.RSSPriorityMedium},
		RunCompany:    true,
	},
	{
		Hour:          21,
		RunRSS:        true,
		RSSPriorities: []sources.RSSPriority{sources.RSSPriorityLow},
		PaidSearch: PaidSearchPlan{
			Enabled:     true,
			SearchType:  sources.SearchGapFill,
			QuotaBudget: 1,
			GapFillOnly: true,
		},
	},
}

// gapFillThreshold is spec §4.7's minimum daily unique-job count below
// which the 21:00 slot's gap-fill paid-search call is triggered.
const gapFillThreshold = 900

// slotAt returns the configured plan for hour, or false if hour isn't one
// of the fixed slots.
func slotAt(hour int) (SlotPlan, bool) {
	for _, s := range DefaultSlotTable {
		if s.Hour == hour {
			return s, true
		}
	}
	return SlotPlan{}, false
}
