package sources

// PortalSelectors names the CSS selectors a Government-Portal or
// Company-Page config uses to walk a listings page, mirroring the
// teacher's DefaultArticleSelector/DefaultTitleSelector constant-table
// style (internal/collector/selectors.go) but sourced from config
// instead of hard-coded defaults.
type PortalSelectors struct {
	Listing  string // container per job row
	Title    string
	Level    string // numeric grade/level field (government only)
	Link     string
	Location string
}

// Portal describes one government portal configured per spec §4.4.2.
type Portal struct {
	Name        string
	BaseURL     string
	ListingsURL string
	Selectors   PortalSelectors
}

// Employer describes one company career page configured per spec §4.4.4.
type Employer struct {
	ID        string
	Name      string
	CareerURL string
	Selectors PortalSelectors
}

// governmentBenefits is the fixed benefits list attached to every
// Government-Portal job, per spec §4.4.2.
var governmentBenefits = []string{
	"medical aid", "pension fund", "housing allowance", "13th cheque", "annual leave",
}

// gradeRange is one row of the level/grade -> salary lookup table.
type gradeRange struct {
	minLevel, maxLevel int
	salaryMin          float64
	salaryMax          float64
}

// gradeSalaryTable is the fixed lookup table from spec §4.4.2.
var gradeSalaryTable = []gradeRange{
	{1, 3, 100000, 200000},
	{4, 6, 200000, 400000},
	{7, 9, 400000, 700000},
	{10, 12, 700000, 1200000},
	{13, 15, 1200000, 2000000},
	{16, 16, 2000000, 3000000},
}

// salaryForGrade returns the ZAR range for a numeric level/grade, or
// (0, 0, false) if the grade is outside the table.
func salaryForGrade(grade int) (min, max float64, ok bool) {
	for _, r := range gradeSalaryTable {
		if grade >= r.minLevel && grade <= r.maxLevel {
			return r.salaryMin, r.salaryMax, true
		}
	}
	return 0, 0, false
}
