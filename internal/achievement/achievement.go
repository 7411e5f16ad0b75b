package achievement

import (
	"sort"
	"time"

	"amalTrackerAPI/internal/checklist"
	"amalTrackerAPI/internal/record"
)

// Badge identifiers.
const (
	Consistent    = "consistent"
	Reader        = "reader"
	Athlete       = "athlete"
	Perfectionist = "perfectionist"
	EarlyBird     = "early_bird"
)

// Canonical targets. The client iterated through several values over time;
// these are the ones the latest revision shipped with.
const (
	ConsistentTarget    = 30
	ReaderTarget        = 20000
	AthleteTarget       = 100
	PerfectionistTarget = 30
	EarlyBirdTarget     = 21
)

// Definition is one badge's static description.
type Definition struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Target      float64 `json:"target"`
}

// Definitions returns the fixed badge catalogue in display order.
func Definitions() []Definition {
	return []Definition{
		{ID: Consistent, Title: "Doimiy faol", Description: "30 kun har kuni faol", Target: ConsistentTarget},
		{ID: Reader, Title: "Kitobxon", Description: "20,000 bet kitob o'qish", Target: ReaderTarget},
		{ID: Athlete, Title: "Sportchi", Description: "100 km yugurish", Target: AthleteTarget},
		{ID: Perfectionist, Title: "Olov", Description: "Ketma-ket 30 kun 100%", Target: PerfectionistTarget},
		{ID: EarlyBird, Title: "Uyg'oq", Description: "Ketma-ket 21 kun erta turish", Target: EarlyBirdTarget},
	}
}

// Progress is one badge's state for one user. Current is the live counter
// (streak badges reset on a gap day); Unlocked compares the best value ever
// reached against the target, so it never flips back as history grows.
type Progress struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
	Unlocked    bool    `json:"unlocked"`
}

// Streaks holds the two streak counters derived from history.
type Streaks struct {
	CurrentPerfect   int
	LongestPerfect   int
	CurrentEarlyRise int
	LongestEarlyRise int
}

func perfectDay(r *record.DailyRecord) bool {
	return r.Points == checklist.TaskCount
}

func earlyRiseDay(r *record.DailyRecord) bool {
	return r.Completion[checklist.EarlyRiseID-1]
}

// ComputeStreaks scans the history once per predicate. A streak is strictly
// consecutive calendar days; any gap day, or a day whose record fails the
// predicate, breaks it. The current counter tolerates asOf itself having no
// record yet (the day is still undecided), but a stored non-qualifying record
// on asOf resets it to zero.
func ComputeStreaks(records []record.DailyRecord, asOf time.Time) Streaks {
	sorted := make([]record.DailyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day().Before(sorted[j].Day()) })

	return Streaks{
		CurrentPerfect:   currentStreak(sorted, asOf, perfectDay),
		LongestPerfect:   longestStreak(sorted, perfectDay),
		CurrentEarlyRise: currentStreak(sorted, asOf, earlyRiseDay),
		LongestEarlyRise: longestStreak(sorted, earlyRiseDay),
	}
}

func longestStreak(sorted []record.DailyRecord, qualifies func(*record.DailyRecord) bool) int {
	longest, run := 0, 0
	var prev time.Time
	for i := range sorted {
		if !qualifies(&sorted[i]) {
			run = 0
			continue
		}
		day := sorted[i].Day()
		if run > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		prev = day
		if run > longest {
			longest = run
		}
	}
	return longest
}

func currentStreak(sorted []record.DailyRecord, asOf time.Time, qualifies func(*record.DailyRecord) bool) int {
	day := record.Midnight(asOf)

	// A record stored for asOf decides the day; no record means the day is
	// still open and the streak is measured through yesterday.
	if i := indexOfDay(sorted, day); i >= 0 {
		if !qualifies(&sorted[i]) {
			return 0
		}
	} else {
		day = day.AddDate(0, 0, -1)
	}

	run := 0
	for {
		i := indexOfDay(sorted, day)
		if i < 0 || !qualifies(&sorted[i]) {
			return run
		}
		run++
		day = day.AddDate(0, 0, -1)
	}
}

func indexOfDay(sorted []record.DailyRecord, day time.Time) int {
	i := sort.Search(len(sorted), func(i int) bool { return !sorted[i].Day().Before(day) })
	if i < len(sorted) && sorted[i].Day().Equal(day) {
		return i
	}
	return -1
}

// Totals are the lifetime counters the threshold badges compare against.
type Totals struct {
	ActiveDays    int
	TotalPages    int
	TotalDistance float64
}

// Evaluate derives every badge's progress from a user's full history. Badges
// are recomputed from the records each time rather than incrementally
// mutated, so stored counters can never drift from the source of truth.
func Evaluate(records []record.DailyRecord, asOf time.Time) []Progress {
	totals := Totals{}
	for i := range records {
		if records[i].Points > 0 {
			totals.ActiveDays++
		}
		totals.TotalPages += records[i].PagesRead
		totals.TotalDistance += records[i].DistanceKm
	}
	streaks := ComputeStreaks(records, asOf)

	out := make([]Progress, 0, 5)
	for _, def := range Definitions() {
		p := Progress{ID: def.ID, Title: def.Title, Description: def.Description, Target: def.Target}
		switch def.ID {
		case Consistent:
			p.Current = float64(totals.ActiveDays)
			p.Unlocked = p.Current >= p.Target
		case Reader:
			p.Current = float64(totals.TotalPages)
			p.Unlocked = p.Current >= p.Target
		case Athlete:
			p.Current = totals.TotalDistance
			p.Unlocked = p.Current >= p.Target
		case Perfectionist:
			p.Current = float64(streaks.CurrentPerfect)
			p.Unlocked = float64(streaks.LongestPerfect) >= p.Target
		case EarlyBird:
			p.Current = float64(streaks.CurrentEarlyRise)
			p.Unlocked = float64(streaks.LongestEarlyRise) >= p.Target
		}
		out = append(out, p)
	}
	return out
}

// Unlocked filters Evaluate down to the badge ids a leaderboard entry shows.
func Unlocked(progress []Progress) []string {
	ids := make([]string, 0, len(progress))
	for _, p := range progress {
		if p.Unlocked {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// UnlockedFromCounters derives the badge id set from pre-aggregated counters,
// used by the leaderboard query which computes longest streaks in SQL.
func UnlockedFromCounters(totals Totals, longestPerfect, longestEarlyRise int) []string {
	ids := make([]string, 0, 5)
	if totals.ActiveDays >= ConsistentTarget {
		ids = append(ids, Consistent)
	}
	if totals.TotalPages >= ReaderTarget {
		ids = append(ids, Reader)
	}
	if totals.TotalDistance >= AthleteTarget {
		ids = append(ids, Athlete)
	}
	if longestPerfect >= PerfectionistTarget {
		ids = append(ids, Perfectionist)
	}
	if longestEarlyRise >= EarlyBirdTarget {
		ids = append(ids, EarlyBird)
	}
	return ids
}
