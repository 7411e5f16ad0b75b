package checklist

import "fmt"

// TaskCount is the size of the fixed daily task menu.
const TaskCount = 10

// Metered task ids and their configured minimums.
const (
	ReadingTaskID  = 5
	EarlyRiseID    = 9
	DistanceTaskID = 10

	MinPagesRead  = 10
	MinDistanceKm = 0.1
)

// Task describes one entry of the fixed daily menu.
type Task struct {
	ID          int     `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Metered     bool    `json:"metered"`
	Unit        string  `json:"unit,omitempty"`
	Minimum     float64 `json:"minimum,omitempty"`
}

var tasks = [TaskCount]Task{
	{ID: 1, Slug: "daily_devotion", Title: "Kunlik vird", Description: "Zikr, Qur'on tilovati, ibodat"},
	{ID: 2, Slug: "family_ties", Title: "Silai rahm", Description: "Ota-ona va qarindoshlar bilan aloqa"},
	{ID: 3, Slug: "quran_listening", Title: "Qur'on tinglash", Description: "Kamida 1/114 qism"},
	{ID: 4, Slug: "charity", Title: "Ehson qilish", Description: "1000 so'mdan ko'p"},
	{ID: 5, Slug: "book_reading", Title: "Kitob o'qish", Description: "Kamida 10 bet", Metered: true, Unit: "bet", Minimum: MinPagesRead},
	{ID: 6, Slug: "lesson", Title: "Dars/Kurs", Description: "Ta'lim kursi yoki dars"},
	{ID: 7, Slug: "audiobook", Title: "Audio kitob", Description: "Kamida 30 daqiqa"},
	{ID: 8, Slug: "early_sleep", Title: "Erta uxlash", Description: "21:00 - 23:00 orasida"},
	{ID: 9, Slug: "early_rise", Title: "Erta turish", Description: "03:00 - 06:00 orasida"},
	{ID: 10, Slug: "sport", Title: "Sport/Mashqlar", Description: "Yugurish yoki mashqlar", Metered: true, Unit: "km", Minimum: MinDistanceKm},
}

// Tasks returns the fixed daily task menu in id order.
func Tasks() []Task {
	out := make([]Task, TaskCount)
	copy(out, tasks[:])
	return out
}

// Validation error codes.
const (
	CodeUnknownTaskID      = "unknown_task_id"
	CodeInvalidMeasurement = "invalid_measurement"
)

// ValidationError rejects a submitted checklist before any state is touched.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func unknownTask(id int) *ValidationError {
	return &ValidationError{
		Code:    CodeUnknownTaskID,
		Message: fmt.Sprintf("task id %d is outside 1..%d", id, TaskCount),
	}
}

func invalidMeasurement(field, message string) *ValidationError {
	return &ValidationError{Code: CodeInvalidMeasurement, Field: field, Message: message}
}

// Checklist is a validated day's submission.
type Checklist struct {
	Completion [TaskCount]bool
	PagesRead  int
	DistanceKm float64
}

// Points counts the completed tasks, always within [0,10].
func (c *Checklist) Points() int {
	points := 0
	for _, done := range c.Completion {
		if done {
			points++
		}
	}
	return points
}

// ValidateSubmission checks a raw task-id -> completed map plus the two
// measurements and returns a normalized checklist. Measurements belonging to
// unchecked tasks are forced to zero so stale client values can never inflate
// totals.
func ValidateSubmission(completed map[int]bool, pagesRead float64, distanceKm float64) (*Checklist, error) {
	cl := &Checklist{}

	for id, done := range completed {
		if id < 1 || id > TaskCount {
			return nil, unknownTask(id)
		}
		cl.Completion[id-1] = done
	}

	if cl.Completion[ReadingTaskID-1] {
		if pagesRead != float64(int(pagesRead)) {
			return nil, invalidMeasurement("pages_read", "pages read must be a whole number")
		}
		if pagesRead < MinPagesRead {
			return nil, invalidMeasurement("pages_read",
				fmt.Sprintf("pages read must be at least %d when the reading task is completed", MinPagesRead))
		}
		cl.PagesRead = int(pagesRead)
	}

	if cl.Completion[DistanceTaskID-1] {
		if distanceKm < MinDistanceKm {
			return nil, invalidMeasurement("distance_km",
				fmt.Sprintf("distance must be at least %.1f km when the sport task is completed", MinDistanceKm))
		}
		cl.DistanceKm = distanceKm
	}

	return cl, nil
}
