// Package achievements defines the static badges a learner can earn and
// evaluates them against a snapshot of the learner's statistics.
package achievements

// Stats is the per-user snapshot achievements are evaluated against.
type Stats struct {
	GuidesCompleted int
	CoreComplete    bool
	CurrentStreak   int
	LongestStreak   int
	NotesCreated    int
	TasksCompleted  int
}

// Achievement is a static badge definition.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Threshold   int    `json:"threshold"`

	measure func(Stats) int
}

// Status is an achievement evaluated for one user.
type Status struct {
	Achievement
	Current  int  `json:"current"`
	Unlocked bool `json:"unlocked"`
	Percent  int  `json:"percent"`
}

func guides(s Stats) int { return s.GuidesCompleted }
func streak(s Stats) int { return max(s.CurrentStreak, s.LongestStreak) }
func notes(s Stats) int  { return s.NotesCreated }
func tasks(s Stats) int  { return s.TasksCompleted }

func core(s Stats) int {
	if s.CoreComplete {
		return 1
	}
	return 0
}

var all = []Achievement{
	{ID: "first-guide", Title: "צעד ראשון", Description: "השלמת המדריך הראשון", Icon: "footprints", Threshold: 1, measure: guides},
	{ID: "five-guides", Title: "לומד מתמיד", Description: "השלמת 5 מדריכים", Icon: "book-open", Threshold: 5, measure: guides},
	{ID: "ten-guides", Title: "חוקר ידע", Description: "השלמת 10 מדריכים", Icon: "library", Threshold: 10, measure: guides},
	{ID: "core-complete", Title: "יסודות איתנים", Description: "השלמת כל מדריכי הליבה", Icon: "shield-check", Threshold: 1, measure: core},
	{ID: "streak-3", Title: "שלושה ברצף", Description: "פעילות 3 ימים ברציפות", Icon: "flame", Threshold: 3, measure: streak},
	{ID: "streak-7", Title: "שבוע מלא", Description: "פעילות 7 ימים ברציפות", Icon: "flame", Threshold: 7, measure: streak},
	{ID: "streak-30", Title: "חודש של למידה", Description: "פעילות 30 ימים ברציפות", Icon: "trophy", Threshold: 30, measure: streak},
	{ID: "first-note", Title: "רושם הערות", Description: "יצירת ההערה הראשונה", Icon: "pencil", Threshold: 1, measure: notes},
	{ID: "ten-notes", Title: "ארכיונאי", Description: "יצירת 10 הערות", Icon: "notebook", Threshold: 10, measure: notes},
	{ID: "ten-tasks", Title: "מבצע", Description: "השלמת 10 משימות", Icon: "check-circle", Threshold: 10, measure: tasks},
}

// All returns the achievement definitions in display order.
func All() []Achievement {
	out := make([]Achievement, len(all))
	copy(out, all)
	return out
}

// Evaluate returns every achievement with the user's progress toward it.
func Evaluate(s Stats) []Status {
	out := make([]Status, 0, len(all))
	for _, a := range all {
		cur := a.measure(s)
		pct := 100
		if cur < a.Threshold {
			pct = cur * 100 / a.Threshold
		}
		out = append(out, Status{
			Achievement: a,
			Current:     cur,
			Unlocked:    cur >= a.Threshold,
			Percent:     pct,
		})
	}
	return out
}

// Unlocked counts unlocked statuses.
func Unlocked(statuses []Status) int {
	n := 0
	for _, s := range statuses {
		if s.Unlocked {
			n++
		}
	}
	return n
}
