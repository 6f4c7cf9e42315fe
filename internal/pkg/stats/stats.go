package stats

import (
	"time"

	"github.com/danieljstvincent/topthreeclub/app/models"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/clock"
)

// MaxStreakLookback caps the backward streak walk at one year. A streak is
// never reported longer than this even if the true history is longer; the
// cap is a deliberate, observable limit inherited from the product.
const MaxStreakLookback = 365

const dateLayout = "2006-01-02"

// Summary is the derived per-user statistics triple.
type Summary struct {
	Streak        int `json:"streak"`
	TotalXP       int `json:"total_xp"`
	MomentumHours int `json:"momentum_hours"`
}

// Compute derives the summary from a full quest day history. It is a pure
// function of (history, today, now): identical inputs always yield the
// same output, and the history is never mutated.
//
// TotalXP sums completed slots over every record regardless of gaps.
// Streak counts consecutive days ending at today whose record has all
// three slots complete; the walk stops at the first missing or partial
// day. MomentumHours is the whole-hour span from local midnight of the
// streak's first day to now, or 0 when there is no streak.
func Compute(history []models.QuestDay, today, now time.Time) Summary {
	byDate := make(map[string]*models.QuestDay, len(history))
	var summary Summary
	for i := range history {
		day := &history[i]
		summary.TotalXP += day.CompletedCount()
		byDate[day.Date.Format(dateLayout)] = day
	}

	today = clock.Midnight(today)
	for i := 0; i < MaxStreakLookback; i++ {
		day, ok := byDate[today.AddDate(0, 0, -i).Format(dateLayout)]
		if !ok || !day.AllCompleted() {
			break
		}
		summary.Streak++
	}

	if summary.Streak > 0 {
		streakStart := today.AddDate(0, 0, -(summary.Streak - 1))
		summary.MomentumHours = int(now.Sub(streakStart).Hours())
		if summary.MomentumHours < 0 {
			summary.MomentumHours = 0
		}
	}

	return summary
}
