package stats

import (
	"testing"
	"time"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

func day(date string, completed int) models.QuestDay {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.QuestDay{
		UserID:          1,
		Date:            d,
		Quest1Text:      "a",
		Quest2Text:      "b",
		Quest3Text:      "c",
		Quest1Completed: completed >= 1,
		Quest2Completed: completed >= 2,
		Quest3Completed: completed >= 3,
	}
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeStreakAndMomentum(t *testing.T) {
	history := []models.QuestDay{
		day("2025-06-08", 3),
		day("2025-06-09", 3),
		day("2025-06-10", 3),
	}
	today := mustDate("2025-06-10")
	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	got := Compute(history, today, now)

	if got.Streak != 3 {
		t.Fatalf("Streak = %d, want 3", got.Streak)
	}
	if got.TotalXP != 9 {
		t.Fatalf("TotalXP = %d, want 9", got.TotalXP)
	}
	// 2025-06-08T00:00 to 2025-06-10T14:00 is 62 whole hours.
	if got.MomentumHours != 62 {
		t.Fatalf("MomentumHours = %d, want 62", got.MomentumHours)
	}
}

func TestComputePartialDayBreaksStreakButCountsXP(t *testing.T) {
	history := []models.QuestDay{
		day("2025-06-08", 3),
		day("2025-06-09", 2),
		day("2025-06-10", 3),
	}
	got := Compute(history, mustDate("2025-06-10"), time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))

	if got.Streak != 1 {
		t.Fatalf("Streak = %d, want 1", got.Streak)
	}
	if got.TotalXP != 8 {
		t.Fatalf("TotalXP = %d, want 8", got.TotalXP)
	}
	if got.MomentumHours != 14 {
		t.Fatalf("MomentumHours = %d, want 14", got.MomentumHours)
	}
}

func TestComputeGapBreaksStreak(t *testing.T) {
	history := []models.QuestDay{
		day("2025-06-07", 3),
		day("2025-06-08", 3),
		// 2025-06-09 missing entirely
		day("2025-06-10", 3),
	}
	got := Compute(history, mustDate("2025-06-10"), time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC))

	if got.Streak != 1 {
		t.Fatalf("Streak = %d, want 1", got.Streak)
	}
	if got.TotalXP != 9 {
		t.Fatalf("TotalXP = %d, want 9", got.TotalXP)
	}
}

func TestComputeNoStreakToday(t *testing.T) {
	history := []models.QuestDay{
		day("2025-06-08", 3),
		day("2025-06-09", 3),
	}
	got := Compute(history, mustDate("2025-06-10"), time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))

	if got.Streak != 0 {
		t.Fatalf("Streak = %d, want 0", got.Streak)
	}
	if got.MomentumHours != 0 {
		t.Fatalf("MomentumHours = %d, want 0 when there is no streak", got.MomentumHours)
	}
}

func TestComputeEmptyHistory(t *testing.T) {
	got := Compute(nil, mustDate("2025-06-10"), time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))

	if got != (Summary{}) {
		t.Fatalf("Compute(nil) = %+v, want zero summary", got)
	}
}

func TestComputeStreakLookbackCap(t *testing.T) {
	today := mustDate("2025-06-10")
	var history []models.QuestDay
	for i := 0; i < MaxStreakLookback+30; i++ {
		history = append(history, day(today.AddDate(0, 0, -i).Format("2006-01-02"), 3))
	}

	got := Compute(history, today, time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC))

	if got.Streak != MaxStreakLookback {
		t.Fatalf("Streak = %d, want cap %d", got.Streak, MaxStreakLookback)
	}
}
