package controllers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/danieljstvincent/topthreeclub/app/models"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/clock"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/database"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/quests"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/stats"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// appClock is the process-wide clock; swapped for a fixed clock in tests.
var appClock clock.Clock

func getClock() clock.Clock {
	if appClock == nil {
		appClock = clock.NewSystemClock()
	}
	return appClock
}

func questService() *quests.Service {
	return quests.NewServiceFromDB(database.GetDB(), getClock())
}

func statsService() *stats.Service {
	return stats.NewServiceFromDB(database.GetDB(), getClock())
}

// questDayResponse renders a quest day with the date as a plain calendar
// date rather than an RFC3339 instant.
func questDayResponse(day *models.QuestDay) fiber.Map {
	return fiber.Map{
		"id":                day.ID,
		"date":              day.Date.Format(dateLayout),
		"quest_1_text":      day.Quest1Text,
		"quest_2_text":      day.Quest2Text,
		"quest_3_text":      day.Quest3Text,
		"quest_1_completed": day.Quest1Completed,
		"quest_2_completed": day.Quest2Completed,
		"quest_3_completed": day.Quest3Completed,
		"submitted":         day.Submitted,
		"submitted_at":      formatTimePtr(day.SubmittedAt),
		"choices_locked":    day.ChoicesLocked,
		"choices_locked_at": formatTimePtr(day.ChoicesLockedAt),
		"created_at":        day.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":        day.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
