package controllers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/danieljstvincent/topthreeclub/internal/pkg/quests"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/usercontext"
)

type questDayRequest struct {
	Quest1Text      *string `json:"quest_1_text" validate:"omitempty,max=255"`
	Quest2Text      *string `json:"quest_2_text" validate:"omitempty,max=255"`
	Quest3Text      *string `json:"quest_3_text" validate:"omitempty,max=255"`
	Quest1Completed *bool   `json:"quest_1_completed"`
	Quest2Completed *bool   `json:"quest_2_completed"`
	Quest3Completed *bool   `json:"quest_3_completed"`
}

func (r questDayRequest) toInput() quests.DayInput {
	return quests.DayInput{
		Quest1Text:      r.Quest1Text,
		Quest2Text:      r.Quest2Text,
		Quest3Text:      r.Quest3Text,
		Quest1Completed: r.Quest1Completed,
		Quest2Completed: r.Quest2Completed,
		Quest3Completed: r.Quest3Completed,
	}
}

// HandleGetToday returns today's quest day, or the empty default when the
// member has not written anything yet.
func HandleGetToday(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	day, err := questService().GetOrDefault(userID, getClock().Today())
	if err != nil {
		log.Printf("quest lookup failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not load quest progress"})
	}
	return c.JSON(questDayResponse(day))
}

// HandleUpsertToday creates or partially updates today's quest day.
// Responds 201 on first write, 200 afterwards; writes against a
// submitted day return the stored state unchanged.
func HandleUpsertToday(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req questDayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}

	day, created, err := questService().Upsert(userID, getClock().Today(), req.toInput())
	if err != nil {
		log.Printf("quest upsert failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not save quest progress"})
	}
	statsService().Invalidate(userID)

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(questDayResponse(day))
}

// HandleLockToday freezes today's quest texts. Idempotent: locking an
// already locked day succeeds.
func HandleLockToday(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	day, err := questService().LockChoices(userID, getClock().Today())
	if err != nil {
		var validationErr *quests.ValidationError
		switch {
		case errors.Is(err, quests.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No quest progress found for today"})
		case errors.As(err, &validationErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": validationErr.Message})
		default:
			log.Printf("quest lock failed for user %d: %v", userID, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not lock choices"})
		}
	}
	return c.JSON(questDayResponse(day))
}

// HandleSubmitToday finalizes today's quest day, once. A repeat submit
// reports the original submission timestamp.
func HandleSubmitToday(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	day, err := questService().Submit(userID, getClock().Today())
	if err != nil {
		var alreadyErr *quests.AlreadySubmittedError
		switch {
		case errors.Is(err, quests.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No quest progress found for today"})
		case errors.As(err, &alreadyErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":        "already_submitted",
				"message":      "You have already submitted today",
				"submitted":    true,
				"submitted_at": formatTimePtr(alreadyErr.SubmittedAt),
			})
		default:
			log.Printf("quest submit failed for user %d: %v", userID, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not submit quest progress"})
		}
	}
	statsService().Invalidate(userID)

	return c.JSON(fiber.Map{
		"message": "Successfully submitted!",
		"data":    questDayResponse(day),
	})
}

// HandleHistory returns the member's full quest history, oldest first,
// for the heatmap view.
func HandleHistory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	days, err := questService().History(userID)
	if err != nil {
		log.Printf("quest history failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not load quest history"})
	}

	responses := make([]fiber.Map, 0, len(days))
	for i := range days {
		responses = append(responses, questDayResponse(&days[i]))
	}
	return c.JSON(responses)
}

type syncItemRequest struct {
	Date string `json:"date"`
	questDayRequest
}

// HandleBulkSync applies a client-side batch of quest days. Accepts a
// JSON array or a single object; items without parsable dates are
// skipped, never the whole batch.
func HandleBulkSync(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var reqItems []syncItemRequest
	if err := json.Unmarshal(c.Body(), &reqItems); err != nil {
		var single syncItemRequest
		if err := json.Unmarshal(c.Body(), &single); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
		}
		reqItems = []syncItemRequest{single}
	}

	items := make([]quests.SyncItem, 0, len(reqItems))
	for _, req := range reqItems {
		items = append(items, quests.SyncItem{Date: req.Date, DayInput: req.toInput()})
	}

	result, err := questService().BulkSync(userID, items)
	if err != nil {
		log.Printf("quest bulk sync failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not sync quest progress"})
	}
	statsService().Invalidate(userID)

	return c.JSON(fiber.Map{
		"synced_count":  result.Synced,
		"skipped_count": result.Skipped,
	})
}

// HandleStats returns the streak / total XP / momentum hours triple.
func HandleStats(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	summary, err := statsService().Summary(userID)
	if err != nil {
		log.Printf("stats failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not compute statistics"})
	}
	return c.JSON(summary)
}
