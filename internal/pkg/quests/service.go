package quests

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/danieljstvincent/topthreeclub/app/models"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/clock"
)

// Service owns the per-day quest record lifecycle: lazy creation, partial
// updates, the choices-locked latch and the terminal submit latch. All
// guard logic for the two latches lives here, not at call sites.
type Service struct {
	repo Repository
	clk  clock.Clock
}

// NewService creates a quest service from an injected repository and clock.
func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// NewServiceFromDB creates a quest service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, clk clock.Clock) *Service {
	return NewService(NewRepository(db), clk)
}

// GetOrDefault returns the stored quest day for the date, or a zero-valued
// transient view when none exists yet. The view is not persisted.
func (s *Service) GetOrDefault(userID uint, date time.Time) (*models.QuestDay, error) {
	date = clock.Midnight(date)
	day, err := s.repo.Find(userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.QuestDay{UserID: userID, Date: date}, nil
		}
		return nil, err
	}
	return day, nil
}

// Upsert creates the day on first write or applies a partial update to an
// existing one. Updates against a submitted day are silently ignored and
// the stored state is returned unchanged. The second return value reports
// whether the record was newly created.
func (s *Service) Upsert(userID uint, date time.Time, in DayInput) (*models.QuestDay, bool, error) {
	date = clock.Midnight(date)

	var result *models.QuestDay
	created := false
	err := s.repo.Transaction(func(tx Repository) error {
		day, err := tx.FindForUpdate(userID, date)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			day = &models.QuestDay{UserID: userID, Date: date}
			applyInput(day, in)
			if err := tx.Create(day); err != nil {
				return err
			}
			created = true
			result = day
			return nil
		}

		// Submitted days are terminal: report current state, change nothing.
		if day.Submitted {
			result = day
			return nil
		}

		applyInput(day, in)
		if err := tx.Save(day); err != nil {
			return err
		}
		result = day
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// LockChoices freezes the day's quest texts. It requires all three texts
// to be non-empty after trimming and is idempotent: locking an already
// locked day succeeds without touching the record.
func (s *Service) LockChoices(userID uint, date time.Time) (*models.QuestDay, error) {
	date = clock.Midnight(date)

	var result *models.QuestDay
	err := s.repo.Transaction(func(tx Repository) error {
		day, err := tx.FindForUpdate(userID, date)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if day.ChoicesLocked {
			result = day
			return nil
		}
		if !day.HasAllTexts() {
			return &ValidationError{Message: "all three quests must be set before locking choices"}
		}
		now := s.clk.Now()
		day.ChoicesLocked = true
		day.ChoicesLockedAt = &now
		if err := tx.Save(day); err != nil {
			return err
		}
		result = day
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Submit finalizes the day. The flip runs as a conditional update so two
// concurrent submits produce exactly one success; the loser receives an
// AlreadySubmittedError carrying the winning timestamp.
func (s *Service) Submit(userID uint, date time.Time) (*models.QuestDay, error) {
	date = clock.Midnight(date)

	submitted, err := s.repo.MarkSubmitted(userID, date, s.clk.Now())
	if err != nil {
		return nil, err
	}

	day, err := s.repo.Find(userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !submitted {
		return nil, &AlreadySubmittedError{SubmittedAt: day.SubmittedAt}
	}
	return day, nil
}

// History returns the user's full quest day history ordered by date.
func (s *Service) History(userID uint) ([]models.QuestDay, error) {
	return s.repo.ListByUser(userID)
}

// BulkSync applies upsert semantics to each item independently. Items
// without a parsable date are counted as skipped; no item aborts the
// batch, and re-applying the same payload is safe.
func (s *Service) BulkSync(userID uint, items []SyncItem) (SyncResult, error) {
	var result SyncResult
	for _, item := range items {
		date, err := time.Parse(dateLayout, item.Date)
		if err != nil {
			result.Skipped++
			continue
		}
		if _, _, err := s.Upsert(userID, date, item.DayInput); err != nil {
			result.Skipped++
			continue
		}
		result.Synced++
	}
	return result, nil
}

// applyInput copies the supplied fields onto the day. Texts are dropped
// once choices are locked; completion flags stay mutable until submit.
func applyInput(day *models.QuestDay, in DayInput) {
	if !day.ChoicesLocked {
		if in.Quest1Text != nil {
			day.Quest1Text = *in.Quest1Text
		}
		if in.Quest2Text != nil {
			day.Quest2Text = *in.Quest2Text
		}
		if in.Quest3Text != nil {
			day.Quest3Text = *in.Quest3Text
		}
	}
	if in.Quest1Completed != nil {
		day.Quest1Completed = *in.Quest1Completed
	}
	if in.Quest2Completed != nil {
		day.Quest2Completed = *in.Quest2Completed
	}
	if in.Quest3Completed != nil {
		day.Quest3Completed = *in.Quest3Completed
	}
}
