package quests

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

const dateLayout = "2006-01-02"

// Repository provides the DB operations used by the quest service.
type Repository interface {
	Find(userID uint, date time.Time) (*models.QuestDay, error)
	FindForUpdate(userID uint, date time.Time) (*models.QuestDay, error)
	ListByUser(userID uint) ([]models.QuestDay, error)
	Create(day *models.QuestDay) error
	Save(day *models.QuestDay) error
	// MarkSubmitted flips the submitted latch with a conditional update so
	// that concurrent submits for the same day yield exactly one success.
	MarkSubmitted(userID uint, date time.Time, at time.Time) (bool, error)
	Transaction(fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a quest repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Find(userID uint, date time.Time) (*models.QuestDay, error) {
	var day models.QuestDay
	err := r.db.
		Where("user_id = ? AND date = ?", userID, date.Format(dateLayout)).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *gormRepository) FindForUpdate(userID uint, date time.Time) (*models.QuestDay, error) {
	var day models.QuestDay
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND date = ?", userID, date.Format(dateLayout)).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *gormRepository) ListByUser(userID uint) ([]models.QuestDay, error) {
	var days []models.QuestDay
	err := r.db.
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

func (r *gormRepository) Create(day *models.QuestDay) error {
	return r.db.Create(day).Error
}

func (r *gormRepository) Save(day *models.QuestDay) error {
	return r.db.Save(day).Error
}

func (r *gormRepository) MarkSubmitted(userID uint, date time.Time, at time.Time) (bool, error) {
	tx := r.db.Model(&models.QuestDay{}).
		Where("user_id = ? AND date = ? AND submitted = ?", userID, date.Format(dateLayout), false).
		Updates(map[string]interface{}{
			"submitted":    true,
			"submitted_at": at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
