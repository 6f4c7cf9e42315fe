package billing

import (
	"errors"

	"gorm.io/gorm"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetByUser(userID uint) (*models.Subscription, error)
	GetOrCreateByUser(userID uint) (*models.Subscription, error)
	GetByCustomerID(customerID string) (*models.Subscription, error)
	GetBySubscriptionID(subscriptionID string) (*models.Subscription, error)
	Save(sub *models.Subscription) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetOrCreateByUser returns the user's subscription row, creating the
// default free row on the first billing interaction.
func (r *gormRepository) GetOrCreateByUser(userID uint) (*models.Subscription, error) {
	sub, err := r.GetByUser(userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := models.Subscription{
		UserID: userID,
		Tier:   models.SubscriptionTierFree,
		Status: models.SubscriptionStatusActive,
	}
	if err := r.db.Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *gormRepository) GetByCustomerID(customerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) GetBySubscriptionID(subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("stripe_subscription_id = ? AND stripe_subscription_id <> ''", subscriptionID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) Save(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}
