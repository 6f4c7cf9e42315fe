package billing

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

// Service reconciles provider billing state into the local subscription
// table. Webhook handlers fully overwrite the fields they own, so
// at-least-once delivery and replays converge on the same end state
// without a dedup table.
type Service struct {
	repo    Repository
	gateway Gateway
}

// NewService creates a billing service from an injected repository and gateway.
func NewService(repo Repository, gateway Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway Gateway) *Service {
	return NewService(NewRepository(db), gateway)
}

// GetSubscription returns the user's subscription, or a transient free
// default when no billing interaction has happened yet.
func (s *Service) GetSubscription(userID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Subscription{
				UserID: userID,
				Tier:   models.SubscriptionTierFree,
				Status: models.SubscriptionStatusActive,
			}, nil
		}
		return nil, err
	}
	return sub, nil
}

// GetOrCreateCustomer resolves the user's provider customer reference,
// creating the customer (and the local free subscription row) on first use.
func (s *Service) GetOrCreateCustomer(ctx context.Context, user *models.User) (string, error) {
	sub, err := s.repo.GetOrCreateByUser(user.ID)
	if err != nil {
		return "", err
	}
	if sub.StripeCustomerID != "" {
		return sub.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, user.ID, user.Email, user.Name)
	if err != nil {
		return "", err
	}
	sub.StripeCustomerID = customerID
	if err := s.repo.Save(sub); err != nil {
		return "", err
	}
	return customerID, nil
}

// CreateCheckoutSession opens a provider checkout for the premium plan on
// the given interval and returns the hosted URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, user *models.User, interval, successURL, cancelURL string) (string, error) {
	customerID, err := s.GetOrCreateCustomer(ctx, user)
	if err != nil {
		return "", err
	}
	return s.gateway.CreateCheckoutSession(ctx, customerID, interval, successURL, cancelURL)
}

// CancelSubscription cancels at the provider first, then reverts the
// local row to free/canceled and clears the subscription reference.
func (s *Service) CancelSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	if sub.StripeSubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	if err := s.gateway.CancelSubscription(ctx, sub.StripeSubscriptionID); err != nil {
		return nil, err
	}

	sub.Tier = models.SubscriptionTierFree
	sub.Status = models.SubscriptionStatusCanceled
	sub.StripeSubscriptionID = ""
	if err := s.repo.Save(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// HandleWebhook verifies and applies one provider event. Verification
// failures surface as ErrInvalidSignature/ErrInvalidPayload with no
// mutation, so the provider's retry policy redelivers. The returned
// string is the event kind, for access logs.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (string, error) {
	event, err := s.gateway.ConstructEvent(payload, signatureHeader)
	if err != nil {
		return "", err
	}

	switch event.Kind {
	case EventCheckoutCompleted:
		err = s.handleCheckoutCompleted(ctx, event)
	case EventSubscriptionUpdated:
		err = s.handleSubscriptionUpdated(event)
	case EventSubscriptionDeleted:
		err = s.handleSubscriptionDeleted(event)
	default:
		// Unsubscribed event kinds are acknowledged so the provider
		// stops redelivering them.
	}
	return event.Kind, err
}

// handleCheckoutCompleted attaches the new provider subscription to the
// local row looked up by customer reference and promotes it to premium,
// with period bounds and interval fetched authoritatively from the
// gateway rather than trusted from the session payload.
func (s *Service) handleCheckoutCompleted(ctx context.Context, event Event) error {
	sub, err := s.repo.GetByCustomerID(event.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing: checkout completed for unknown customer %q, dropping", event.CustomerID)
			return nil
		}
		return err
	}

	sub.StripeSubscriptionID = event.SubscriptionID
	sub.Tier = models.SubscriptionTierPremium
	sub.Status = models.SubscriptionStatusActive

	info, err := s.gateway.RetrieveSubscription(ctx, event.SubscriptionID)
	if err != nil {
		return err
	}
	start := info.CurrentPeriodStart
	end := info.CurrentPeriodEnd
	sub.CurrentPeriodStart = &start
	sub.CurrentPeriodEnd = &end
	sub.BillingInterval = intervalFromProvider(info.Interval)

	return s.repo.Save(sub)
}

func (s *Service) handleSubscriptionUpdated(event Event) error {
	sub, err := s.repo.GetBySubscriptionID(event.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("billing: update for unknown subscription %q, dropping", event.SubscriptionID)
			return nil
		}
		return err
	}

	sub.Status = statusFromProvider(event.Status)
	if event.CurrentPeriodStart != nil {
		sub.CurrentPeriodStart = event.CurrentPeriodStart
	}
	if event.CurrentPeriodEnd != nil {
		sub.CurrentPeriodEnd = event.CurrentPeriodEnd
	}

	return s.repo.Save(sub)
}

func (s *Service) handleSubscriptionDeleted(event Event) error {
	sub, err := s.repo.GetBySubscriptionID(event.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Replays after the reference was cleared land here; the end
			// state is already what this handler would produce.
			log.Printf("billing: delete for unknown subscription %q, dropping", event.SubscriptionID)
			return nil
		}
		return err
	}

	sub.Tier = models.SubscriptionTierFree
	sub.Status = models.SubscriptionStatusCanceled
	sub.StripeSubscriptionID = ""

	return s.repo.Save(sub)
}
