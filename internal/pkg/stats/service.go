package stats

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/danieljstvincent/topthreeclub/internal/pkg/cache"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/clock"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/quests"
)

const (
	cacheKeyUserSummary = "stats:summary:user:%d"
	cacheExpiration     = 5 * time.Minute
)

// Service loads a user's history and computes the summary, memoizing the
// result in the cache for a short window. Quest writes must call
// Invalidate so stale summaries never outlive a mutation.
type Service struct {
	repo quests.Repository
	clk  clock.Clock
}

// NewService creates a stats service from an injected repository and clock.
func NewService(repo quests.Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clk: clk}
}

// NewServiceFromDB creates a stats service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, clk clock.Clock) *Service {
	return NewService(quests.NewRepository(db), clk)
}

// Summary returns the user's streak/XP/momentum triple, served from cache
// when fresh.
func (s *Service) Summary(userID uint) (Summary, error) {
	key := fmt.Sprintf(cacheKeyUserSummary, userID)
	if cached, err := cache.Get(key); err == nil {
		var summary Summary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return summary, nil
		}
	}

	history, err := s.repo.ListByUser(userID)
	if err != nil {
		return Summary{}, err
	}
	summary := Compute(history, s.clk.Today(), s.clk.Now())

	if encoded, err := json.Marshal(summary); err == nil {
		if err := cache.Set(key, string(encoded), cacheExpiration); err != nil {
			log.Printf("failed to cache stats summary for user %d: %v", userID, err)
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary for a user after a quest mutation.
func (s *Service) Invalidate(userID uint) {
	if err := cache.Delete(fmt.Sprintf(cacheKeyUserSummary, userID)); err != nil {
		log.Printf("failed to invalidate stats cache for user %d: %v", userID, err)
	}
}
