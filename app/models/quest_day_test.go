package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestDayCompletedCount(t *testing.T) {
	day := &QuestDay{}
	assert.Equal(t, 0, day.CompletedCount())
	assert.False(t, day.AllCompleted())

	day.Quest1Completed = true
	day.Quest3Completed = true
	assert.Equal(t, 2, day.CompletedCount())
	assert.False(t, day.AllCompleted())

	day.Quest2Completed = true
	assert.Equal(t, QuestSlots, day.CompletedCount())
	assert.True(t, day.AllCompleted())
}

func TestQuestDayHasAllTexts(t *testing.T) {
	day := &QuestDay{Quest1Text: "a", Quest2Text: "b", Quest3Text: "c"}
	assert.True(t, day.HasAllTexts())

	day.Quest2Text = "   "
	assert.False(t, day.HasAllTexts())

	day.Quest2Text = ""
	assert.False(t, day.HasAllTexts())
}

func TestSubscriptionIsPremium(t *testing.T) {
	var nilSub *Subscription
	assert.False(t, nilSub.IsPremium())

	sub := &Subscription{Tier: SubscriptionTierFree, Status: SubscriptionStatusActive}
	assert.False(t, sub.IsPremium())

	sub.Tier = SubscriptionTierPremium
	assert.True(t, sub.IsPremium())

	sub.Status = SubscriptionStatusPastDue
	assert.False(t, sub.IsPremium())
}
