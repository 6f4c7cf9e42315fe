package models

import (
	"strings"
	"time"
)

// QuestSlots is the number of intentions a member can set per day.
const QuestSlots = 3

// QuestDay holds one member's three daily intentions and their completion
// state for a single calendar date. There is at most one row per
// (user_id, date).
//
// Two one-way latches govern mutability: ChoicesLocked freezes the quest
// texts (completion stays editable), Submitted finalizes the whole day.
type QuestDay struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index:ux_quest_days_user_date,unique,priority:1" json:"user_id"`
	Date            time.Time  `gorm:"type:date;not null;index:ux_quest_days_user_date,unique,priority:2" json:"date"`
	Quest1Text      string     `gorm:"type:varchar(255);not null;default:''" json:"quest_1_text"`
	Quest2Text      string     `gorm:"type:varchar(255);not null;default:''" json:"quest_2_text"`
	Quest3Text      string     `gorm:"type:varchar(255);not null;default:''" json:"quest_3_text"`
	Quest1Completed bool       `gorm:"not null;default:false" json:"quest_1_completed"`
	Quest2Completed bool       `gorm:"not null;default:false" json:"quest_2_completed"`
	Quest3Completed bool       `gorm:"not null;default:false" json:"quest_3_completed"`
	Submitted       bool       `gorm:"not null;default:false" json:"submitted"`
	SubmittedAt     *time.Time `gorm:"type:timestamp;default:null" json:"submitted_at,omitempty"`
	ChoicesLocked   bool       `gorm:"not null;default:false" json:"choices_locked"`
	ChoicesLockedAt *time.Time `gorm:"type:timestamp;default:null" json:"choices_locked_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Texts returns the three quest texts in slot order.
func (q *QuestDay) Texts() [QuestSlots]string {
	return [QuestSlots]string{q.Quest1Text, q.Quest2Text, q.Quest3Text}
}

// CompletedCount returns how many of the three slots are marked complete (0-3).
func (q *QuestDay) CompletedCount() int {
	count := 0
	for _, done := range []bool{q.Quest1Completed, q.Quest2Completed, q.Quest3Completed} {
		if done {
			count++
		}
	}
	return count
}

// AllCompleted reports whether every slot is marked complete.
func (q *QuestDay) AllCompleted() bool {
	return q.CompletedCount() == QuestSlots
}

// HasAllTexts reports whether every quest text is non-empty after trimming.
// Locking choices requires this to hold.
func (q *QuestDay) HasAllTexts() bool {
	for _, text := range q.Texts() {
		if strings.TrimSpace(text) == "" {
			return false
		}
	}
	return true
}
