package quests

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/danieljstvincent/topthreeclub/app/models"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/clock"
)

// fakeRepository is an in-memory Repository keyed by (user, date).
type fakeRepository struct {
	days   map[string]*models.QuestDay
	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{days: make(map[string]*models.QuestDay), nextID: 1}
}

func (f *fakeRepository) key(userID uint, date time.Time) string {
	return fmt.Sprintf("%d/%s", userID, date.Format("2006-01-02"))
}

func (f *fakeRepository) Find(userID uint, date time.Time) (*models.QuestDay, error) {
	day, ok := f.days[f.key(userID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *day
	return &cp, nil
}

func (f *fakeRepository) FindForUpdate(userID uint, date time.Time) (*models.QuestDay, error) {
	return f.Find(userID, date)
}

func (f *fakeRepository) ListByUser(userID uint) ([]models.QuestDay, error) {
	var days []models.QuestDay
	for _, day := range f.days {
		if day.UserID == userID {
			days = append(days, *day)
		}
	}
	return days, nil
}

func (f *fakeRepository) Create(day *models.QuestDay) error {
	day.ID = f.nextID
	f.nextID++
	cp := *day
	f.days[f.key(day.UserID, day.Date)] = &cp
	return nil
}

func (f *fakeRepository) Save(day *models.QuestDay) error {
	cp := *day
	f.days[f.key(day.UserID, day.Date)] = &cp
	return nil
}

func (f *fakeRepository) MarkSubmitted(userID uint, date time.Time, at time.Time) (bool, error) {
	day, ok := f.days[f.key(userID, date)]
	if !ok || day.Submitted {
		return false, nil
	}
	day.Submitted = true
	day.SubmittedAt = &at
	return true, nil
}

func (f *fakeRepository) Transaction(fn func(Repository) error) error {
	return fn(f)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var testDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
var testNow = time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	return NewService(repo, clock.Fixed(testNow))
}

func TestUpsertCreatesOnFirstWrite(t *testing.T) {
	svc := newTestService(newFakeRepository())

	day, created, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text:      strPtr("Run 5k"),
		Quest1Completed: boolPtr(true),
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "Run 5k", day.Quest1Text)
	assert.Equal(t, "", day.Quest2Text)
	assert.True(t, day.Quest1Completed)
	assert.False(t, day.Quest2Completed)
}

func TestUpsertPartialUpdateLeavesOtherFields(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, _, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text: strPtr("Run 5k"),
		Quest2Text: strPtr("Read"),
	})
	require.NoError(t, err)

	day, created, err := svc.Upsert(1, testDay, DayInput{
		Quest2Completed: boolPtr(true),
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, "Run 5k", day.Quest1Text)
	assert.Equal(t, "Read", day.Quest2Text)
	assert.True(t, day.Quest2Completed)
	assert.False(t, day.Quest1Completed)
}

func TestUpsertAgainstSubmittedDayIsNoOp(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	_, _, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text: strPtr("a"), Quest2Text: strPtr("b"), Quest3Text: strPtr("c"),
		Quest1Completed: boolPtr(true), Quest2Completed: boolPtr(true), Quest3Completed: boolPtr(true),
	})
	require.NoError(t, err)
	_, err = svc.Submit(1, testDay)
	require.NoError(t, err)

	day, created, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text:      strPtr("overwritten"),
		Quest1Completed: boolPtr(false),
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, "a", day.Quest1Text)
	assert.True(t, day.Quest1Completed)
	assert.True(t, day.Submitted)

	stored, err := repo.Find(1, testDay)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Quest1Text)
	assert.True(t, stored.Quest1Completed)
}

func TestUpsertAfterLockKeepsTextsButAppliesCompletion(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, _, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text: strPtr("a"), Quest2Text: strPtr("b"), Quest3Text: strPtr("c"),
	})
	require.NoError(t, err)
	_, err = svc.LockChoices(1, testDay)
	require.NoError(t, err)

	day, _, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text:      strPtr("overwritten"),
		Quest1Completed: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "a", day.Quest1Text)
	assert.True(t, day.Quest1Completed)
}

func TestLockChoicesRequiresAllTexts(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	_, _, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text: strPtr("a"), Quest2Text: strPtr("   "),
	})
	require.NoError(t, err)

	_, err = svc.LockChoices(1, testDay)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Failed lock must not leave a partial latch behind.
	stored, err := repo.Find(1, testDay)
	require.NoError(t, err)
	assert.False(t, stored.ChoicesLocked)
	assert.Nil(t, stored.ChoicesLockedAt)
}

func TestLockChoicesMissingDay(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.LockChoices(1, testDay)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLockChoicesIsIdempotent(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, _, err := svc.Upsert(1, testDay, DayInput{
		Quest1Text: strPtr("a"), Quest2Text: strPtr("b"), Quest3Text: strPtr("c"),
	})
	require.NoError(t, err)

	first, err := svc.LockChoices(1, testDay)
	require.NoError(t, err)
	require.NotNil(t, first.ChoicesLockedAt)

	second, err := svc.LockChoices(1, testDay)
	require.NoError(t, err)
	assert.True(t, second.ChoicesLocked)
	assert.Equal(t, first.ChoicesLockedAt.Unix(), second.ChoicesLockedAt.Unix())
}

func TestSubmitSucceedsOnce(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, _, err := svc.Upsert(1, testDay, DayInput{Quest1Text: strPtr("a")})
	require.NoError(t, err)

	day, err := svc.Submit(1, testDay)
	require.NoError(t, err)
	assert.True(t, day.Submitted)
	require.NotNil(t, day.SubmittedAt)
	assert.Equal(t, testNow, *day.SubmittedAt)

	_, err = svc.Submit(1, testDay)
	var alreadyErr *AlreadySubmittedError
	require.ErrorAs(t, err, &alreadyErr)
	require.NotNil(t, alreadyErr.SubmittedAt)
	assert.Equal(t, testNow, *alreadyErr.SubmittedAt)
}

func TestSubmitMissingDay(t *testing.T) {
	svc := newTestService(newFakeRepository())

	_, err := svc.Submit(1, testDay)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulkSyncSkipsBadDates(t *testing.T) {
	svc := newTestService(newFakeRepository())

	result, err := svc.BulkSync(1, []SyncItem{
		{Date: "2025-06-09", DayInput: DayInput{Quest1Text: strPtr("a")}},
		{Date: "not-a-date", DayInput: DayInput{Quest1Text: strPtr("b")}},
		{Date: "2025-06-10", DayInput: DayInput{Quest1Text: strPtr("c")}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 1, result.Skipped)
}

func TestBulkSyncIsRepeatable(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	items := []SyncItem{
		{Date: "2025-06-09", DayInput: DayInput{Quest1Text: strPtr("a"), Quest1Completed: boolPtr(true)}},
		{Date: "2025-06-10", DayInput: DayInput{Quest1Text: strPtr("b")}},
	}

	first, err := svc.BulkSync(1, items)
	require.NoError(t, err)
	second, err := svc.BulkSync(1, items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	days, err := repo.ListByUser(1)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestGetOrDefaultReturnsTransientView(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	day, err := svc.GetOrDefault(1, testDay)
	require.NoError(t, err)

	assert.Equal(t, uint(1), day.UserID)
	assert.Equal(t, "", day.Quest1Text)
	assert.False(t, day.Submitted)

	// Reading must not create a record.
	_, err = repo.Find(1, testDay)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
