package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mail-triage-go/internal/model"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestFilterSearchMatchesSubjectAndSnippet(t *testing.T) {
	rows := []model.Email{
		{ID: "1", Subject: strPtr("Invoice due"), Category: model.CategoryAction},
		{ID: "2", Subject: strPtr("Hello there")},
		{ID: "3", Subject: strPtr("Invoice paid"), Category: model.CategoryFAQ},
	}

	filtered := Filter(rows, FilterAll, "invoice")

	assert.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "3", filtered[1].ID)
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	rows := []model.Email{
		{ID: "1", Subject: strPtr("REFUND request")},
		{ID: "2", Snippet: strPtr("please refund me")},
		{ID: "3", Subject: strPtr("shipping")},
	}

	filtered := Filter(rows, "", "Refund")

	assert.Len(t, filtered, 2)
}

func TestFilterSearchSpansSubjectSnippetConcatenation(t *testing.T) {
	// The term must be a substring of subject and snippet concatenated,
	// so a match across the boundary counts.
	rows := []model.Email{
		{ID: "1", Subject: strPtr("inv"), Snippet: strPtr("oice")},
	}

	filtered := Filter(rows, "", "invoice")

	assert.Len(t, filtered, 1)
}

func TestFilterCategoryExact(t *testing.T) {
	rows := []model.Email{
		{ID: "1", Category: model.CategoryFAQ},
		{ID: "2", Category: model.CategoryAction},
		{ID: "3", Category: model.CategoryReview},
		{ID: "4"},
	}

	filtered := Filter(rows, model.CategoryAction, "")

	assert.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)
}

func TestFilterCategoryOtherIsNotFaq(t *testing.T) {
	rows := []model.Email{
		{ID: "1", Category: model.CategoryFAQ},
		{ID: "2", Category: model.CategoryAction},
		{ID: "3", Category: model.CategoryReview},
		{ID: "4"},
	}

	filtered := Filter(rows, FilterOther, "")

	assert.Len(t, filtered, 3)
	for _, row := range filtered {
		assert.NotEqual(t, model.CategoryFAQ, row.Category)
	}
}

func TestFilterSearchIgnoresCategory(t *testing.T) {
	rows := []model.Email{
		{ID: "1", Subject: strPtr("Invoice due"), Category: model.CategoryFAQ},
		{ID: "2", Subject: strPtr("Invoice paid"), Category: model.CategoryReview},
	}

	filtered := Filter(rows, "", "invoice")

	assert.Len(t, filtered, 2)
}

func TestCounts(t *testing.T) {
	rows := []model.Email{
		{Status: model.StatusOpen},
		{Status: model.StatusOpen},
		{Status: model.StatusCompleted},
		{Status: model.StatusError},
		{Status: model.StatusOpen},
	}

	counts := Counts(rows)

	assert.Equal(t, model.StatusCounts{All: 5, Open: 3, Completed: 1, Error: 1}, counts)
}

func TestCountsEmpty(t *testing.T) {
	counts := Counts(nil)
	assert.Equal(t, model.StatusCounts{}, counts)
}

func TestFilterStatus(t *testing.T) {
	rows := []model.Email{
		{ID: "1", Status: model.StatusOpen},
		{ID: "2", Status: model.StatusCompleted},
		{ID: "3", Status: model.StatusOpen},
	}

	assert.Len(t, FilterStatus(rows, model.StatusOpen), 2)
	assert.Len(t, FilterStatus(rows, model.StatusCompleted), 1)
	assert.Len(t, FilterStatus(rows, ""), 3)
	assert.Len(t, FilterStatus(rows, FilterAll), 3)
}

func TestSortNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	// Insertion order deliberately scrambled.
	rows := []model.Email{
		{ID: "a", ReceivedAt: timePtr(t1)},
		{ID: "b", ReceivedAt: timePtr(t2)},
		{ID: "c", ReceivedAt: timePtr(t3)},
	}

	sorted := SortNewestFirst(rows)

	assert.Equal(t, "c", sorted[0].ID)
	assert.Equal(t, "a", sorted[1].ID)
	assert.Equal(t, "b", sorted[2].ID)

	// Input order is untouched.
	assert.Equal(t, "a", rows[0].ID)
}

func TestSortNewestFirstFallsBackToCreatedAt(t *testing.T) {
	received := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	rows := []model.Email{
		{ID: "with-received", ReceivedAt: timePtr(received), CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "without-received", CreatedAt: created},
	}

	sorted := SortNewestFirst(rows)

	assert.Equal(t, "without-received", sorted[0].ID)
	assert.Equal(t, "with-received", sorted[1].ID)
}
