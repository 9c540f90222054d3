package triage

import (
	"sort"
	"strings"

	"mail-triage-go/internal/model"
)

// Category filter values understood by the dashboard. "other" selects
// everything that is not faq, including unclassified rows.
const (
	FilterAll   = "all"
	FilterOther = "other"
)

// Filter restricts loaded rows by category filter and free-text
// search. The search term must be a case-insensitive substring of the
// subject and snippet concatenated.
func Filter(rows []model.Email, category, search string) []model.Email {
	term := strings.ToLower(strings.TrimSpace(search))

	out := make([]model.Email, 0, len(rows))
	for _, row := range rows {
		if !matchCategory(&row, category) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(haystack(&row)), term) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchCategory(row *model.Email, category string) bool {
	switch category {
	case "", FilterAll:
		return true
	case FilterOther:
		return row.Category != model.CategoryFAQ
	default:
		return row.Category == category
	}
}

func haystack(row *model.Email) string {
	var b strings.Builder
	if row.Subject != nil {
		b.WriteString(*row.Subject)
	}
	if row.Snippet != nil {
		b.WriteString(*row.Snippet)
	}
	return b.String()
}

// FilterStatus restricts rows to a single status. An empty or "all"
// status leaves the set unchanged.
func FilterStatus(rows []model.Email, status string) []model.Email {
	if status == "" || status == FilterAll {
		return rows
	}
	out := make([]model.Email, 0, len(rows))
	for _, row := range rows {
		if row.Status == status {
			out = append(out, row)
		}
	}
	return out
}

// Counts derives per-status row counts over the loaded set. It is
// recomputed from the rows on every change; no duplicate state is
// stored anywhere.
func Counts(rows []model.Email) model.StatusCounts {
	counts := model.StatusCounts{All: len(rows)}
	for _, row := range rows {
		switch row.Status {
		case model.StatusOpen:
			counts.Open++
		case model.StatusCompleted:
			counts.Completed++
		case model.StatusError:
			counts.Error++
		}
	}
	return counts
}

// SortNewestFirst orders rows descending by effective timestamp
// (received_at when present, created_at otherwise), regardless of
// insertion order in the store. The input slice is not modified.
func SortNewestFirst(rows []model.Email) []model.Email {
	out := make([]model.Email, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveTimestamp().After(out[j].EffectiveTimestamp())
	})
	return out
}
