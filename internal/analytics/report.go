package analytics

import (
	"sort"

	"yogyatha-workers/internal/models"
)

// TopLimit is how many entries each top list keeps.
const TopLimit = 5

// Summarize builds the admin overview from the raw event logs.
func Summarize(searches []models.SearchEvent, tracked []models.TrackEvent) models.AnalyticsSummary {
	schemes := make([]string, len(tracked))
	for i, t := range tracked {
		schemes[i] = t.SchemeName
	}
	states := make([]string, len(searches))
	roles := make([]string, len(searches))
	for i, s := range searches {
		states[i] = s.State
		roles[i] = string(s.Role)
	}

	return models.AnalyticsSummary{
		TotalSearches: len(searches),
		TotalTracked:  len(tracked),
		TopSchemes:    Top(schemes, TopLimit),
		TopStates:     Top(states, TopLimit),
		TopRoles:      Top(roles, TopLimit),
	}
}

// Top counts names and returns the n most frequent, highest count first. Equal
// counts keep the order in which the names first appeared.
func Top(names []string, n int) []models.CountEntry {
	index := map[string]int{}
	entries := []models.CountEntry{}
	for _, name := range names {
		if i, ok := index[name]; ok {
			entries[i].Count++
			continue
		}
		index[name] = len(entries)
		entries = append(entries, models.CountEntry{Name: name, Count: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// UserHistory returns username's searches, newest first.
func UserHistory(searches []models.SearchEvent, username string) []models.SearchEvent {
	history := []models.SearchEvent{}
	for _, s := range searches {
		if s.Username == username {
			history = append(history, s)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp > history[j].Timestamp
	})
	return history
}
