package eligibility

import (
	"sort"

	"yogyatha-workers/internal/models"
)

// MinEligibleScore is the lowest score a scheme needs to be shown to the user.
const MinEligibleScore = 5

// FilterAndRank drops schemes scoring below MinEligibleScore and orders the rest by
// descending score. The sort is stable: equal scores keep their input order.
func FilterAndRank(scored []models.Scheme) []models.Scheme {
	ranked := make([]models.Scheme, 0, len(scored))
	for _, s := range scored {
		if s.Score >= MinEligibleScore {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
