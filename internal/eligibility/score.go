package eligibility

import "yogyatha-workers/internal/models"

// Points awarded per criterion once both gates pass.
const (
	AgePoints      = 3
	IncomePoints   = 2
	StatePoints    = 2
	CategoryPoints = 2
	RolePoints     = 2

	MaxScore = AgePoints + IncomePoints + StatePoints + CategoryPoints + RolePoints
)

// Match records which criteria a profile satisfied for one scheme.
type Match struct {
	StateMatch    bool `json:"stateMatch"`
	CategoryMatch bool `json:"categoryMatch"`
	AgeMatch      bool `json:"ageMatch"`
	IncomeMatch   bool `json:"incomeMatch"`
	RoleMatch     bool `json:"roleMatch"`
}

// Eligible reports whether both hard gates passed.
func (m Match) Eligible() bool {
	return m.StateMatch && m.CategoryMatch
}

// Points converts the match into a score. A failed gate is a disqualification: 0, with no
// partial credit for the other criteria.
func (m Match) Points() int {
	if !m.Eligible() {
		return 0
	}
	score := StatePoints + CategoryPoints
	if m.AgeMatch {
		score += AgePoints
	}
	if m.IncomeMatch {
		score += IncomePoints
	}
	if m.RoleMatch {
		score += RolePoints
	}
	return score
}

// Evaluate checks every criterion of rules against the profile. Gender and owned documents
// are deliberately not considered.
func Evaluate(rules models.Eligibility, profile models.Profile, age int) Match {
	return Match{
		StateMatch:    stateAllowed(rules.States, profile.State),
		CategoryMatch: categoryAllowed(rules.Categories, profile.Category),
		AgeMatch:      age >= rules.MinAge && age <= rules.MaxAge,
		IncomeMatch:   profile.Income <= rules.MaxIncome,
		RoleMatch:     roleAllowed(rules.Roles, profile.Role),
	}
}

// Score returns a copy of scheme with its Score set for the given profile and age.
func Score(scheme models.Scheme, profile models.Profile, age int) models.Scheme {
	scheme.Score = Evaluate(scheme.Eligibility, profile, age).Points()
	return scheme
}

func stateAllowed(states []string, state string) bool {
	for _, s := range states {
		if s == models.PanIndia || s == state {
			return true
		}
	}
	return false
}

func categoryAllowed(categories []models.Category, c models.Category) bool {
	switch c {
	case models.CategoryGeneral, models.CategorySC, models.CategoryST, models.CategoryOBC, models.CategoryEWS:
	default:
		return false
	}
	for _, allowed := range categories {
		if allowed == c {
			return true
		}
	}
	return false
}

func roleAllowed(roles []models.Role, r models.Role) bool {
	switch r {
	case models.RoleCitizen, models.RoleStudent, models.RoleFarmer, models.RoleEntrepreneur, models.RoleJobSeeker:
	default:
		return false
	}
	for _, allowed := range roles {
		if allowed == r {
			return true
		}
	}
	return false
}
