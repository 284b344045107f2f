// internal/models/scheme.go
package models

type Language string

const (
	LanguageEN Language = "en"
	LanguageHI Language = "hi"
	LanguageTE Language = "te"
)

// LocalizedText maps a language to display text. Only English is guaranteed to be present.
type LocalizedText map[Language]string

// LocalizedList maps a language to a list of display strings.
type LocalizedList map[Language][]string

// Eligibility is the rule set a profile is scored against. Age bounds and the income
// ceiling are inclusive.
type Eligibility struct {
	MinAge     int        `json:"minAge"`
	MaxAge     int        `json:"maxAge"`
	MaxIncome  int64      `json:"maxIncome"`
	States     []string   `json:"states"`
	Categories []Category `json:"categories"`
	Roles      []Role     `json:"roles"`
	Genders    []Gender   `json:"genders,omitempty"`
}

// Scheme is a government welfare program. Score is set by the eligibility engine on the
// copies it returns and is never persisted.
type Scheme struct {
	ID          string        `json:"id"`
	Icon        string        `json:"icon,omitempty"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	Eligibility Eligibility   `json:"eligibility"`
	Benefits    LocalizedList `json:"benefits"`
	Documents   LocalizedList `json:"documents"`
	ApplyLink   string        `json:"applyLink"`
	SourceURL   string        `json:"sourceUrl,omitempty"`
	EasySummary LocalizedText `json:"easySummary,omitempty"`
	Score       int           `json:"score,omitempty"`
}

// DisplayName returns the English name, falling back to the id.
func (s Scheme) DisplayName() string {
	if name := s.Name[LanguageEN]; name != "" {
		return name
	}
	return s.ID
}
