// internal/models/profile.go
package models

// PanIndia marks a scheme (or a profile) as nationwide rather than state specific.
const PanIndia = "Pan-India"

// DateLayout is the calendar date format used for dates of birth and application dates.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryGeneral Category = "General"
	CategorySC      Category = "SC"
	CategoryST      Category = "ST"
	CategoryOBC     Category = "OBC"
	CategoryEWS     Category = "EWS"
)

// Categories lists every Category in display order.
var Categories = []Category{CategoryGeneral, CategorySC, CategoryST, CategoryOBC, CategoryEWS}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategorySC, CategoryST, CategoryOBC, CategoryEWS:
		return true
	}
	return false
}

type Role string

const (
	RoleCitizen      Role = "Citizen"
	RoleStudent      Role = "Student"
	RoleFarmer       Role = "Farmer"
	RoleEntrepreneur Role = "Entrepreneur"
	RoleJobSeeker    Role = "Job Seeker"
)

var Roles = []Role{RoleCitizen, RoleStudent, RoleFarmer, RoleEntrepreneur, RoleJobSeeker}

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleStudent, RoleFarmer, RoleEntrepreneur, RoleJobSeeker:
		return true
	}
	return false
}

type Gender string

const (
	GenderFemale         Gender = "Female"
	GenderMale           Gender = "Male"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

var Genders = []Gender{GenderFemale, GenderMale, GenderOther, GenderPreferNotToSay}

func (g Gender) Valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther, GenderPreferNotToSay:
		return true
	}
	return false
}

// Profile holds the attributes a citizen searches with. Gender and DocumentsOwned are
// carried along but never affect the eligibility score.
type Profile struct {
	DateOfBirth    string   `json:"dob"`
	Income         int64    `json:"income"`
	State          string   `json:"state"`
	Category       Category `json:"category"`
	Role           Role     `json:"role"`
	Gender         Gender   `json:"gender,omitempty"`
	DocumentsOwned []string `json:"documentsOwned,omitempty"`
}

// IndianStates is the list of regions offered to users, led by the nationwide sentinel.
var IndianStates = []string{
	PanIndia, "Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala",
	"Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland",
	"Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
	"Uttar Pradesh", "Uttarakhand", "West Bengal",
}

// IsKnownState reports whether state appears in IndianStates.
func IsKnownState(state string) bool {
	for _, s := range IndianStates {
		if s == state {
			return true
		}
	}
	return false
}
