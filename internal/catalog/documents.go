package catalog

import (
	"sort"

	"yogyatha-workers/internal/models"
)

// AllDocumentTypes is every supporting document any scheme asks for, sorted.
var AllDocumentTypes = sortedUnique([]string{
	"Aadhaar Card",
	"PAN Card",
	"Passport size photo",
	"Land documents",
	"Caste Certificate",
	"Income Certificate",
	"Bonafide Certificate",
	"Startup Recognition Certificate",
	"Business Plan",
	"Proof of Residence",
	"Birth certificate of girl child",
	"Parent's identity proof",
	"Bank Account Details",
	"Bank Passbook",
	"Mobile Number",
	"Domicile Certificate",
	"Project Report",
	"Educational Qualification Certificate",
	"Unmarried Status Declaration",
	"Proof of School Enrollment",
	"Ration Card",
	"Medical Certificates",
	"Company Incorporation documents",
	"Domicile Certificate of UP",
	"Maharashtra Domicile Certificate",
	"Detailed Project Report (DPR)",
	"Land records (RTC)",
	"Bhamashah Card",
	"Medical Certificates from a Government Doctor",
	"MA Card",
})

var commonDocuments = []string{
	"Aadhaar Card", "PAN Card", "Passport size photo", "Income Certificate",
	"Proof of Residence", "Bank Account Details", "Bank Passbook", "Mobile Number",
	"Ration Card", "Caste Certificate",
}

var stateDocuments = map[string][]string{
	"Telangana":     {"Bonafide Certificate"},
	"Uttar Pradesh": {"Domicile Certificate of UP", "Project Report", "Educational Qualification Certificate"},
	"West Bengal":   {"Birth certificate of girl child", "Unmarried Status Declaration", "Proof of School Enrollment"},
	"Maharashtra":   {"Maharashtra Domicile Certificate", "Detailed Project Report (DPR)"},
	"Karnataka":     {"Land records (RTC)"},
	"Rajasthan":     {"Bhamashah Card"},
	"Kerala":        {"Medical Certificates from a Government Doctor"},
	"Gujarat":       {"MA Card"},
	"Bihar":         {"Birth certificate of girl child", "Educational Qualification Certificate"},
}

// RelevantDocuments lists the documents worth offering for state. Pan-India,
// unknown states and states without specific documents get every document type.
func RelevantDocuments(state string) []string {
	specific, ok := stateDocuments[state]
	if state == models.PanIndia || !models.IsKnownState(state) || !ok {
		return append([]string(nil), AllDocumentTypes...)
	}

	docs := make([]string, 0, len(commonDocuments)+len(specific))
	docs = append(docs, commonDocuments...)
	docs = append(docs, specific...)
	return sortedUnique(docs)
}

func sortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
