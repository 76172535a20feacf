// internal/domain/models/audiencetags.go
package models

// Audience tags select who a meeting notification goes to. The set is
// closed: unrecognized tags are rejected at write time rather than silently
// defaulting to a group.
const (
	AudienceAllFaculty = "All Faculty"
	AudienceAllHODs    = "All HODs"
	AudienceAllDeans   = "All Deans"
	AudienceCustom     = "Custom"
)

// AudienceTag pairs a stored tag value with its display label for the UI.
type AudienceTag struct {
	Value string
	Label string
}

// AllAudienceTags contains every supported audience tag.
var AllAudienceTags = []AudienceTag{
	{Value: AudienceAllFaculty, Label: "All Faculty"},
	{Value: AudienceAllHODs, Label: "All HODs"},
	{Value: AudienceAllDeans, Label: "All Deans"},
	{Value: AudienceCustom, Label: "Custom list"},
}

// IsValidAudienceTag checks if a value is a recognized audience tag.
func IsValidAudienceTag(value string) bool {
	for _, t := range AllAudienceTags {
		if t.Value == value {
			return true
		}
	}
	return false
}
