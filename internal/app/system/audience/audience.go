// Package audience maps meeting audience tags onto concrete role
// whitelists. The mapping is exhaustive over the closed tag set; anything
// else is an error rather than a silent default.
package audience

import (
	"errors"
	"fmt"

	"github.com/bmsit/facultymeet/internal/domain/models"
)

// ErrCustomTag is returned by Whitelist for the Custom tag, which resolves
// through the meeting's explicit attendee id list instead of roles.
var ErrCustomTag = errors.New("custom audiences resolve by attendee list, not role")

// roleWhitelists is the fixed tag → allowed-designation mapping.
// Administrators are included in the HOD and dean groups so they always see
// leadership meetings.
var roleWhitelists = map[string][]string{
	models.AudienceAllFaculty: {
		"Faculty", "Assistant Professor", "Associate Professor", "Lab Assistant", "HOD", "DEAN", "ADMIN",
	},
	models.AudienceAllHODs:  {"HOD", "ADMIN"},
	models.AudienceAllDeans: {"DEAN", "ADMIN"},
}

// Whitelist returns the designations a tag resolves to.
func Whitelist(tag string) ([]string, error) {
	if tag == models.AudienceCustom {
		return nil, ErrCustomTag
	}
	roles, ok := roleWhitelists[tag]
	if !ok {
		return nil, fmt.Errorf("unrecognized audience tag %q", tag)
	}
	return roles, nil
}

// Includes reports whether a user with the given designation belongs to the
// tag's audience. Custom tags always report false; membership there is by
// explicit id list.
func Includes(tag, designation string) bool {
	roles, err := Whitelist(tag)
	if err != nil {
		return false
	}
	for _, r := range roles {
		if r == designation {
			return true
		}
	}
	return false
}
