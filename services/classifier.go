package services

import (
	"strings"

	"golang.org/x/text/cases"
)

// Role is a semantic category a form control may serve.
type Role string

const (
	RoleName     Role = "name"
	RoleEmail    Role = "email"
	RolePhone    Role = "phone"
	RoleLinkedIn Role = "linkedin"
	RoleWebsite  Role = "website"
	RoleResume   Role = "resume"
)

// fillOrder is the fixed precedence the filler walks for every control.
var fillOrder = []Role{RoleName, RoleEmail, RolePhone, RoleLinkedIn, RoleWebsite}

// allRoles covers every fields_filled key, resume included.
var allRoles = []Role{RoleName, RoleEmail, RolePhone, RoleLinkedIn, RoleWebsite, RoleResume}

// FieldClassifier maps attribute bags to semantic roles by permissive
// substring matching. ATS markup is unconstrained, so false positives are
// preferred over missed fields; the filler's already-filled guard limits the
// damage. New ATS quirks are keyword additions, not code changes.
type FieldClassifier struct {
	keywords map[Role][]string
}

// NewFieldClassifier returns a classifier with the default keyword tables.
func NewFieldClassifier() *FieldClassifier {
	return &FieldClassifier{
		keywords: map[Role][]string{
			RoleName: {
				"name", "full name", "your name",
				"applicant_name", "applicant-name",
				"first name", "first_name", "firstname",
				"last name", "last_name", "lastname",
			},
			RoleEmail: {
				"email", "e-mail", "your email",
				"applicant_email", "contact email",
			},
			RolePhone: {
				"phone", "phone number", "mobile",
				"telephone", "tel", "cell", "cellphone",
			},
			RoleLinkedIn: {
				"linkedin", "linked-in", "linkedin_url", "linkedin profile",
			},
			RoleWebsite: {
				"website", "portfolio", "personal site",
				"personal website", "homepage",
			},
		},
	}
}

// AddKeywords extends (or creates) the keyword table for a role.
func (c *FieldClassifier) AddKeywords(role Role, keywords ...string) {
	for _, kw := range keywords {
		c.keywords[role] = append(c.keywords[role], fold(kw))
	}
}

// Classify reports whether any collected attribute value contains any keyword
// for the role. Matching is case-insensitive substring matching.
func (c *FieldClassifier) Classify(bag AttributeBag, role Role) bool {
	_, _, ok := c.match(bag, role)
	return ok
}

// Explain reports which attribute/keyword pair matched, for audit notes only.
// It must never drive control flow; Classify is the decision.
func (c *FieldClassifier) Explain(bag AttributeBag, role Role) (attribute, keyword string, ok bool) {
	return c.match(bag, role)
}

func (c *FieldClassifier) match(bag AttributeBag, role Role) (string, string, bool) {
	checks := c.keywords[role]
	for _, key := range bagOrder {
		value := bag[key]
		if value == "" {
			continue
		}
		low := fold(value)
		for _, kw := range checks {
			if strings.Contains(low, fold(kw)) {
				return key, kw, true
			}
		}
	}
	return "", "", false
}

// fold lowercases with full Unicode case folding, so accented and non-ASCII
// labels compare the way a browser renders them.
func fold(s string) string {
	return cases.Fold().String(s)
}

// containsKeyword matches a keyword against already-folded text.
func containsKeyword(foldedText, keyword string) bool {
	return strings.Contains(foldedText, fold(keyword))
}
