// Package classify assigns target-role tags to listings by fuzzy matching
// role keywords against listing titles.
package classify

import (
	"strings"
	"unicode"
)

// RoleSpec is one target role: a display name plus optional synonym
// phrasings ("TPM" or "TPM Intern" for "Technical Program Management
// Intern"). The name and each synonym are tokenized independently; the role
// matches a title when any one phrasing has all of its tokens present.
type RoleSpec struct {
	Name      string
	Synonyms  []string
	phrasings [][]string
}

// NewRoleSpec builds a RoleSpec with its phrasings tokenized up front.
func NewRoleSpec(name string, synonyms ...string) RoleSpec {
	r := RoleSpec{Name: name, Synonyms: synonyms}
	r.phrasings = append(r.phrasings, Tokenize(name))
	for _, s := range synonyms {
		if toks := Tokenize(s); len(toks) > 0 {
			r.phrasings = append(r.phrasings, toks)
		}
	}
	return r
}

// Tokens returns the token set derived from the role name.
func (r RoleSpec) Tokens() []string {
	if len(r.phrasings) == 0 {
		return Tokenize(r.Name)
	}
	return r.phrasings[0]
}

// matches reports whether any phrasing of the role is fully present among
// the title tokens. Order-insensitive; each required token is satisfied by
// an exact title token or one within edit distance 1.
func (r RoleSpec) matches(titleTokens []string) bool {
	phrasings := r.phrasings
	if len(phrasings) == 0 {
		phrasings = [][]string{Tokenize(r.Name)}
	}
	for _, required := range phrasings {
		if len(required) == 0 {
			continue
		}
		if containsAll(titleTokens, required) {
			return true
		}
	}
	return false
}

func containsAll(titleTokens, required []string) bool {
	for _, want := range required {
		found := false
		for _, tok := range titleTokens {
			if tok == want || editDistanceWithin1(tok, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Classifier matches listing titles against an ordered set of target roles.
type Classifier struct {
	roles []RoleSpec
}

// NewClassifier returns a classifier over the given roles. The configured
// order is preserved in Classify results and downstream grouping.
func NewClassifier(roles []RoleSpec) *Classifier {
	return &Classifier{roles: roles}
}

// Roles returns the configured role names in order.
func (c *Classifier) Roles() []string {
	names := make([]string, len(c.roles))
	for i, r := range c.roles {
		names[i] = r.Name
	}
	return names
}

// Classify returns the names of every role the title matches, in
// configuration order. An empty result means the listing is out of scope.
func (c *Classifier) Classify(title string) []string {
	titleTokens := Tokenize(title)
	if len(titleTokens) == 0 {
		return nil
	}

	var matched []string
	for _, role := range c.roles {
		if role.matches(titleTokens) {
			matched = append(matched, role.Name)
		}
	}
	return matched
}

// Tokenize lower-cases s and splits it into word tokens on anything that is
// not a letter or digit.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// editDistanceWithin1 reports whether a and b are at Levenshtein distance 1
// or less. Bounded to distance 1, a single scan is enough: equal-length
// strings may differ in one position, strings whose lengths differ by one
// must align around a single insertion.
func editDistanceWithin1(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la > lb {
		a, b = b, a
		la, lb = lb, la
	}
	if lb-la > 1 {
		return false
	}

	if la == lb {
		diffs := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diffs++
				if diffs > 1 {
					return false
				}
			}
		}
		return true
	}

	// b is one longer: skip exactly one rune of b.
	i, j := 0, 0
	skipped := false
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		j++
	}
	return true
}
