// Package credential holds the login-form heuristics used for autofill.
package credential

import (
	"regexp"
	"strings"
)

var (
	userTokenRE    = regexp.MustCompile(`(?i)user|login|email|mail|name`)
	autocompleteRE = regexp.MustCompile(`(?i)username|email`)
)

// Field describes one <input> of a login form as reported by the page.
type Field struct {
	Name         string `json:"name"`
	ID           string `json:"id"`
	Placeholder  string `json:"placeholder"`
	Type         string `json:"type"`
	Autocomplete string `json:"autocomplete"`
	Value        string `json:"value,omitempty"`
}

// Form is a login form: an enclosing form with at least one password field.
type Form struct {
	Index  int     `json:"index"`
	Fields []Field `json:"fields"`
}

// FillPlan tells the page which inputs of which form to fill.
// UserField is -1 when no username candidate exists.
type FillPlan struct {
	FormIndex int    `json:"formIndex"`
	UserField int    `json:"userField"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// Score rates how likely a field holds the username.
// Password, hidden, submit and button inputs score -1 and are never chosen.
func Score(f Field) int {
	t := strings.ToLower(f.Type)
	switch t {
	case "password", "hidden", "submit", "button":
		return -1
	}

	score := 0
	combined := strings.ToLower(f.Name + " " + f.ID + " " + f.Placeholder)
	if userTokenRE.MatchString(combined) {
		score += 5
	}
	switch t {
	case "email":
		score += 4
	case "text":
		score += 2
	}
	if f.Autocomplete != "" && autocompleteRE.MatchString(f.Autocomplete) {
		score += 5
	}
	return score
}

// PickUsernameField returns the index of the best username candidate,
// or -1. Ties keep the first field.
func PickUsernameField(fields []Field) int {
	best, bestScore := -1, -1
	for i, f := range fields {
		if s := Score(f); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// HasPassword reports whether the form contains a password input.
func (f Form) HasPassword() bool {
	return f.PasswordField() >= 0
}

// PasswordField returns the index of the first password input, or -1.
func (f Form) PasswordField() int {
	for i, field := range f.Fields {
		if strings.EqualFold(field.Type, "password") {
			return i
		}
	}
	return -1
}

// PlanFill targets the first login form on the page.
func PlanFill(forms []Form, username, password string) (FillPlan, bool) {
	for _, f := range forms {
		if !f.HasPassword() {
			continue
		}
		return FillPlan{
			FormIndex: f.Index,
			UserField: PickUsernameField(f.Fields),
			Username:  username,
			Password:  password,
		}, true
	}
	return FillPlan{}, false
}

// Captured extracts {username, password} from a submitted form.
// ok is false unless both are non-empty.
func Captured(f Form) (username, password string, ok bool) {
	pw := f.PasswordField()
	if pw < 0 || f.Fields[pw].Value == "" {
		return "", "", false
	}
	if u := PickUsernameField(f.Fields); u >= 0 {
		username = f.Fields[u].Value
	}
	if username == "" {
		return "", "", false
	}
	return username, f.Fields[pw].Value, true
}
