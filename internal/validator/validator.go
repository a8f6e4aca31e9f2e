// Package validator checks request payloads against declarative per-field
// rule tables. All rules are evaluated and every violation is reported in a
// single response, not just the first one found.
package validator

import (
	"fmt"
	"net/mail"
	"strings"
)

// Rule describes the constraints for one payload field.
type Rule struct {
	Field    string
	Required bool
	MinLen   int
	Email    bool
}

// Errors maps field name to the human-readable violation message.
type Errors map[string]string

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

func (e Errors) Add(field, message string) {
	e[field] = message
}

// Check evaluates every rule against the given field values and collects all
// violations. Values are trimmed before length checks.
func Check(fields map[string]string, rules []Rule) Errors {
	errs := make(Errors)
	for _, rule := range rules {
		value := strings.TrimSpace(fields[rule.Field])

		if value == "" {
			if rule.Required {
				errs.Add(rule.Field, fmt.Sprintf("%s is required", rule.Field))
			}
			continue
		}
		if rule.MinLen > 0 && len(value) < rule.MinLen {
			errs.Add(rule.Field, fmt.Sprintf("%s must be at least %d characters", rule.Field, rule.MinLen))
			continue
		}
		if rule.Email {
			if _, err := mail.ParseAddress(value); err != nil {
				errs.Add(rule.Field, fmt.Sprintf("%s must be a valid email address", rule.Field))
			}
		}
	}
	return errs
}

// RegisterRules validates POST /users payloads.
var RegisterRules = []Rule{
	{Field: "name", Required: true, MinLen: 3},
	{Field: "email", Required: true, Email: true},
	{Field: "password", Required: true, MinLen: 6},
}

// LoginRules validates POST /login payloads.
var LoginRules = []Rule{
	{Field: "email", Required: true, Email: true},
	{Field: "password", Required: true},
}

// PostRules validates the text fields of POST /posts multipart payloads.
var PostRules = []Rule{
	{Field: "title", Required: true, MinLen: 3},
	{Field: "content", Required: true, MinLen: 5},
}
