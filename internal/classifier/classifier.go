// Package classifier decides which capability, if any, a user message asks
// for and pulls the capability's arguments out of the text.
//
// Both steps are keyword and regular-expression heuristics evaluated from
// ordered rule tables. They are deliberately shallow: there is no grammar,
// no model call and no state, so the same message always classifies and
// extracts the same way.
package classifier

import "strings"

// Intent is the capability a message asks for.
type Intent int

const (
	// IntentNone routes the message to conversation.
	IntentNone Intent = iota
	IntentWeather
	IntentSearch
	IntentEmail
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "none"
	case IntentWeather:
		return "weather"
	case IntentSearch:
		return "search"
	case IntentEmail:
		return "email"
	default:
		return "unknown"
	}
}

// Classifier matches messages against an ordered rule table.
type Classifier struct {
	rules []IntentRule
}

// NewClassifier creates a classifier over the default rule table.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules()}
}

// Classify returns the intent of the first rule whose keywords occur in the
// lower-cased message, or IntentNone.
func (c *Classifier) Classify(message string) Intent {
	msg := strings.ToLower(message)
	for _, rule := range c.rules {
		if rule.Matches(msg) {
			return rule.Intent
		}
	}
	return IntentNone
}

// Rules returns a copy of the rule table in evaluation order.
func (c *Classifier) Rules() []IntentRule {
	out := make([]IntentRule, len(c.rules))
	for i, r := range c.rules {
		r.Keywords = append([]string(nil), r.Keywords...)
		out[i] = r
	}
	return out
}

var defaultClassifier = NewClassifier()

// Classify classifies message with the default rule table.
func Classify(message string) Intent {
	return defaultClassifier.Classify(message)
}
