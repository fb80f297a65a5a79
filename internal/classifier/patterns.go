package classifier

import "strings"

// IntentRule maps a set of trigger keywords to an intent.
type IntentRule struct {
	Intent   Intent
	Keywords []string
}

// Matches reports whether any keyword is a substring of msg. msg must
// already be lower-cased.
func (r IntentRule) Matches(msg string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// defaultRules returns the intent rules in precedence order. A message that
// mentions both weather and email is a weather request.
func defaultRules() []IntentRule {
	return []IntentRule{
		{
			Intent:   IntentWeather,
			Keywords: []string{"weather", "temperature", "forecast"},
		},
		{
			Intent:   IntentSearch,
			Keywords: []string{"search", "find", "look up", "google"},
		},
		{
			Intent:   IntentEmail,
			Keywords: []string{"email", "send", "mail"},
		},
	}
}
