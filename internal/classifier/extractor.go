package classifier

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default email parts used when the message names only a recipient.
const (
	DefaultEmailSubject = "Message from Baymax"
	DefaultEmailBody    = "Hello from Baymax!"
)

// EmailParts are the fields of an email request.
type EmailParts struct {
	To      string
	Subject string
	Body    string
}

// Arguments holds the extracted arguments of one message. At most the
// field belonging to the classified intent is set.
type Arguments struct {
	City  *string
	Query *string
	Email *EmailParts
}

// extractRule is one pattern of an ordered extraction table. clean
// post-processes the first capture group; an empty result rejects the match
// and evaluation moves on to the next rule.
type extractRule struct {
	pattern *regexp.Regexp
	clean   func(string) string
}

// ============================================================
// Rule tables
// ============================================================

var (
	cityFillerRe = regexp.MustCompile(`\b(like|today|tomorrow|now|please|the)\b`)
	spacesRe     = regexp.MustCompile(`\s+`)

	queryTailRe = regexp.MustCompile(`\s*(please|for me|thank you|thanks?)$`)

	emailAddrRe    = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
	emailSubjectRe = regexp.MustCompile(`(?i)subject\s+["']([^"']+)["']`)
	emailBodyRe    = regexp.MustCompile(`(?i)message\s+["']([^"']+)["']`)
)

var cityRules = []extractRule{
	{regexp.MustCompile(`weather\s+in\s+([a-z\s]+)`), cleanCity},
	{regexp.MustCompile(`weather\s+([a-z\s]+)`), cleanCity},
	{regexp.MustCompile(`in\s+([a-z\s]+)`), cleanCity},
	{regexp.MustCompile(`for\s+([a-z\s]+)`), cleanCity},
}

var queryRules = []extractRule{
	{regexp.MustCompile(`search\s+for\s+(.+)`), cleanQuery},
	{regexp.MustCompile(`search\s+(.+)`), cleanQuery},
	{regexp.MustCompile(`find\s+(.+)`), cleanQuery},
	{regexp.MustCompile(`look\s+up\s+(.+)`), cleanQuery},
	{regexp.MustCompile(`google\s+(.+)`), cleanQuery},
}

// ============================================================
// Extraction
// ============================================================

// Extract returns the arguments for intent found in message.
func Extract(intent Intent, message string) Arguments {
	var args Arguments
	switch intent {
	case IntentWeather:
		if city, ok := ExtractCity(message); ok {
			args.City = &city
		}
	case IntentSearch:
		if query, ok := ExtractQuery(message); ok {
			args.Query = &query
		}
	case IntentEmail:
		if parts, ok := ExtractEmailParts(message); ok {
			args.Email = &parts
		}
	}
	return args
}

// ExtractCity finds a city name in a weather request.
func ExtractCity(message string) (string, bool) {
	return applyRules(cityRules, strings.ToLower(message))
}

// ExtractQuery finds the search terms in a search request.
func ExtractQuery(message string) (string, bool) {
	return applyRules(queryRules, strings.ToLower(message))
}

// ExtractEmailParts finds the recipient, subject and body of an email
// request. Only a missing recipient fails; subject and body fall back to
// defaults. The original casing of the message is preserved.
func ExtractEmailParts(message string) (EmailParts, bool) {
	to := emailAddrRe.FindString(message)
	if to == "" {
		return EmailParts{}, false
	}

	parts := EmailParts{
		To:      to,
		Subject: DefaultEmailSubject,
		Body:    DefaultEmailBody,
	}
	if m := emailSubjectRe.FindStringSubmatch(message); m != nil {
		parts.Subject = m[1]
	}
	if m := emailBodyRe.FindStringSubmatch(message); m != nil {
		parts.Body = m[1]
	}
	return parts, true
}

func applyRules(rules []extractRule, msg string) (string, bool) {
	for _, rule := range rules {
		m := rule.pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		if v := rule.clean(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}

// ============================================================
// Helper cleaning functions
// ============================================================

// cleanCity strips filler words and title-cases the rest. Residues shorter
// than two characters are rejected.
func cleanCity(raw string) string {
	city := cityFillerRe.ReplaceAllString(raw, "")
	city = strings.TrimSpace(spacesRe.ReplaceAllString(city, " "))
	if len(city) <= 1 {
		return ""
	}
	return cases.Title(language.Und).String(city)
}

// cleanQuery strips trailing punctuation and politeness phrases.
func cleanQuery(raw string) string {
	query := strings.TrimSpace(raw)
	for {
		next := strings.TrimRight(query, "?!. ")
		next = strings.TrimSpace(queryTailRe.ReplaceAllString(next, ""))
		if next == query {
			return query
		}
		query = next
	}
}
