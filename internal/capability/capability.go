// Package capability defines the external actions Baymax can take on a
// user's behalf and turns their outcomes into replies.
package capability

import "context"

// WeatherProvider returns a short human-readable weather report for a city.
type WeatherProvider interface {
	GetWeather(ctx context.Context, city string) (string, error)
}

// Searcher returns formatted web search results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Mailer sends an email and returns a status line.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Registry holds one implementation per capability. A nil field means the
// capability is not configured and every call to it fails.
type Registry struct {
	Weather WeatherProvider
	Search  Searcher
	Email   Mailer
}
