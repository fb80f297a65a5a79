package capability

import (
	"context"
	"fmt"
	"time"

	"github.com/flynn-ai/baymax/internal/classifier"
	"github.com/flynn-ai/baymax/internal/errors"
	"github.com/flynn-ai/baymax/internal/logger"
)

// Replies produced by the invoker.
const (
	WeatherClarification = "I'd be happy to check the weather for you! Please specify a city name. For example: 'What's the weather in New York?'"
	WeatherFailure       = "I apologize, but I couldn't retrieve the weather information at the moment. Please try again."

	SearchClarification = "I'd be happy to search the web for you! Please specify what you'd like me to search for. For example: 'Search for healthy breakfast ideas'"
	SearchFailure       = "I apologize, but I couldn't perform the search at the moment. Please try again."

	EmailInstructions = "I can help you send emails! Please provide the details in this format:\n" +
		"\"Send an email to user@example.com with subject 'Your Subject' and message 'Your message here'\"\n\n" +
		"Or provide the recipient email, subject, and message separately."
	EmailFailure = "I apologize, but I couldn't process the email request at the moment. Please try again."

	weatherSuccessFormat = "Here's the weather information for %s: %s"
	searchSuccessFormat  = "Here are the search results for '%s':\n\n%s"
	emailSuccessFormat   = "Email processing result: %s"
)

var errNotConfigured = errors.New(errors.CodeCapabilityUnavailable, "capability not configured", errors.CategoryUser)

// Invoker calls the registered capability for an intent and always answers
// with a reply string.
type Invoker struct {
	registry Registry
	log      *logger.Logger
}

// NewInvoker creates an invoker over registry.
func NewInvoker(registry Registry, log *logger.Logger) *Invoker {
	if log == nil {
		log = logger.Nop()
	}
	return &Invoker{registry: registry, log: log.WithComponent("capability")}
}

// Invoke runs the capability selected by intent. Missing arguments produce
// a clarification, failures produce a fixed apology. Intents without a
// capability, such as IntentNone, yield an empty reply.
func (inv *Invoker) Invoke(ctx context.Context, intent classifier.Intent, args classifier.Arguments) string {
	switch intent {
	case classifier.IntentWeather:
		if args.City == nil {
			return WeatherClarification
		}
		city := *args.City
		result, err := inv.call(ctx, "weather", func() (string, error) {
			if inv.registry.Weather == nil {
				return "", errNotConfigured
			}
			return inv.registry.Weather.GetWeather(ctx, city)
		})
		if err != nil {
			return WeatherFailure
		}
		return fmt.Sprintf(weatherSuccessFormat, city, result)

	case classifier.IntentSearch:
		if args.Query == nil {
			return SearchClarification
		}
		query := *args.Query
		result, err := inv.call(ctx, "search", func() (string, error) {
			if inv.registry.Search == nil {
				return "", errNotConfigured
			}
			return inv.registry.Search.Search(ctx, query)
		})
		if err != nil {
			return SearchFailure
		}
		return fmt.Sprintf(searchSuccessFormat, query, result)

	case classifier.IntentEmail:
		if args.Email == nil {
			return EmailInstructions
		}
		parts := *args.Email
		result, err := inv.call(ctx, "email", func() (string, error) {
			if inv.registry.Email == nil {
				return "", errNotConfigured
			}
			return inv.registry.Email.Send(ctx, parts.To, parts.Subject, parts.Body)
		})
		if err != nil {
			return EmailFailure
		}
		return fmt.Sprintf(emailSuccessFormat, result)

	default:
		inv.log.Warn("no capability for intent", logger.Fields(logger.FieldIntent, intent.String()))
		return ""
	}
}

// call runs fn, converting panics into errors and logging the outcome.
func (inv *Invoker) call(ctx context.Context, op string, fn func() (string, error)) (result string, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.CodeCapabilityFailed, fmt.Sprintf("panic: %v", r), errors.CategorySystem)
		}
		fields := logger.DurationFields(op, time.Since(start))
		if err != nil {
			inv.log.WithError(err).Error("capability failed", fields)
			return
		}
		inv.log.Debug("capability succeeded", fields)
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fn()
}
