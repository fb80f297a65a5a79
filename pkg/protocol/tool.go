package protocol

// Arguments accepted by the tools Baymax exposes to external clients.

// ChatArgs asks Baymax to answer a free-text message.
type ChatArgs struct {
	Message string `json:"message"`
}

// WeatherArgs asks for the weather in a city.
type WeatherArgs struct {
	City string `json:"city"`
}

// SearchArgs asks for a web search.
type SearchArgs struct {
	Query string `json:"query"`
}

// EmailArgs asks Baymax to send an email.
type EmailArgs struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}
