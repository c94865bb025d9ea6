// README: Uniform response envelope consumed verbatim by the UI.
package formatter

// Action identifies which formatting path produced an envelope.
type Action string

const (
	ActionSearchFlights Action = "search_flights"
	ActionSearchHotels  Action = "search_hotels"
	ActionGetWeather    Action = "get_weather"
	ActionSuggestion    Action = "suggestion"
)

// Envelope is the single wire contract the pipeline must honor exactly.
// Data is null only for the suggestion action or a failed object lookup;
// list actions carry an empty list when nothing was found.
type Envelope struct {
	Action  Action      `json:"action"`
	Content string      `json:"content"`
	Data    interface{} `json:"data"`
}
