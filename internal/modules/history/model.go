// README: Append-only search history record.
package history

import "time"

type Record struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	Intent      string    `json:"intent"`
	Location    string    `json:"location"`
	ResultCount int       `json:"result_count"`
	CreatedAt   time.Time `json:"created_at"`
}
