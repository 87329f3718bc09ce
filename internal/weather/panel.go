package weather

import (
	"fmt"
	"math"
	"time"
)

// UnavailableMessage is all the panel shows when no reading could be fetched.
const UnavailableMessage = "Weather data unavailable"

// Clothing advice, chosen by temperature.
const (
	AdviceCold = "It is very cold at the moment. Don't forget to dress your child warmly."
	AdviceMild = "The weather is mild. Dress your child comfortably and bring a light jacket."
	AdviceWarm = "Dress your child for warm weather and apply sunscreen."
)

// Advice picks the clothing hint: up to 15°C is cold, below 25°C mild, else warm.
func Advice(temp float64) string {
	switch {
	case temp <= 15:
		return AdviceCold
	case temp < 25:
		return AdviceMild
	default:
		return AdviceWarm
	}
}

// Round rounds half up, so 12.5 becomes 13 and -0.5 becomes 0.
func Round(temp float64) int {
	return int(math.Floor(temp + 0.5))
}

// Panel is the render-ready view of the weather widget. It carries no
// drawing logic of its own; SVG and RenderTerminal consume it.
type Panel struct {
	Available   bool      `json:"available"`
	Temperature string    `json:"temperature,omitempty"`
	Rounded     int       `json:"rounded"`
	Title       string    `json:"title,omitempty"`
	Advice      string    `json:"advice,omitempty"`
	Message     string    `json:"message,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPanel builds the panel for a fetch outcome. Any error yields the
// unavailable panel.
func NewPanel(r Reading, err error) Panel {
	if err != nil {
		return Unavailable()
	}

	rounded := Round(r.Temp)
	return Panel{
		Available:   true,
		Temperature: fmt.Sprintf("%d°C", rounded),
		Rounded:     rounded,
		Title:       fmt.Sprintf("%s - %s", r.City, r.Condition),
		Advice:      Advice(r.Temp),
		UpdatedAt:   r.FetchedAt,
	}
}

// Unavailable is the panel shown before the first successful fetch or after a failed one.
func Unavailable() Panel {
	return Panel{Message: UnavailableMessage}
}
