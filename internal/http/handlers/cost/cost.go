// Package cost serves the daily cost calculator.
package cost

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kinderhort/childcare-registration/internal/cost"
	"github.com/kinderhort/childcare-registration/internal/utils/response"
)

// Quote is the answer for one age.
type Quote struct {
	Age       int    `json:"age"`
	Cost      int    `json:"cost"`
	Formatted string `json:"formatted"`
	Text      string `json:"text"`
}

// QuoteFor parses raw as an age and prices it. Anything that is not an
// integer in range yields cost.ErrInvalidAge.
func QuoteFor(raw string) (Quote, error) {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Quote{}, cost.ErrInvalidAge
	}

	amount, err := cost.Daily(age)
	if err != nil {
		return Quote{}, err
	}

	return Quote{Age: age, Cost: amount, Formatted: cost.Format(amount), Text: cost.Text(amount)}, nil
}

// Get handles GET /api/cost?age=N.
func Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := QuoteFor(r.URL.Query().Get("age"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		response.WriteJSON(w, http.StatusOK, q)
	}
}
