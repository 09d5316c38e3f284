package models

import (
	"strconv"
	"strings"
	"time"
)

// Forecast represents one calendar day of stored forecast data
type Forecast struct {
	Date      string                  `json:"date"`      // "2020-05-03"
	Condition string                  `json:"condition"` // "overcast"
	Season    string                  `json:"season"`    // "summer"
	Sunrise   string                  `json:"sunrise"`   // "04:41"
	Sunset    string                  `json:"sunset"`    // "20:12"
	SetEnd    string                  `json:"set_end"`   // "20:57"
	Hours     map[string]HourForecast `json:"hours"`
}

// HourForecast holds the temperatures for a single hour of the day
type HourForecast struct {
	Temp      *float64 `json:"temp,omitempty"`
	FeelsLike *float64 `json:"feels_like,omitempty"`
}

// CurrentTemperature returns the temperatures for the current local hour
func (f *Forecast) CurrentTemperature() (temp, feelsLike *float64) {
	return f.CurrentTemperatureAt(time.Now())
}

// CurrentTemperatureAt returns the temperatures stored for the hour of t.
// Both values are nil when the hour is missing.
func (f *Forecast) CurrentTemperatureAt(t time.Time) (temp, feelsLike *float64) {
	hour, ok := f.Hours[strconv.Itoa(t.Hour())]
	if !ok {
		return nil, nil
	}
	return hour.Temp, hour.FeelsLike
}

// Description builds the human readable summary for the current local hour
func (f *Forecast) Description() string {
	return f.DescriptionAt(time.Now())
}

// DescriptionAt builds the summary using the temperatures of the hour of t.
// The result is empty when there is nothing to say.
func (f *Forecast) DescriptionAt(t time.Time) string {
	temp, feelsLike := f.CurrentTemperatureAt(t)

	var sb strings.Builder
	if temp != nil {
		sb.WriteString(signed(*temp))
		sb.WriteString(" градусов Цельсия. ")
	}

	if feelsLike != nil {
		sb.WriteString("Ощущается как ")
		sb.WriteString(signed(*feelsLike))
		sb.WriteString(". ")
	}

	sb.WriteString(Condition(f.Condition).Translate())

	return sb.String()
}

// signed formats v in its shortest form, prefixing positive values with "+"
func signed(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}
