package models

// Response is the subset of the Yandex Weather forecast document the service uses
type Response struct {
	Fact      *Fact         `json:"fact" validate:"required"`
	Forecasts []ForecastDay `json:"forecasts" validate:"required,dive"`
}

// Fact holds the current observation. Its condition and season are applied to every stored day.
type Fact struct {
	Condition string `json:"condition" validate:"required"`
	Season    string `json:"season" validate:"required"`
}

// ForecastDay is one day of the upstream forecast
type ForecastDay struct {
	Date    string      `json:"date" validate:"required,datetime=2006-01-02"`
	Sunrise string      `json:"sunrise"`
	Sunset  string      `json:"sunset"`
	SetEnd  string      `json:"set_end"`
	Hours   []HourEntry `json:"hours" validate:"dive"`
}

// HourEntry is one hour of a forecast day
type HourEntry struct {
	Hour      string   `json:"hour" validate:"hour"`
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
}

// Poll is a validated upstream response ready to be stored
type Poll struct {
	Condition string
	Season    string
	Days      []ForecastDay
	Raw       []byte
}
