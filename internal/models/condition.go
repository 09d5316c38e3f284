package models

// Condition is a Yandex Weather condition code
type Condition string

const (
	ConditionClear                Condition = "clear"
	ConditionPartlyCloudy         Condition = "partly-cloudy"
	ConditionCloudy               Condition = "cloudy"
	ConditionOvercast             Condition = "overcast"
	ConditionDrizzle              Condition = "drizzle"
	ConditionLightRain            Condition = "light-rain"
	ConditionRain                 Condition = "rain"
	ConditionModerateRain         Condition = "moderate-rain"
	ConditionHeavyRain            Condition = "heavy-rain"
	ConditionContinuousHeavyRain  Condition = "continuous-heavy-rain"
	ConditionShowers              Condition = "showers"
	ConditionWetSnow              Condition = "wet-snow"
	ConditionLightSnow            Condition = "light-snow"
	ConditionSnow                 Condition = "snow"
	ConditionSnowShowers          Condition = "snow-showers"
	ConditionHail                 Condition = "hail"
	ConditionThunderstorm         Condition = "thunderstorm"
	ConditionThunderstormWithRain Condition = "thunderstorm-with-rain"
	ConditionThunderstormWithHail Condition = "thunderstorm-with-hail"
)

var conditionTranslations = map[Condition]string{
	ConditionClear:                "Ясно.",
	ConditionPartlyCloudy:         "Малооблачно.",
	ConditionCloudy:               "Облачно с прояснениями.",
	ConditionOvercast:             "Пасмурно.",
	ConditionDrizzle:              "Морось.",
	ConditionLightRain:            "Небольшой дождь.",
	ConditionRain:                 "Дождь.",
	ConditionModerateRain:         "Умеренно сильный дождь.",
	ConditionHeavyRain:            "Сильный дождь.",
	ConditionContinuousHeavyRain:  "Длительный сильный дождь.",
	ConditionShowers:              "Ливень.",
	ConditionWetSnow:              "Дождь со снегом.",
	ConditionLightSnow:            "Небольшой снег.",
	ConditionSnow:                 "Снег.",
	ConditionSnowShowers:          "Снегопад.",
	ConditionHail:                 "Град.",
	ConditionThunderstorm:         "Гроза.",
	ConditionThunderstormWithRain: "Дождь с грозой.",
	ConditionThunderstormWithHail: "Гроза с градом.",
}

// Known reports whether c is one of the documented condition codes
func (c Condition) Known() bool {
	_, ok := conditionTranslations[c]
	return ok
}

// Translate returns the Russian description of c, or "" for unknown codes
func (c Condition) Translate() string {
	return conditionTranslations[c]
}
