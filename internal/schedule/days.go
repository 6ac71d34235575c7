package schedule

import (
	"strings"
	"time"
)

var dayTokens = map[string]time.Weekday{
	"א": time.Sunday,
	"ב": time.Monday,
	"ג": time.Tuesday,
	"ד": time.Wednesday,
	"ה": time.Thursday,
	"ו": time.Friday,
	"ש": time.Saturday,

	"ראשון": time.Sunday,
	"שני":   time.Monday,
	"שלישי": time.Tuesday,
	"רביעי": time.Wednesday,
	"חמישי": time.Thursday,
	"שישי":  time.Friday,
	"שבת":   time.Saturday,

	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// гереш, гершаим и их ASCII-заменители после буквы дня
const dayMarks = "׳״'\"`’."

func parseDay(token string) (time.Weekday, bool) {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, "יום ")
	token = strings.TrimRight(token, dayMarks)
	d, ok := dayTokens[strings.ToLower(token)]
	return d, ok
}

// parseDays разбирает "א" или "א-ה"; диапазон с концом раньше начала
// переходит через конец недели
func parseDays(text string) ([]time.Weekday, bool) {
	if text == "" {
		return nil, false
	}

	parts := strings.Split(text, "-")
	if len(parts) == 1 {
		parts = strings.Split(text, "–")
	}

	switch len(parts) {
	case 1:
		d, ok := parseDay(parts[0])
		if !ok {
			return nil, false
		}
		return []time.Weekday{d}, true
	case 2:
		from, ok := parseDay(parts[0])
		if !ok {
			return nil, false
		}
		to, ok := parseDay(parts[1])
		if !ok {
			return nil, false
		}
		var days []time.Weekday
		for d := from; ; d = (d + 1) % 7 {
			days = append(days, d)
			if d == to {
				break
			}
		}
		return days, true
	default:
		return nil, false
	}
}
