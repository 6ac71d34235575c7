// Package schedule разбирает строку часов работы вида "א׳-ה׳ 09:00-18:00; ו׳ 09:00-13:00"
// и отвечает, открыт ли бизнес в заданный момент.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptySpec   = errors.New("пустое расписание")
	ErrInvalidTime = errors.New("некорректное время в расписании")
)

// Policy - как трактовать минуту окончания интервала
type Policy int

const (
	// EndExclusive: 09:00-18:00 открыто в 17:59, закрыто в 18:00
	EndExclusive Policy = iota
	// EndInclusive: 09:00-18:00 открыто и в 18:00
	EndInclusive
)

// ParsePolicy переводит значение из конфига; пустая строка - EndExclusive
func ParsePolicy(v string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "exclusive":
		return EndExclusive, nil
	case "inclusive":
		return EndInclusive, nil
	default:
		return EndExclusive, fmt.Errorf("неизвестная политика границы: %q", v)
	}
}

// Interval - открытый промежуток в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

type Schedule struct {
	days     [7][]Interval
	policy   Policy
	loc      *time.Location
	fallback bool
}

type Option func(*Schedule)

func WithPolicy(p Policy) Option {
	return func(s *Schedule) { s.policy = p }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Schedule) {
		if loc != nil {
			s.loc = loc
		}
	}
}

var (
	timeRangeRe = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*[-–]\s*(\d{1,2}):(\d{2})`)
	closedWords = []string{"סגור", "closed"}
)

// Parse разбирает расписание. Нераспознанные сегменты пропускаются,
// сегмент с некорректным временем делает весь разбор неудачным.
func Parse(spec string, opts ...Option) (*Schedule, error) {
	s := newSchedule(opts)
	if strings.TrimSpace(spec) == "" {
		return nil, ErrEmptySpec
	}

	segments := strings.FieldsFunc(spec, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ';'
	})
	for _, seg := range segments {
		if err := s.applySegment(strings.TrimSpace(seg)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Default - запасное расписание: воскресенье-четверг 09:00-18:00
func Default(opts ...Option) *Schedule {
	s := newSchedule(opts)
	for d := time.Sunday; d <= time.Thursday; d++ {
		s.days[d] = []Interval{{Start: 9 * 60, End: 18 * 60}}
	}
	s.fallback = true
	return s
}

// ParseOrDefault возвращает Default, если строку разобрать не удалось
func ParseOrDefault(spec string, opts ...Option) (*Schedule, error) {
	s, err := Parse(spec, opts...)
	if err != nil {
		return Default(opts...), err
	}
	return s, nil
}

func newSchedule(opts []Option) *Schedule {
	s := &Schedule{policy: EndExclusive, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Schedule) applySegment(seg string) error {
	if seg == "" {
		return nil
	}

	for _, word := range closedWords {
		if strings.HasSuffix(seg, word) {
			days, ok := parseDays(strings.TrimRight(strings.TrimSpace(strings.TrimSuffix(seg, word)), ":,"))
			if !ok {
				return nil
			}
			for _, d := range days {
				s.days[d] = nil
			}
			return nil
		}
	}

	loc := timeRangeRe.FindStringIndex(seg)
	if loc == nil {
		return nil
	}
	days, ok := parseDays(strings.TrimRight(strings.TrimSpace(seg[:loc[0]]), ":,"))
	if !ok {
		return nil
	}

	var intervals []Interval
	for _, m := range timeRangeRe.FindAllStringSubmatch(seg[loc[0]:], -1) {
		start, err := minutes(m[1], m[2])
		if err != nil {
			return err
		}
		end, err := minutes(m[3], m[4])
		if err != nil {
			return err
		}
		if end <= start {
			return fmt.Errorf("%w: %s", ErrInvalidTime, m[0])
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}

	for _, d := range days {
		s.days[d] = append(s.days[d], intervals...)
	}
	return nil
}

func minutes(h, m string) (int, error) {
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %s:%s", ErrInvalidTime, h, m)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %s:%s", ErrInvalidTime, h, m)
	}
	if hour > 24 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("%w: %s:%s", ErrInvalidTime, h, m)
	}
	return hour*60 + minute, nil
}

// IsOpen - открыт ли бизнес в момент t (в часовом поясе расписания)
func (s *Schedule) IsOpen(t time.Time) bool {
	local := t.In(s.loc)
	return s.OpenAt(local.Weekday(), local.Hour()*60+local.Minute())
}

// OpenAt - открыт ли бизнес в день недели wd на минуте minute от полуночи
func (s *Schedule) OpenAt(wd time.Weekday, minute int) bool {
	for _, iv := range s.days[wd] {
		if minute < iv.Start {
			continue
		}
		if minute < iv.End || (s.policy == EndInclusive && minute == iv.End) {
			return true
		}
	}
	return false
}

func (s *Schedule) Intervals(wd time.Weekday) []Interval {
	out := make([]Interval, len(s.days[wd]))
	copy(out, s.days[wd])
	return out
}

// IsFallback - расписание построено по умолчанию, а не из строки
func (s *Schedule) IsFallback() bool {
	return s.fallback
}
