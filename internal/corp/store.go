package corp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Booking is one confirmed meeting in the in-memory calendar
type Booking struct {
	MeetingID string `json:"meeting_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
}

// BookingResult is the structured outcome of a booking attempt. On
// failure, AvailableAlternatives lists the free ranges for the same day
// so the model can propose another slot.
type BookingResult struct {
	Success               bool     `json:"success"`
	Message               string   `json:"message"`
	MeetingID             string   `json:"meeting_id,omitempty"`
	AvailableAlternatives []string `json:"available_alternatives,omitempty"`
}

// DaySlots is one day's free ranges in wire-friendly form
type DaySlots struct {
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
	DayOfWeek      string   `json:"day_of_week"`
}

// CalendarStore holds the mock week calendar and all bookings made
// during the process lifetime. The mutex guards the check-then-book
// sequence so two concurrent bookings cannot both claim one slot.
type CalendarStore struct {
	mu       sync.Mutex
	slots    map[string][]string
	bookings []Booking
}

// defaultSlots is the demo week: free ranges per date
var defaultSlots = map[string][]string{
	"2024-01-15": {"10:00-12:00", "16:00-18:00"},
	"2024-01-16": {"09:00-10:00", "14:00-17:00"},
	"2024-01-17": {"09:00-18:00"},
	"2024-01-18": {"09:00-15:00", "16:00-18:00"},
	"2024-01-19": {"09:00-18:00"},
}

// NewCalendarStore creates a store pre-loaded with the demo week
func NewCalendarStore() *CalendarStore {
	slots := make(map[string][]string, len(defaultSlots))
	for date, ranges := range defaultSlots {
		slots[date] = append([]string(nil), ranges...)
	}
	return &CalendarStore{slots: slots}
}

// AvailableSlots returns every day that still has free ranges, ordered
// by date
func (s *CalendarStore) AvailableSlots() []DaySlots {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]string, 0, len(s.slots))
	for date := range s.slots {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]DaySlots, 0, len(dates))
	for _, date := range dates {
		ranges := s.slots[date]
		if len(ranges) == 0 {
			continue
		}
		days = append(days, DaySlots{
			Date:           date,
			AvailableTimes: append([]string(nil), ranges...),
			DayOfWeek:      dayOfWeek(date),
		})
	}
	return days
}

// checkAvailability reports whether a meeting of the given duration
// fits inside a free range on the given day and does not overlap an
// existing booking. Booking goes through Book, which holds the lock
// across the check and the write.
func (s *CalendarStore) checkAvailability(date, startTime string, duration int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fits(date, startTime, duration)
}

// Book attempts to claim a slot. The availability check and the booking
// write happen under one lock acquisition.
func (s *CalendarStore) Book(date, startTime, title string, duration int) BookingResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fits(date, startTime, duration) {
		return BookingResult{
			Success:               false,
			Message:               fmt.Sprintf("time slot %s at %s is not available", date, startTime),
			AvailableAlternatives: append([]string(nil), s.slots[date]...),
		}
	}

	booking := Booking{
		MeetingID: "meeting_" + uuid.NewString(),
		Date:      date,
		Time:      startTime,
		Title:     title,
		Duration:  duration,
	}
	s.bookings = append(s.bookings, booking)

	return BookingResult{
		Success:   true,
		Message:   fmt.Sprintf("meeting %q scheduled for %s at %s", title, date, startTime),
		MeetingID: booking.MeetingID,
	}
}

// Bookings returns a copy of every booking made so far
func (s *CalendarStore) Bookings() []Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Booking(nil), s.bookings...)
}

// fits performs the availability check. Caller holds the lock.
func (s *CalendarStore) fits(date, startTime string, duration int) bool {
	ranges, ok := s.slots[date]
	if !ok {
		return false
	}

	start, err := parseClock(startTime)
	if err != nil {
		return false
	}
	end := start + duration

	inRange := false
	for _, r := range ranges {
		from, to, err := parseRange(r)
		if err != nil {
			continue
		}
		if from <= start && end <= to {
			inRange = true
			break
		}
	}
	if !inRange {
		return false
	}

	for _, b := range s.bookings {
		if b.Date != date {
			continue
		}
		bStart, err := parseClock(b.Time)
		if err != nil {
			continue
		}
		bEnd := bStart + b.Duration
		if start < bEnd && bStart < end {
			return false
		}
	}

	return true
}

// parseClock converts "HH:MM" to minutes since midnight
func parseClock(clock string) (int, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return h*60 + m, nil
}

// parseRange converts "HH:MM-HH:MM" to a minute interval
func parseRange(r string) (int, int, error) {
	from, to, ok := strings.Cut(r, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q", r)
	}
	start, err := parseClock(from)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseClock(to)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func dayOfWeek(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}
