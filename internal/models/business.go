package models

import (
	"regexp"
	"time"
)

// Categories maps business category keys to their Bootstrap icon classes.
// The keys are the only values accepted for Business.Categories.
var Categories = map[string]string{
	"food":          "bi-egg-fried",
	"cafe":          "bi-cup-hot",
	"retail":        "bi-bag",
	"services":      "bi-tools",
	"health":        "bi-heart-pulse",
	"education":     "bi-mortarboard",
	"entertainment": "bi-controller",
	"technology":    "bi-cpu",
	"fitness":       "bi-activity",
}

// DaysOfWeek is the canonical weekday order for timetables.
var DaysOfWeek = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

var time24hPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidTime24h reports whether s is a HH:mm 24-hour time string.
func ValidTime24h(s string) bool {
	return time24hPattern.MatchString(s)
}

// Deal is a limited-time promotion embedded in a business record.
type Deal struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsActive    bool      `json:"isActive"`
}

// TimetableDay holds opening hours for a single weekday. OpensAt/ClosesAt
// are HH:mm strings and nil when the day is closed.
type TimetableDay struct {
	Day      string  `json:"day"`
	IsClosed bool    `json:"isClosed"`
	OpensAt  *string `json:"opensAt"`
	ClosesAt *string `json:"closesAt"`
}

// DefaultTimetable returns a closed-every-day week in canonical order.
func DefaultTimetable() []TimetableDay {
	week := make([]TimetableDay, 0, len(DaysOfWeek))
	for _, day := range DaysOfWeek {
		week = append(week, TimetableDay{Day: day, IsClosed: true})
	}
	return week
}

type Business struct {
	ID               string
	Name             string
	ShortDescription string
	LongDescription  string
	Categories       []string
	OwnerName        string
	ContactPhone     string
	ContactEmail     string
	WebsiteURL       string
	Address          string
	Timetable        []TimetableDay
	Deals            []Deal
	BannerImageURL   string
	LogoImageURL     string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Aggregates computed at read time, never stored.
	AvgRating       float64
	ReviewCount     int
	FavouritesCount int
}
