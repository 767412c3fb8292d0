// Package seed loads the starter business directory used by fresh
// deployments and local development environments.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bizboost/api/internal/ids"
	"bizboost/api/internal/models"
)

// BusinessStore is the slice of the business repository the seeder needs.
type BusinessStore interface {
	List(ctx context.Context, ids []string) ([]models.Business, error)
	Create(ctx context.Context, b models.Business) error
}

// Run inserts the starter businesses. A directory that already has entries
// is left untouched, so re-running the command is safe.
func Run(ctx context.Context, store BusinessStore, log zerolog.Logger) error {
	existing, err := store.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("check directory: %w", err)
	}
	if len(existing) > 0 {
		log.Info().Int("businesses", len(existing)).Msg("directory already populated, nothing to do")
		return nil
	}

	businesses := Businesses()
	for _, b := range businesses {
		if err := validate(b); err != nil {
			return err
		}
		b.ID = ids.New()
		if err := store.Create(ctx, b); err != nil {
			return fmt.Errorf("insert %q: %w", b.Name, err)
		}
	}

	log.Info().Int("businesses", len(businesses)).Msg("directory seeded")
	return nil
}

func validate(b models.Business) error {
	if len(b.Categories) == 0 {
		return fmt.Errorf("business %q: at least one category required", b.Name)
	}
	for _, category := range b.Categories {
		if _, ok := models.Categories[category]; !ok {
			return fmt.Errorf("business %q: unknown category %q", b.Name, category)
		}
	}
	for _, day := range b.Timetable {
		if day.IsClosed {
			continue
		}
		if day.OpensAt == nil || day.ClosesAt == nil ||
			!models.ValidTime24h(*day.OpensAt) || !models.ValidTime24h(*day.ClosesAt) {
			return fmt.Errorf("business %q: invalid opening hours on %s", b.Name, day.Day)
		}
	}
	return nil
}

type hours struct {
	opens  string
	closes string
}

// week fills the canonical closed-every-day timetable with the given opening
// hours; days without an entry stay closed.
func week(byDay map[string]hours) []models.TimetableDay {
	timetable := models.DefaultTimetable()
	for i, day := range timetable {
		h, ok := byDay[day.Day]
		if !ok {
			continue
		}
		opens, closes := h.opens, h.closes
		timetable[i] = models.TimetableDay{Day: day.Day, OpensAt: &opens, ClosesAt: &closes}
	}
	return timetable
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Businesses returns the starter directory entries.
func Businesses() []models.Business {
	return []models.Business{
		{
			Name:             "Maple Leaf Café",
			ShortDescription: "A cozy local café for handcrafted coffee and pastries.",
			LongDescription:  "Maple Leaf Café is a neighborhood coffee shop known for small-batch brews, fresh pastries, and a calm space for students, remote workers, and weekend catch-ups.",
			Categories:       []string{"food", "cafe", "services"},
			OwnerName:        "Avery Thompson",
			ContactPhone:     "(416) 555-0101",
			ContactEmail:     "hello@mapleleafcafe.ca",
			WebsiteURL:       "https://mapleleafcafe.ca",
			Address:          "120 Queen St W, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"07:30", "17:00"},
				"tuesday":   {"07:30", "17:00"},
				"wednesday": {"07:30", "17:00"},
				"thursday":  {"07:30", "17:00"},
				"friday":    {"07:30", "18:00"},
				"saturday":  {"08:00", "16:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "Student Morning Special",
					Description: "10% off for students before 11:00 AM.",
					StartDate:   date(2026, time.January, 1),
					EndDate:     date(2026, time.December, 31),
					IsActive:    true,
				},
			},
		},
		{
			Name:             "Northside Fitness",
			ShortDescription: "Community-focused gym with classes and personal training.",
			LongDescription:  "Northside Fitness provides strength and cardio training, group classes, and one-on-one coaching with flexible memberships and beginner-friendly support.",
			Categories:       []string{"fitness", "health", "services"},
			OwnerName:        "Jordan Patel",
			ContactPhone:     "(416) 555-0120",
			ContactEmail:     "team@northsidefitness.ca",
			WebsiteURL:       "https://northsidefitness.ca",
			Address:          "88 Bloor St E, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"05:30", "22:00"},
				"tuesday":   {"05:30", "22:00"},
				"wednesday": {"05:30", "22:00"},
				"thursday":  {"05:30", "22:00"},
				"friday":    {"05:30", "21:00"},
				"saturday":  {"07:00", "19:00"},
				"sunday":    {"08:00", "18:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "New Member Trial",
					Description: "Free first class for all new members.",
					StartDate:   date(2026, time.January, 1),
					EndDate:     date(2026, time.June, 30),
					IsActive:    true,
				},
			},
		},
		{
			Name:             "TechNest Repairs",
			ShortDescription: "Fast phone and laptop diagnostics and repairs.",
			LongDescription:  "TechNest Repairs helps residents and students with same-day diagnostics, screen and battery replacements, data recovery, and maintenance for common device issues.",
			Categories:       []string{"technology", "services", "education"},
			OwnerName:        "Chris Nguyen",
			ContactPhone:     "(416) 555-0145",
			ContactEmail:     "support@technestrepairs.ca",
			WebsiteURL:       "https://technestrepairs.ca",
			Address:          "22 King St E, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"09:00", "18:00"},
				"tuesday":   {"09:00", "18:00"},
				"wednesday": {"09:00", "18:00"},
				"thursday":  {"09:00", "18:00"},
				"friday":    {"09:00", "18:00"},
			}),
		},
		{
			Name:             "Bright Minds Tutoring",
			ShortDescription: "After-school tutoring in math, science, and coding.",
			LongDescription:  "Bright Minds Tutoring offers personalized learning plans for middle-school through college students, with small sessions focused on confidence and long-term outcomes.",
			Categories:       []string{"education", "services"},
			OwnerName:        "Samantha Lee",
			ContactPhone:     "(416) 555-0188",
			ContactEmail:     "info@brightmindstutoring.ca",
			WebsiteURL:       "https://brightmindstutoring.ca",
			Address:          "350 College St, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"15:00", "20:00"},
				"tuesday":   {"15:00", "20:00"},
				"wednesday": {"15:00", "20:00"},
				"thursday":  {"15:00", "20:00"},
				"sunday":    {"10:00", "14:00"},
			}),
		},
		{
			Name:             "Downtown Boutique",
			ShortDescription: "Handmade clothing and accessories from local makers.",
			LongDescription:  "Downtown Boutique curates apparel, jewelry, and seasonal collections from independent creators, with new drops and limited runs released throughout the month.",
			Categories:       []string{"retail", "services", "entertainment"},
			OwnerName:        "Mila Rossi",
			ContactPhone:     "(416) 555-0166",
			ContactEmail:     "shop@downtownboutique.ca",
			WebsiteURL:       "https://downtownboutique.ca",
			Address:          "541 Dundas St W, Toronto, ON",
			Timetable: week(map[string]hours{
				"tuesday":   {"10:00", "17:00"},
				"wednesday": {"10:00", "17:00"},
				"thursday":  {"10:00", "17:00"},
				"friday":    {"10:00", "19:00"},
				"saturday":  {"10:00", "19:00"},
			}),
		},
		{
			Name:             "Neon Arcade & VR",
			ShortDescription: "Retro arcades, VR rooms, and weekend tournaments.",
			LongDescription:  "Neon Arcade & VR blends classic cabinets with modern VR pods, offering birthday packages, esports ladders, and community game nights.",
			Categories:       []string{"entertainment", "technology", "services"},
			OwnerName:        "Diego Alvarez",
			ContactPhone:     "(416) 555-0202",
			ContactEmail:     "play@neonarcadevr.ca",
			WebsiteURL:       "https://neonarcadevr.ca",
			Address:          "14 Carlton St, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"14:00", "22:00"},
				"tuesday":   {"14:00", "22:00"},
				"wednesday": {"14:00", "22:00"},
				"thursday":  {"14:00", "23:00"},
				"friday":    {"12:00", "01:00"},
				"saturday":  {"10:00", "01:00"},
				"sunday":    {"10:00", "21:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "Two-for-One Tuesday Tokens",
					Description: "Buy one token bundle, get a second bundle free every Tuesday.",
					StartDate:   date(2026, time.February, 1),
					EndDate:     date(2026, time.December, 31),
					IsActive:    true,
				},
			},
		},
		{
			Name:             "Harbor Wellness Clinic",
			ShortDescription: "Physio, massage therapy, and holistic recovery plans.",
			LongDescription:  "Harbor Wellness Clinic supports recovery through integrated treatment plans, mobility assessments, and guided rehabilitation for athletes and office workers.",
			Categories:       []string{"health", "services", "fitness"},
			OwnerName:        "Priya Menon",
			ContactPhone:     "(416) 555-0228",
			ContactEmail:     "care@harborwellnessclinic.ca",
			WebsiteURL:       "https://harborwellnessclinic.ca",
			Address:          "210 Queens Quay W, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"08:00", "19:00"},
				"tuesday":   {"08:00", "19:00"},
				"wednesday": {"08:00", "19:00"},
				"thursday":  {"08:00", "19:00"},
				"friday":    {"08:00", "17:00"},
				"saturday":  {"09:00", "14:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "First Assessment Package",
					Description: "Initial consultation and mobility screening bundled at 20% off.",
					StartDate:   date(2026, time.March, 1),
					EndDate:     date(2026, time.September, 30),
					IsActive:    true,
				},
			},
		},
		{
			Name:             "Green Fork Meal Prep",
			ShortDescription: "Weekly chef-made meal prep with vegan and high-protein options.",
			LongDescription:  "Green Fork Meal Prep delivers rotating menu plans for families, athletes, and busy professionals with flexible pickup windows and custom nutrition plans.",
			Categories:       []string{"food", "health", "services"},
			OwnerName:        "Noah Campbell",
			ContactPhone:     "(416) 555-0255",
			ContactEmail:     "orders@greenforkmeals.ca",
			WebsiteURL:       "https://greenforkmeals.ca",
			Address:          "77 Roncesvalles Ave, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"09:00", "18:00"},
				"tuesday":   {"09:00", "18:00"},
				"wednesday": {"09:00", "18:00"},
				"thursday":  {"09:00", "18:00"},
				"friday":    {"09:00", "18:00"},
				"sunday":    {"11:00", "16:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "Family Box Intro",
					Description: "First week family-sized meal box includes 3 free desserts.",
					StartDate:   date(2026, time.January, 15),
					EndDate:     date(2026, time.December, 31),
					IsActive:    true,
				},
			},
		},
		{
			Name:             "Summit Co-Work Studio",
			ShortDescription: "Flexible coworking desks, private pods, and creator workshops.",
			LongDescription:  "Summit Co-Work Studio offers focused desk zones, podcast booths, and collaboration lounges for freelancers, startups, and distributed teams.",
			Categories:       []string{"services", "technology", "education"},
			OwnerName:        "Emma Zhao",
			ContactPhone:     "(416) 555-0299",
			ContactEmail:     "hello@summitcowork.ca",
			WebsiteURL:       "https://summitcowork.ca",
			Address:          "401 Richmond St W, Toronto, ON",
			Timetable: week(map[string]hours{
				"monday":    {"07:00", "22:00"},
				"tuesday":   {"07:00", "22:00"},
				"wednesday": {"07:00", "22:00"},
				"thursday":  {"07:00", "22:00"},
				"friday":    {"07:00", "21:00"},
				"saturday":  {"09:00", "18:00"},
				"sunday":    {"09:00", "16:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "Night Owl Pass",
					Description: "50% off desk bookings after 6 PM from Monday to Thursday.",
					StartDate:   date(2026, time.April, 1),
					EndDate:     date(2026, time.October, 31),
					IsActive:    true,
				},
			},
		},
		{
			Name:             "Riverstone Learning Hub",
			ShortDescription: "Project-based workshops for robotics, design, and entrepreneurship.",
			LongDescription:  "Riverstone Learning Hub runs evening and weekend cohorts where learners build real projects in robotics, UX design, and startup fundamentals.",
			Categories:       []string{"education", "technology"},
			OwnerName:        "Fatima El-Sayed",
			ContactPhone:     "(416) 555-0311",
			ContactEmail:     "admissions@riverstonehub.ca",
			WebsiteURL:       "https://riverstonehub.ca",
			Address:          "98 Spadina Ave, Toronto, ON",
			Timetable: week(map[string]hours{
				"tuesday":   {"13:00", "21:00"},
				"wednesday": {"13:00", "21:00"},
				"thursday":  {"13:00", "21:00"},
				"friday":    {"13:00", "21:00"},
				"saturday":  {"09:00", "17:00"},
				"sunday":    {"10:00", "16:00"},
			}),
			Deals: []models.Deal{
				{
					Title:       "Bootcamp Bundle",
					Description: "Enroll in two weekend bootcamps and save 25% on the second.",
					StartDate:   date(2026, time.May, 1),
					EndDate:     date(2026, time.December, 15),
					IsActive:    true,
				},
			},
		},
	}
}
