// Package seed supplies the fixed starting data used when durable storage is empty.
package seed

import (
	"time"

	"campuspulse/internal/domain/club"
	"campuspulse/internal/domain/event"
)

// futureDate returns the date days after now at 18:00 in now's location.
func futureDate(now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 18, 0, 0, 0, now.Location())
}

// Clubs returns the starting club collection.
func Clubs() []club.Club {
	clubs := []club.Club{
		{ID: "tech-club", Slug: "tech-club", Name: "Tech Club", Password: "tech", Category: club.CategoryTech,
			Description: "The official hub for all tech enthusiasts on campus. We explore everything from coding to AI.", MonthlyBudget: 500},
		{ID: "sports-club", Slug: "sports-club", Name: "Sports Club", Password: "sports", Category: club.CategorySports,
			Description: "Home of campus champions. Join us for a variety of sports and fitness activities.", MonthlyBudget: 1000},
		{ID: "music-club", Slug: "music-club", Name: "Music Club", Password: "music", Category: club.CategoryMusic,
			Description: "Where melodies come to life. We host jam sessions, concerts, and music workshops.", MonthlyBudget: 300},
		{ID: "social-club", Slug: "social-club", Name: "Social Club", Password: "social", Category: club.CategorySocial,
			Description: "Connecting students through fun and engaging social events. Make new friends and create lasting memories.", MonthlyBudget: 750},
		{ID: "academic-club", Slug: "academic-club", Name: "Academic Club", Password: "academic", Category: club.CategoryAcademic,
			Description: "Fostering intellectual growth. We organize seminars, workshops, and study groups.", MonthlyBudget: 250},
	}
	for i := range clubs {
		clubs[i].Normalize()
	}
	return clubs
}

// Events returns the starting event collection, dated relative to now.
func Events(now time.Time) []event.Event {
	events := []event.Event{
		{
			ID: "1", ClubID: "tech-club", Slug: "annual-tech-summit",
			Title:       "Annual Tech Summit",
			Description: "Join us for a day of insightful talks and workshops from leaders in the tech industry. A must-attend for aspiring developers and entrepreneurs.",
			Date:        futureDate(now, 7), Location: "Main Auditorium", Category: club.CategoryTech,
			RegistrationLink: "#", Image: "https://picsum.photos/seed/tech/600/400",
		},
		{
			ID: "2", ClubID: "sports-club", Slug: "inter-college-football-championship",
			Title:       "Inter-College Football Championship",
			Description: "Cheer for your college team in the most anticipated sports event of the year. Witness thrilling matches and spectacular goals.",
			Date:        futureDate(now, 12), Location: "University Sports Ground", Category: club.CategorySports,
			RegistrationLink: "#", Image: "https://picsum.photos/seed/sports/600/400",
		},
		{
			ID: "3", ClubID: "academic-club", Slug: "quantum-physics-seminar",
			Title:       "Quantum Physics Seminar",
			Description: "A deep dive into the world of quantum mechanics with guest speaker Dr. Evelyn Reed. Expand your understanding of the universe.",
			Date:        futureDate(now, 20), Location: "Science Block, Hall C", Category: club.CategoryAcademic,
			RegistrationLink: "#", Image: "https://picsum.photos/seed/academic/600/400",
		},
		{
			ID: "4", ClubID: "music-club", Slug: "spring-fest-music-night",
			Title:       "Spring Fest Music Night",
			Description: "An unforgettable night of live music featuring student bands and a headline performance by a surprise guest artist. Don't miss out!",
			Date:        futureDate(now, 25), Location: "Central Plaza", Category: club.CategoryMusic,
			RegistrationLink: "#", Image: "https://picsum.photos/seed/music/600/400",
		},
		{
			ID: "5", ClubID: "social-club", Slug: "charity-gala-and-social-mixer",
			Title:       "Charity Gala & Social Mixer",
			Description: "A beautiful evening dedicated to a good cause. Mingle with fellow students and faculty, with all proceeds going to local charities.",
			Date:        futureDate(now, 30), Location: "Grand Ballroom", Category: club.CategorySocial,
			RegistrationLink: "#", Image: "https://picsum.photos/seed/social/600/400",
		},
	}
	for i := range events {
		events[i].Normalize()
	}
	return events
}

// Data returns both collections. It has the shape the store expects of a seed provider.
func Data(now time.Time) ([]club.Club, []event.Event) {
	return Clubs(), Events(now)
}
