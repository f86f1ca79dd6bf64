package services

import (
	"context"
	"fmt"
	"time"

	"github.com/contestly/competition-hub/models"
)

// Seed inserts the sample competition set, one per category, iff the catalog
// is still empty.
func (s *competitionService) Seed(ctx context.Context) ([]models.Competition, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing competitions: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadySeeded
	}

	now := s.now()
	seeds := []models.Competition{
		{
			Title:             "Logo Design Challenge",
			ShortDescription:  "Design a logo for a tech startup and win cash prizes.",
			Description:       "Create a stunning logo for our new tech startup. The winning design will be used as our official brand identity and the designer will receive recognition on our website and social media channels.",
			Category:          models.CategoryDesign,
			Type:              models.TypeSkill,
			EntryRequirements: "Free, Email",
			Prize:             "$500 Cash Prize",
			Deadline:          endOfDay(now.AddDate(0, 0, 30)),
		},
		{
			Title:             "Photography Contest",
			ShortDescription:  "Submit nature photos for a chance to be featured in our calendar.",
			Description:       "Submit your best nature photography for a chance to be featured in our annual calendar. We're looking for stunning landscapes, wildlife, and macro nature shots that capture the beauty of our natural world.",
			Category:          models.CategoryPhotography,
			Type:              models.TypeSkill,
			EntryRequirements: "Free, Social Media",
			Prize:             "Featured in Calendar + $300",
			Deadline:          endOfDay(now.AddDate(0, 0, 20)),
		},
		{
			Title:             "Weekly Giveaway",
			ShortDescription:  "Enter for a chance to win the latest tech gadgets.",
			Description:       "Enter our weekly giveaway for a chance to win the latest tech gadgets. This week we're giving away the newest smartphone model that hasn't even hit the stores yet!",
			Category:          models.CategoryTechnology,
			Type:              models.TypeLuck,
			EntryRequirements: "Email, Social Media",
			Prize:             "Latest Smartphone",
			Deadline:          endOfDay(now.AddDate(0, 0, 7)),
		},
		{
			Title:             "Content Writing Challenge",
			ShortDescription:  "Write about AI and get published on our popular blog.",
			Description:       "Write a compelling blog post on the future of artificial intelligence. The winning entry will be published on our blog with full attribution and the writer will receive a cash prize.",
			Category:          models.CategoryWriting,
			Type:              models.TypeSkill,
			EntryRequirements: "Free, Email",
			Prize:             "$400 + Publication",
			Deadline:          endOfDay(now.AddDate(0, 0, 25)),
		},
		{
			Title:             "Marketing Strategy Contest",
			ShortDescription:  "Create a marketing strategy for our new product launch.",
			Description:       "Develop an innovative marketing strategy for our new product launch. We're looking for fresh ideas that will help us reach new audiences and create buzz around our upcoming release.",
			Category:          models.CategoryMarketing,
			Type:              models.TypeSkill,
			EntryRequirements: "Free, Email",
			Prize:             "$750 Cash Prize",
			Deadline:          endOfDay(now.AddDate(0, 0, 40)),
		},
		{
			Title:             "Monthly Sweepstakes",
			ShortDescription:  "Win a luxury weekend getaway for two.",
			Description:       "Enter our monthly sweepstakes for a chance to win a luxury weekend getaway for two. Prize includes flights, 5-star hotel accommodation, and spending money.",
			Category:          models.CategoryTravel,
			Type:              models.TypeLuck,
			EntryRequirements: "Purchase, Email",
			Prize:             "Weekend Getaway ($2000 value)",
			Deadline:          endOfDay(now.AddDate(0, 0, 30)),
		},
	}

	created := make([]models.Competition, 0, len(seeds))
	for i := range seeds {
		seeds[i].Status = models.CompetitionActive
		if err := s.repo.Create(ctx, &seeds[i]); err != nil {
			return nil, fmt.Errorf("failed to seed competition %q: %w", seeds[i].Title, err)
		}
		created = append(created, seeds[i])
	}
	return created, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
