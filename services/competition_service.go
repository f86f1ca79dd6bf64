package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
	"github.com/contestly/competition-hub/storage"
)

// CompetitionInput carries the admin-supplied fields of a competition.
// Deadline is a date; it is normalized to end of day (23:59:59) on write.
type CompetitionInput struct {
	Title             string                     `json:"title"`
	ShortDescription  string                     `json:"short_description"`
	Description       string                     `json:"description"`
	Category          models.CompetitionCategory `json:"category"`
	Type              models.CompetitionType     `json:"type"`
	EntryRequirements string                     `json:"entry_requirements"`
	Prize             string                     `json:"prize"`
	Deadline          string                     `json:"deadline"` // YYYY-MM-DD
	ImageURL          string                     `json:"image_url,omitempty"`
}

// CompetitionFilter is applied as an intersection of its non-empty members.
type CompetitionFilter struct {
	Search       string
	Categories   []string
	Types        []string
	Requirements []string
	Status       *models.CompetitionStatus
}

type CompetitionService interface {
	Create(ctx context.Context, input CompetitionInput) (*models.Competition, error)
	Update(ctx context.Context, id int, input CompetitionInput) (*models.Competition, error)
	Archive(ctx context.Context, id int) (*models.Competition, error)
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, filter CompetitionFilter) ([]models.Competition, error)
	Seed(ctx context.Context) ([]models.Competition, error)
	UploadImage(ctx context.Context, id int, file storage.UploadFile) (*models.Competition, error)
}

type competitionService struct {
	repo     repositories.CompetitionRepository
	uploader storage.FileUploader
	now      func() time.Time
}

func NewCompetitionService(repo repositories.CompetitionRepository, uploader storage.FileUploader) CompetitionService {
	return &competitionService{
		repo:     repo,
		uploader: uploader,
		now:      time.Now,
	}
}

func (s *competitionService) Create(ctx context.Context, input CompetitionInput) (*models.Competition, error) {
	c, err := s.competitionFromInput(input)
	if err != nil {
		return nil, err
	}
	c.Status = models.CompetitionActive

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	s.resolveImageURL(c)
	return c, nil
}

func (s *competitionService) Update(ctx context.Context, id int, input CompetitionInput) (*models.Competition, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCompetitionRepoError(err)
	}

	updated, err := s.competitionFromInput(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.ImageKey = existing.ImageKey

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	s.resolveImageURL(updated)
	return updated, nil
}

func (s *competitionService) Archive(ctx context.Context, id int) (*models.Competition, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	if c.Status == models.CompetitionArchived || c.Status == models.CompetitionCompleted {
		return nil, ErrCompetitionNotArchivable
	}
	if err := s.repo.UpdateStatus(ctx, nil, id, models.CompetitionArchived); err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	c.Status = models.CompetitionArchived
	s.resolveImageURL(c)
	return c, nil
}

func (s *competitionService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapCompetitionRepoError(err)
	}
	return nil
}

func (s *competitionService) Get(ctx context.Context, id int) (*models.Competition, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	s.resolveImageURL(c)
	return c, nil
}

func (s *competitionService) List(ctx context.Context, filter CompetitionFilter) ([]models.Competition, error) {
	competitions, err := s.repo.List(ctx, repositories.ListCompetitionsFilter{Status: filter.Status})
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Competition, 0, len(competitions))
	for i := range competitions {
		c := &competitions[i]
		if !matchesFilter(c, filter) {
			continue
		}
		s.resolveImageURL(c)
		filtered = append(filtered, *c)
	}
	return filtered, nil
}

// matchesFilter intersects all active filter members: free-text search over the
// three text fields, category membership, type membership, and
// requirement-token membership.
func matchesFilter(c *models.Competition, filter CompetitionFilter) bool {
	if search := strings.TrimSpace(strings.ToLower(filter.Search)); search != "" {
		haystack := strings.ToLower(c.Title + " " + c.Description + " " + c.ShortDescription)
		if !strings.Contains(haystack, search) {
			return false
		}
	}
	if len(filter.Categories) > 0 && !containsFold(filter.Categories, string(c.Category)) {
		return false
	}
	if len(filter.Types) > 0 && !containsFold(filter.Types, string(c.Type)) {
		return false
	}
	if len(filter.Requirements) > 0 {
		tokens := SplitRequirements(c.EntryRequirements)
		for _, want := range filter.Requirements {
			if !containsFold(tokens, want) {
				return false
			}
		}
	}
	return true
}

// SplitRequirements splits a comma-separated entry_requirements value into
// trimmed tokens.
func SplitRequirements(raw string) []string {
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(strings.TrimSpace(h), needle) {
			return true
		}
	}
	return false
}

func (s *competitionService) UploadImage(ctx context.Context, id int, file storage.UploadFile) (*models.Competition, error) {
	if s.uploader == nil {
		return nil, ErrImageStorageDisabled
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCompetitionRepoError(err)
	}

	key := fmt.Sprintf("competitions/%d/%s", c.ID, file.Name)
	if err := s.uploader.Upload(ctx, key, file); err != nil {
		return nil, fmt.Errorf("failed to upload competition image: %w", err)
	}
	if err := s.repo.UpdateImageKey(ctx, c.ID, &key); err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	c.ImageKey = &key
	s.resolveImageURL(c)
	return c, nil
}

func (s *competitionService) resolveImageURL(c *models.Competition) {
	if c.ImageKey == nil || s.uploader == nil {
		return
	}
	publicURL := s.uploader.PublicURL(*c.ImageKey)
	c.ImageURL = &publicURL
}

func (s *competitionService) competitionFromInput(input CompetitionInput) (*models.Competition, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.ShortDescription) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.EntryRequirements) == "" ||
		strings.TrimSpace(input.Prize) == "" ||
		strings.TrimSpace(input.Deadline) == "" {
		return nil, ErrCompetitionFieldsRequired
	}
	if !models.ValidCompetitionCategory(input.Category) {
		return nil, ErrCompetitionInvalidCategory
	}
	if !models.ValidCompetitionType(input.Type) {
		return nil, ErrCompetitionInvalidType
	}
	if input.ImageURL != "" {
		if u, err := url.Parse(input.ImageURL); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, ErrCompetitionInvalidImageURL
		}
	}

	deadline, err := normalizeDeadline(input.Deadline)
	if err != nil {
		return nil, err
	}

	return &models.Competition{
		Title:             strings.TrimSpace(input.Title),
		ShortDescription:  strings.TrimSpace(input.ShortDescription),
		Description:       strings.TrimSpace(input.Description),
		Category:          input.Category,
		Type:              input.Type,
		EntryRequirements: strings.TrimSpace(input.EntryRequirements),
		Prize:             strings.TrimSpace(input.Prize),
		Deadline:          deadline,
	}, nil
}

// normalizeDeadline parses a YYYY-MM-DD date (a full timestamp is also
// accepted) and pins it to 23:59:59 local time of that day.
func normalizeDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, raw)
		if tsErr != nil {
			return time.Time{}, fmt.Errorf("%w: deadline must be a YYYY-MM-DD date", ErrValidationFailed)
		}
		day = ts.Local()
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.Local), nil
}

func mapCompetitionRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCompetitionNotFound):
		return ErrCompetitionNotFound
	case errors.Is(err, repositories.ErrCompetitionTitleConflict):
		return ErrCompetitionTitleConflict
	case errors.Is(err, repositories.ErrCompetitionInUse):
		return ErrCompetitionInUse
	case errors.Is(err, repositories.ErrCompetitionAlreadyDecided):
		return ErrAlreadyDecided
	default:
		return err
	}
}
