package services

import (
	"context"
	"sync"
	"time"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
)

// In-memory fakes for the repository interfaces. They reproduce the
// constraint behavior the postgres implementations map from pq errors
// (unique pairs, winner_id IS NULL guard) so service rules can be
// exercised without a database.

type fakeCompetitionRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.Competition
}

func newFakeCompetitionRepo() *fakeCompetitionRepo {
	return &fakeCompetitionRepo{rows: map[int]*models.Competition{}}
}

func (r *fakeCompetitionRepo) Create(ctx context.Context, c *models.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Title == c.Title {
			return repositories.ErrCompetitionTitleConflict
		}
	}
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeCompetitionRepo) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrCompetitionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompetitionRepo) List(ctx context.Context, filter repositories.ListCompetitionsFilter) ([]models.Competition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Competition{}
	for id := 1; id <= r.nextID; id++ {
		c, ok := r.rows[id]
		if !ok {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCompetitionRepo) Update(ctx context.Context, c *models.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[c.ID]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeCompetitionRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.CompetitionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return repositories.ErrCompetitionNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCompetitionRepo) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return repositories.ErrCompetitionNotFound
	}
	c.ImageKey = imageKey
	return nil
}

func (r *fakeCompetitionRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrCompetitionNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeCompetitionRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows), nil
}

func (r *fakeCompetitionRepo) DecideWinner(ctx context.Context, exec repositories.SQLExecutor, competitionID, submissionID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[competitionID]
	if !ok {
		return repositories.ErrCompetitionNotFound
	}
	if c.WinnerID != nil {
		return repositories.ErrCompetitionAlreadyDecided
	}
	c.WinnerID = &submissionID
	c.Status = models.CompetitionCompleted
	return nil
}

func (r *fakeCompetitionRepo) ListAwaitingWinner(ctx context.Context) ([]models.Competition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	out := []models.Competition{}
	for id := 1; id <= r.nextID; id++ {
		c, ok := r.rows[id]
		if !ok {
			continue
		}
		if c.Deadline.Before(now) && c.WinnerID == nil && c.Status != models.CompetitionArchived {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCompetitionRepo) RepairCompletedStatuses(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	repaired := 0
	for _, c := range r.rows {
		if c.WinnerID != nil && c.Status != models.CompetitionCompleted {
			c.Status = models.CompetitionCompleted
			repaired++
		}
	}
	return repaired, nil
}

type fakeParticipationRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.Participation
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{rows: map[int]*models.Participation{}}
}

func (r *fakeParticipationRepo) Create(ctx context.Context, p *models.Participation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == p.UserID && existing.CompetitionID == p.CompetitionID {
			return repositories.ErrParticipationConflict
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeParticipationRepo) FindByID(ctx context.Context, id int) (*models.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrParticipationNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipationRepo) FindByUserAndCompetition(ctx context.Context, userID string, competitionID int) (*models.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.UserID == userID && p.CompetitionID == competitionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipationNotFound
}

func (r *fakeParticipationRepo) UpdateProgress(ctx context.Context, id, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return repositories.ErrParticipationNotFound
	}
	p.Progress = progress
	return nil
}

func (r *fakeParticipationRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.ParticipationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return repositories.ErrParticipationNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeParticipationRepo) CloseForCompetition(ctx context.Context, exec repositories.SQLExecutor, competitionID, winnerParticipationID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.CompetitionID != competitionID || p.ID == winnerParticipationID {
			continue
		}
		p.Status = models.ParticipationCompleted
		if p.Result == nil {
			result := models.ResultParticipant
			p.Result = &result
		}
	}
	return nil
}

func (r *fakeParticipationRepo) SetResult(ctx context.Context, exec repositories.SQLExecutor, id int, result models.ParticipationResult, position *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return repositories.ErrParticipationNotFound
	}
	p.Status = models.ParticipationCompleted
	p.Result = &result
	p.Position = position
	return nil
}

func (r *fakeParticipationRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Participation{}
	for id := 1; id <= r.nextID; id++ {
		p, ok := r.rows[id]
		if ok && p.UserID == userID && p.Active() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeParticipationRepo) ListPastByUser(ctx context.Context, userID string) ([]models.Participation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Participation{}
	for id := 1; id <= r.nextID; id++ {
		p, ok := r.rows[id]
		if ok && p.UserID == userID && !p.Active() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeParticipationRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.rows {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeSubmissionRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{rows: map[int]*models.Submission{}}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == s.UserID && existing.CompetitionID == s.CompetitionID {
			return repositories.ErrSubmissionConflict
		}
	}
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	cp := *s
	r.rows[s.ID] = &cp
	return nil
}

func (r *fakeSubmissionRepo) FindByID(ctx context.Context, id int) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrSubmissionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSubmissionRepo) UpdateStatusFromPending(ctx context.Context, id int, status models.SubmissionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.Status != models.SubmissionPending {
		return repositories.ErrSubmissionNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSubmissionRepo) ListByCompetitionAndStatus(ctx context.Context, competitionID int, status models.SubmissionStatus) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Submission{}
	for id := 1; id <= r.nextID; id++ {
		s, ok := r.rows[id]
		if ok && s.CompetitionID == competitionID && s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeAchievementRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.UserAchievement

	listErr error
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{rows: map[int]*models.UserAchievement{}}
}

func (r *fakeAchievementRepo) FindByUserAndAchievement(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ua := range r.rows {
		if ua.UserID == userID && ua.AchievementID == achievementID {
			cp := *ua
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserAchievementNotFound
}

func (r *fakeAchievementRepo) Create(ctx context.Context, ua *models.UserAchievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ua.ID = r.nextID
	ua.UpdatedAt = time.Now()
	cp := *ua
	r.rows[ua.ID] = &cp
	return nil
}

func (r *fakeAchievementRepo) UpdateProgress(ctx context.Context, id, progress int, unlocked bool, unlockedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ua, ok := r.rows[id]
	if !ok {
		return repositories.ErrUserAchievementNotFound
	}
	ua.Progress = progress
	ua.Unlocked = unlocked
	ua.UnlockedAt = unlockedAt
	ua.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAchievementRepo) ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []models.UserAchievement{}
	for id := 1; id <= r.nextID; id++ {
		ua, ok := r.rows[id]
		if ok && ua.UserID == userID {
			out = append(out, *ua)
		}
	}
	return out, nil
}

type fakeSavedRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.SavedCompetition
}

func newFakeSavedRepo() *fakeSavedRepo {
	return &fakeSavedRepo{rows: map[int]*models.SavedCompetition{}}
}

func (r *fakeSavedRepo) Save(ctx context.Context, sc *models.SavedCompetition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.UserID == sc.UserID && existing.CompetitionID == sc.CompetitionID {
			return repositories.ErrSavedCompetitionConflict
		}
	}
	r.nextID++
	sc.ID = r.nextID
	sc.CreatedAt = time.Now()
	cp := *sc
	r.rows[sc.ID] = &cp
	return nil
}

func (r *fakeSavedRepo) Unsave(ctx context.Context, userID string, competitionID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sc := range r.rows {
		if sc.UserID == userID && sc.CompetitionID == competitionID {
			delete(r.rows, id)
			return nil
		}
	}
	return repositories.ErrSavedCompetitionNotFound
}

func (r *fakeSavedRepo) Exists(ctx context.Context, userID string, competitionID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sc := range r.rows {
		if sc.UserID == userID && sc.CompetitionID == competitionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSavedRepo) ListByUser(ctx context.Context, userID string) ([]models.SavedCompetition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.SavedCompetition{}
	for id := 1; id <= r.nextID; id++ {
		sc, ok := r.rows[id]
		if ok && sc.UserID == userID {
			out = append(out, *sc)
		}
	}
	return out, nil
}

// fakeTransactor runs the callback without a transaction; the fakes ignore
// the executor argument.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *fakeBroadcaster) BroadcastEvent(event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *fakeBroadcaster) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}
