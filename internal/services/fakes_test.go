package services

import (
	"context"
	"sync"
	"time"

	"workhub/internal/models"
	"workhub/internal/repositories"
)

// In-memory repository fakes. They mirror the behavior of the SQL
// implementations closely enough for service-level tests: version guards,
// not-found sentinels and idempotent deletes.

type fakeTaskRepo struct {
	mu       sync.Mutex
	tasks    map[string]*models.Task
	versions map[string]int64

	// conflictsLeft makes the next N versioned updates fail with
	// ErrVersionConflict while still applying a version bump, imitating a
	// concurrent writer winning the race.
	conflictsLeft int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:    map[string]*models.Task{},
		versions: map[string]int64{},
	}
}

func (r *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := task.Clone()
	r.tasks[task.ID] = &cp
	r.versions[task.ID] = 1
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id string) (*models.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, 0, repositories.ErrNotFound
	}
	cp := t.Clone()
	return &cp, r.versions[id], nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *fakeTaskRepo) FindByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.Status == models.TaskStatusDraft {
			continue
		}
		for i := range t.Modules {
			if t.Modules[i].HasAssignee(userID) {
				out = append(out, t.Clone())
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindByParticipant(ctx context.Context, userID string) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.CreatorID == userID || t.CompletedBy == userID {
			out = append(out, t.Clone())
			continue
		}
		for i := range t.Modules {
			if t.Modules[i].HasAssignee(userID) {
				out = append(out, t.Clone())
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) UpdateVersioned(ctx context.Context, task *models.Task, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.versions[task.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		r.versions[task.ID] = current + 1
		return repositories.ErrVersionConflict
	}
	if current != expectedVersion {
		return repositories.ErrVersionConflict
	}
	cp := task.Clone()
	r.tasks[task.ID] = &cp
	r.versions[task.ID] = current + 1
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	delete(r.versions, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRatingAggregate(ctx context.Context, userID string, score float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.RatingScore = score
	u.RatingCount = count
	return nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Points += delta
	return nil
}

func (r *fakeUserRepo) Leaderboard(ctx context.Context, department string) ([]*models.User, error) {
	return r.List(ctx, 0, 0)
}

func (r *fakeUserRepo) UpdateRefresh(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	return nil
}

func (r *fakeUserRepo) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) ClearRefresh(ctx context.Context, userID string) error {
	return nil
}

type ratingKey struct{ rater, rated string }

type fakeRatingRepo struct {
	mu      sync.Mutex
	records map[ratingKey]models.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{records: map[ratingKey]models.Rating{}}
}

func (r *fakeRatingRepo) Upsert(ctx context.Context, rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[ratingKey{rating.RaterID, rating.RatedID}] = *rating
	return nil
}

func (r *fakeRatingRepo) ListByRated(ctx context.Context, ratedID string) ([]models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Rating
	for k, rec := range r.records {
		if k.rated == ratedID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRatingRepo) DeleteByRated(ctx context.Context, ratedID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.records {
		if k.rated == ratedID {
			delete(r.records, k)
		}
	}
	return nil
}

func (r *fakeRatingRepo) DeleteByRater(ctx context.Context, raterID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var affected []string
	for k := range r.records {
		if k.rater == raterID {
			if !seen[k.rated] {
				seen[k.rated] = true
				affected = append(affected, k.rated)
			}
			delete(r.records, k)
		}
	}
	return affected, nil
}

type fakeSkillRepo struct {
	mu     sync.Mutex
	nextID int64
	skills map[int64]models.UserSkill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: map[int64]models.UserSkill{}}
}

func (r *fakeSkillRepo) Create(ctx context.Context, skill *models.UserSkill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	skill.ID = r.nextID
	r.skills[skill.ID] = *skill
	return nil
}

func (r *fakeSkillRepo) ListByUser(ctx context.Context, userID string) ([]models.UserSkill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.UserSkill
	for _, s := range r.skills {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSkillRepo) Validate(ctx context.Context, skillID int64, validatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.skills[skillID]
	if !ok {
		return repositories.ErrNotFound
	}
	s.Validated = true
	s.ValidatedBy = validatorID
	r.skills[skillID] = s
	return nil
}

func (r *fakeSkillRepo) DeleteByOwner(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.skills {
		if s.UserID == userID {
			delete(r.skills, id)
		}
	}
	return nil
}

func (r *fakeSkillRepo) DeleteByValidator(ctx context.Context, validatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.skills {
		if s.ValidatedBy == validatorID {
			delete(r.skills, id)
		}
	}
	return nil
}
