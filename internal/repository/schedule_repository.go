package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chrisrehm/theo/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrNotFound   = errors.New("scheduled post not found")
	ErrNotPending = errors.New("scheduled post is not pending")
)

type ScheduleRepository interface {
	Add(ctx context.Context, post *models.ScheduledPost) (string, error)
	Get(ctx context.Context, id string) (*models.ScheduledPost, error)
	List(ctx context.Context) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	MarkPosted(ctx context.Context, id, postURL string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	Cancel(ctx context.Context, id string) error
	History(ctx context.Context, limit int) ([]*models.ScheduledPost, error)
}

// scheduleRepository stores the whole schedule in one JSON file, read and
// rewritten wholesale on every operation. There is no locking; overlapping
// invocations can race, which is acceptable for a single-operator tool.
type scheduleRepository struct {
	path string
}

func NewScheduleRepository(path string) ScheduleRepository {
	return &scheduleRepository{path: path}
}

func (r *scheduleRepository) load() (*models.Schedule, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Schedule{ScheduledPosts: []*models.ScheduledPost{}}, nil
		}
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}

	var schedule models.Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("parsing schedule file: %w", err)
	}
	if schedule.ScheduledPosts == nil {
		schedule.ScheduledPosts = []*models.ScheduledPost{}
	}
	return &schedule, nil
}

func (r *scheduleRepository) save(schedule *models.Schedule) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating schedule directory: %w", err)
	}
	data, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing schedule file: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Add(ctx context.Context, post *models.ScheduledPost) (string, error) {
	schedule, err := r.load()
	if err != nil {
		return "", err
	}

	if post.ID == "" {
		id, err := gonanoid.New(8)
		if err != nil {
			return "", err
		}
		post.ID = id
	}
	if post.ContentType == "" {
		post.ContentType = models.ContentTypePainting
	}
	post.Status = models.PostStatusPending
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	schedule.ScheduledPosts = append(schedule.ScheduledPosts, post)
	if err := r.save(schedule); err != nil {
		return "", err
	}
	return post.ID, nil
}

func (r *scheduleRepository) Get(ctx context.Context, id string) (*models.ScheduledPost, error) {
	schedule, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, post := range schedule.ScheduledPosts {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *scheduleRepository) List(ctx context.Context) ([]*models.ScheduledPost, error) {
	schedule, err := r.load()
	if err != nil {
		return nil, err
	}
	return schedule.ScheduledPosts, nil
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	schedule, err := r.load()
	if err != nil {
		return nil, err
	}
	var due []*models.ScheduledPost
	for _, post := range schedule.ScheduledPosts {
		if post.Due(now) {
			due = append(due, post)
		}
	}
	return due, nil
}

func (r *scheduleRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	schedule, err := r.load()
	if err != nil {
		return nil, err
	}
	var upcoming []*models.ScheduledPost
	for _, post := range schedule.ScheduledPosts {
		if post.Status == models.PostStatusPending && post.ScheduledTime.After(now) {
			upcoming = append(upcoming, post)
		}
	}
	return upcoming, nil
}

func (r *scheduleRepository) MarkPosted(ctx context.Context, id, postURL string) error {
	return r.transition(id, models.PostStatusPosted, func(post *models.ScheduledPost) {
		post.PostURL = postURL
	})
}

func (r *scheduleRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	return r.transition(id, models.PostStatusFailed, func(post *models.ScheduledPost) {
		post.Error = errMsg
	})
}

func (r *scheduleRepository) Cancel(ctx context.Context, id string) error {
	return r.transition(id, models.PostStatusCancelled, nil)
}

func (r *scheduleRepository) History(ctx context.Context, limit int) ([]*models.ScheduledPost, error) {
	schedule, err := r.load()
	if err != nil {
		return nil, err
	}
	var done []*models.ScheduledPost
	for _, post := range schedule.ScheduledPosts {
		if post.Status == models.PostStatusPosted || post.Status == models.PostStatusFailed {
			done = append(done, post)
		}
	}
	sort.Slice(done, func(i, j int) bool {
		return done[i].ScheduledTime.After(done[j].ScheduledTime)
	})
	if limit > 0 && len(done) > limit {
		done = done[:limit]
	}
	return done, nil
}

// transition moves a pending post to a terminal status. A post that is not
// pending has already reached its terminal state and cannot change again.
func (r *scheduleRepository) transition(id, status string, mutate func(*models.ScheduledPost)) error {
	schedule, err := r.load()
	if err != nil {
		return err
	}
	for _, post := range schedule.ScheduledPosts {
		if post.ID != id {
			continue
		}
		if post.Status != models.PostStatusPending {
			return fmt.Errorf("%w: %s is %s", ErrNotPending, id, post.Status)
		}
		post.Status = status
		if mutate != nil {
			mutate(post)
		}
		return r.save(schedule)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
