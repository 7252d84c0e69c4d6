// Package review owns material lifecycle, due-date evaluation, streak
// accounting and achievements for every user.
//
// The Engine keeps the whole dataset in memory behind one RWMutex. A mutation
// works on a copy of the user's state, persists the full dataset through the
// storage.Store, and only then replaces the in-memory copy, so a failed save
// leaves the engine exactly as it was. Reads return deep copies.
package review

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/internal/storage"
	"github.com/example/reviewbot/pkg/models"
)

// StatsReport is the read model returned by GetStats.
type StatsReport struct {
	CompletedCount  int
	InProgressCount int
	Streak          int
	Level           string
	Achievements    []string
	LastReviewDate  *models.Date
}

// Engine is the review scheduling and progress-tracking service.
type Engine struct {
	mu    sync.RWMutex
	data  models.Dataset
	store storage.Store

	rules Rules
	now   func() time.Time
	loc   *time.Location
	intn  func(n int) int
	newID func() string
	log   *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default curve, level and badge tables.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone in which calendar days are counted.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithRandom sets the function used to pick a random index in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// WithIDGenerator sets how material identifiers are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New loads the dataset from store and returns a ready engine.
func New(ctx context.Context, store storage.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		rules: DefaultRules(),
		now:   time.Now,
		loc:   time.Local,
		intn:  rand.IntN,
		newID: uuid.NewString,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.rules.Validate(); err != nil {
		return nil, err
	}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load review data: %w", err)
	}
	if data == nil {
		data = models.Dataset{}
	}

	// Documents written before materials carried ids get them now; they are
	// persisted with the next mutation.
	assigned := 0
	for id, st := range data {
		for i := range st.Materials {
			if st.Materials[i].ID == "" {
				st.Materials[i].ID = e.newID()
				assigned++
			}
		}
		data[id] = st
	}
	if assigned > 0 {
		e.log.Warn("assigned ids to materials without one", "count", assigned)
	}

	e.data = data
	e.log.Info("review engine ready", "users", len(data))
	return e, nil
}

// Today returns the current calendar day in the engine's location.
func (e *Engine) Today() models.Date {
	return models.DateOf(e.now().In(e.loc))
}

// Rules returns the tables the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// EnsureUser creates the default state for userID if it does not exist yet.
// It is idempotent and persists only when it creates something.
func (e *Engine) EnsureUser(ctx context.Context, userID string) error {
	e.mu.RLock()
	_, ok := e.data[userID]
	e.mu.RUnlock()
	if ok {
		return nil
	}
	return e.update(ctx, userID, func(st *models.UserState) error { return nil })
}

// AddMaterial schedules text for review starting today.
func (e *Engine) AddMaterial(ctx context.Context, userID, text string) (models.Material, error) {
	var added models.Material
	err := e.update(ctx, userID, func(st *models.UserState) error {
		added = e.appendMaterial(st, text, e.Today())
		return nil
	})
	if err != nil {
		return models.Material{}, err
	}
	e.log.Info("material added", "user_id", userID, "material_id", added.ID)
	return added.Clone(), nil
}

// ImportMaterials adds every non-blank text in one persisted transition and
// returns how many were added.
func (e *Engine) ImportMaterials(ctx context.Context, userID string, texts []string) (int, error) {
	added := 0
	err := e.update(ctx, userID, func(st *models.UserState) error {
		today := e.Today()
		for _, text := range texts {
			if strings.TrimSpace(text) == "" {
				continue
			}
			e.appendMaterial(st, text, today)
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.log.Info("materials imported", "user_id", userID, "count", added)
	return added, nil
}

func (e *Engine) appendMaterial(st *models.UserState, text string, today models.Date) models.Material {
	schedule := make([]models.Date, len(e.rules.Intervals))
	for i, days := range e.rules.Intervals {
		schedule[i] = today.AddDays(days)
	}
	m := models.Material{
		ID:             e.newID(),
		Text:           text,
		ReviewSchedule: schedule,
		CreatedDate:    today,
	}
	st.Materials = append(st.Materials, m)
	st.Stats.InProgressCount++
	return m
}

// GetDueReviews returns, in insertion order, every material not yet completed
// whose current scheduled date is today or earlier.
func (e *Engine) GetDueReviews(userID string) []models.Material {
	today := e.Today()
	due := []models.Material{}

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, m := range e.data[userID].Materials {
		if m.IsDue(today) {
			due = append(due, m.Clone())
		}
	}
	return due
}

// DueCount is len(GetDueReviews(userID)) without the copies.
func (e *Engine) DueCount(userID string) int {
	today := e.Today()

	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, m := range e.data[userID].Materials {
		if m.IsDue(today) {
			n++
		}
	}
	return n
}

// GetAllMaterials returns every material of the user in insertion order.
func (e *Engine) GetAllMaterials(userID string) []models.Material {
	e.mu.RLock()
	defer e.mu.RUnlock()
	src := e.data[userID].Materials
	all := make([]models.Material, len(src))
	for i, m := range src {
		all[i] = m.Clone()
	}
	return all
}

// GetRandomMaterial picks uniformly among all of the user's materials,
// completed ones included. It reports false when the user has none.
func (e *Engine) GetRandomMaterial(userID string) (models.Material, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	materials := e.data[userID].Materials
	if len(materials) == 0 {
		return models.Material{}, false
	}
	return materials[e.intn(len(materials))].Clone(), true
}

// GetStats reports the user's counters, streak level and badges.
func (e *Engine) GetStats(userID string) StatsReport {
	e.mu.RLock()
	st, ok := e.data[userID]
	if ok {
		st = st.Clone()
	} else {
		st = models.NewUserState()
	}
	e.mu.RUnlock()

	return StatsReport{
		CompletedCount:  st.Stats.CompletedCount,
		InProgressCount: st.Stats.InProgressCount,
		Streak:          st.Stats.Streak,
		Level:           e.rules.Level(st.Stats.Streak),
		Achievements:    st.Stats.Achievements,
		LastReviewDate:  st.Stats.LastReviewDate,
	}
}

// Users returns every known user id, sorted.
func (e *Engine) Users() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.data))
	for id := range e.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// update applies fn to a copy of the user's state (a fresh default state for
// a new user), saves the resulting dataset and commits it in memory.
func (e *Engine) update(ctx context.Context, userID string, fn func(st *models.UserState) error) error {
	if strings.TrimSpace(userID) == "" {
		return ErrEmptyUserID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.data[userID]
	if ok {
		st = st.Clone()
	} else {
		st = models.NewUserState()
	}
	if err := fn(&st); err != nil {
		return err
	}

	next := make(models.Dataset, len(e.data)+1)
	for id, s := range e.data {
		next[id] = s
	}
	next[userID] = st

	if err := e.store.Save(ctx, next); err != nil {
		e.log.Error("failed to persist review data", "user_id", userID, "error", err)
		return fmt.Errorf("failed to persist review data: %w", err)
	}
	e.data = next
	return nil
}
