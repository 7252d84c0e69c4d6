package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/pkg/models"
)

// SQLStore keeps the dataset in normalized tables. Save replaces every row
// inside one transaction.
type SQLStore struct {
	db  *sqlx.DB
	log *logger.Logger
}

type statsRow struct {
	UserID          string         `db:"user_id"`
	CompletedCount  int            `db:"completed_count"`
	InProgressCount int            `db:"in_progress_count"`
	Streak          int            `db:"streak"`
	LastReviewDate  sql.NullString `db:"last_review_date"`
}

type materialRow struct {
	UserID           string         `db:"user_id"`
	Seq              int            `db:"seq"`
	ID               string         `db:"id"`
	Content          string         `db:"content"`
	ReviewSchedule   string         `db:"review_schedule"`
	CurrentStep      int            `db:"current_step"`
	Completed        bool           `db:"completed"`
	CreatedDate      string         `db:"created_date"`
	LastReviewedDate sql.NullString `db:"last_reviewed_date"`
}

type achievementRow struct {
	UserID string `db:"user_id"`
	Seq    int    `db:"seq"`
	Badge  string `db:"badge"`
}

// OpenSQL connects with driver ("sqlite3" or "postgres") and creates the
// schema if needed.
func OpenSQL(driver, dsn string, log *logger.Logger) (*SQLStore, error) {
	if driver == "sqlite3" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLStore{db: db, log: log.With("store", driver)}
	if err := s.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) initializeSchema() error {
	for _, t := range schema {
		if _, err := s.db.Exec(t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}

// Load reads every table and reassembles the dataset in stored order.
func (s *SQLStore) Load(ctx context.Context) (models.Dataset, error) {
	var stats []statsRow
	if err := s.db.SelectContext(ctx, &stats, `
		SELECT user_id, completed_count, in_progress_count, streak, last_review_date
		FROM user_stats
	`); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	var materials []materialRow
	if err := s.db.SelectContext(ctx, &materials, `
		SELECT user_id, seq, id, content, review_schedule, current_step, completed,
		       created_date, last_reviewed_date
		FROM materials
		ORDER BY user_id, seq
	`); err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}

	var achievements []achievementRow
	if err := s.db.SelectContext(ctx, &achievements, `
		SELECT user_id, seq, badge
		FROM achievements
		ORDER BY user_id, seq
	`); err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	data := make(models.Dataset, len(stats))
	for _, r := range stats {
		st := models.NewUserState()
		st.Stats.CompletedCount = r.CompletedCount
		st.Stats.InProgressCount = r.InProgressCount
		st.Stats.Streak = r.Streak
		last, err := parseNullDate(r.LastReviewDate)
		if err != nil {
			return nil, fmt.Errorf("%w: user %s: %v", ErrCorrupt, r.UserID, err)
		}
		st.Stats.LastReviewDate = last
		data[r.UserID] = st
	}

	for _, r := range materials {
		st, ok := data[r.UserID]
		if !ok {
			return nil, fmt.Errorf("%w: material %s without user %s", ErrCorrupt, r.ID, r.UserID)
		}
		m, err := r.toMaterial()
		if err != nil {
			return nil, fmt.Errorf("%w: material %s: %v", ErrCorrupt, r.ID, err)
		}
		st.Materials = append(st.Materials, m)
		data[r.UserID] = st
	}

	for _, r := range achievements {
		st, ok := data[r.UserID]
		if !ok {
			return nil, fmt.Errorf("%w: achievement %q without user %s", ErrCorrupt, r.Badge, r.UserID)
		}
		st.Stats.Achievements = append(st.Stats.Achievements, r.Badge)
		data[r.UserID] = st
	}

	s.log.Debug("dataset loaded", "users", len(data), "materials", len(materials))
	return data, nil
}

// Save deletes all rows and inserts data in one transaction.
func (s *SQLStore) Save(ctx context.Context, data models.Dataset) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"achievements", "materials", "user_stats"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		st := data[id]
		if _, err = tx.NamedExecContext(ctx, `
			INSERT INTO user_stats (user_id, completed_count, in_progress_count, streak, last_review_date)
			VALUES (:user_id, :completed_count, :in_progress_count, :streak, :last_review_date)
		`, statsRow{
			UserID:          id,
			CompletedCount:  st.Stats.CompletedCount,
			InProgressCount: st.Stats.InProgressCount,
			Streak:          st.Stats.Streak,
			LastReviewDate:  nullDate(st.Stats.LastReviewDate),
		}); err != nil {
			return fmt.Errorf("failed to save stats for user %s: %w", id, err)
		}

		for i, m := range st.Materials {
			if _, err = tx.NamedExecContext(ctx, `
				INSERT INTO materials (user_id, seq, id, content, review_schedule, current_step,
				                       completed, created_date, last_reviewed_date)
				VALUES (:user_id, :seq, :id, :content, :review_schedule, :current_step,
				        :completed, :created_date, :last_reviewed_date)
			`, newMaterialRow(id, i, m)); err != nil {
				return fmt.Errorf("failed to save material %s for user %s: %w", m.ID, id, err)
			}
		}

		for i, badge := range st.Stats.Achievements {
			if _, err = tx.NamedExecContext(ctx, `
				INSERT INTO achievements (user_id, seq, badge)
				VALUES (:user_id, :seq, :badge)
			`, achievementRow{UserID: id, Seq: i, Badge: badge}); err != nil {
				return fmt.Errorf("failed to save achievement %q for user %s: %w", badge, id, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debug("dataset saved", "users", len(data))
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func newMaterialRow(userID string, seq int, m models.Material) materialRow {
	dates := make([]string, len(m.ReviewSchedule))
	for i, d := range m.ReviewSchedule {
		dates[i] = d.String()
	}
	return materialRow{
		UserID:           userID,
		Seq:              seq,
		ID:               m.ID,
		Content:          m.Text,
		ReviewSchedule:   strings.Join(dates, ","),
		CurrentStep:      m.CurrentStep,
		Completed:        m.Completed,
		CreatedDate:      m.CreatedDate.String(),
		LastReviewedDate: nullDate(m.LastReviewedDate),
	}
}

func (r materialRow) toMaterial() (models.Material, error) {
	m := models.Material{
		ID:             r.ID,
		Text:           r.Content,
		ReviewSchedule: []models.Date{},
		CurrentStep:    r.CurrentStep,
		Completed:      r.Completed,
	}
	if r.ReviewSchedule != "" {
		for _, s := range strings.Split(r.ReviewSchedule, ",") {
			d, err := models.ParseDate(s)
			if err != nil {
				return models.Material{}, err
			}
			m.ReviewSchedule = append(m.ReviewSchedule, d)
		}
	}
	created, err := models.ParseDate(r.CreatedDate)
	if err != nil {
		return models.Material{}, err
	}
	m.CreatedDate = created
	if m.LastReviewedDate, err = parseNullDate(r.LastReviewedDate); err != nil {
		return models.Material{}, err
	}
	return m, nil
}

func nullDate(d *models.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(s sql.NullString) (*models.Date, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := models.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
