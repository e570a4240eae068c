package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yegors/preflight/pkg/logger"
)

var (
	// ErrInvalidProfile is returned when a profile has no registration or a non-finite weight or arm
	ErrInvalidProfile = errors.New("invalid aircraft profile")
	// ErrProfileNotFound is returned when no profile has the requested ID
	ErrProfileNotFound = errors.New("aircraft profile not found")
)

// ProfileRecord is a single airframe in the user's aircraft library
type ProfileRecord struct {
	ID           int64     `json:"id"`
	Registration string    `json:"registration"`
	EmptyWeight  float64   `json:"empty_weight"`
	EmptyArm     float64   `json:"empty_arm"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileStorage handles storage of aircraft profiles
type ProfileStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewProfileStorage creates profile storage on the shared database
func NewProfileStorage(db *DB) *ProfileStorage {
	return &ProfileStorage{
		db:     db.db,
		logger: db.logger.Named("profiles"),
	}
}

// normalize trims and upper-cases the registration and validates the numbers
func normalize(p *ProfileRecord) error {
	p.Registration = strings.ToUpper(strings.TrimSpace(p.Registration))
	if p.Registration == "" {
		return fmt.Errorf("%w: registration is required", ErrInvalidProfile)
	}
	if math.IsNaN(p.EmptyWeight) || math.IsInf(p.EmptyWeight, 0) {
		return fmt.Errorf("%w: empty weight must be a number", ErrInvalidProfile)
	}
	if math.IsNaN(p.EmptyArm) || math.IsInf(p.EmptyArm, 0) {
		return fmt.Errorf("%w: empty arm must be a number", ErrInvalidProfile)
	}
	return nil
}

// List returns every profile in display order
func (s *ProfileStorage) List(ctx context.Context) ([]ProfileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, registration, empty_weight, empty_arm, position, created_at, updated_at
		FROM aircraft_profiles
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []ProfileRecord{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

// Get returns a single profile
func (s *ProfileStorage) Get(ctx context.Context, id int64) (ProfileRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, registration, empty_weight, empty_arm, position, created_at, updated_at
		FROM aircraft_profiles
		WHERE id = ?
	`, id)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProfileRecord{}, ErrProfileNotFound
	}
	return p, err
}

// Create appends a new profile at the end of the list
func (s *ProfileStorage) Create(ctx context.Context, p ProfileRecord) (ProfileRecord, error) {
	if err := normalize(&p); err != nil {
		return ProfileRecord{}, err
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO aircraft_profiles (registration, empty_weight, empty_arm, position, created_at, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM aircraft_profiles), ?, ?)
	`, p.Registration, p.EmptyWeight, p.EmptyArm, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("failed to insert profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("failed to get profile ID: %w", err)
	}

	s.logger.Info("Aircraft profile created",
		logger.Int64("id", id),
		logger.String("registration", p.Registration))

	return s.Get(ctx, id)
}

// Update replaces the registration, empty weight and empty arm of a profile
func (s *ProfileStorage) Update(ctx context.Context, p ProfileRecord) (ProfileRecord, error) {
	if err := normalize(&p); err != nil {
		return ProfileRecord{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE aircraft_profiles
		SET registration = ?, empty_weight = ?, empty_arm = ?, updated_at = ?
		WHERE id = ?
	`, p.Registration, p.EmptyWeight, p.EmptyArm, time.Now().UTC().Format(time.RFC3339Nano), p.ID)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ProfileRecord{}, ErrProfileNotFound
	}

	return s.Get(ctx, p.ID)
}

// Delete removes a profile and closes the gap in positions
func (s *ProfileStorage) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRowContext(ctx, `SELECT position FROM aircraft_profiles WHERE id = ?`, id).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM aircraft_profiles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE aircraft_profiles SET position = position - 1 WHERE position > ?`, position); err != nil {
		return fmt.Errorf("failed to compact positions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Aircraft profile deleted", logger.Int64("id", id))
	return nil
}

// Move places a profile at newPosition, shifting the profiles in between.
// Out of range positions are clamped to the ends of the list.
func (s *ProfileStorage) Move(ctx context.Context, id int64, newPosition int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldPosition, count int
	err = tx.QueryRowContext(ctx, `SELECT position FROM aircraft_profiles WHERE id = ?`, id).Scan(&oldPosition)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM aircraft_profiles`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count profiles: %w", err)
	}

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > count-1 {
		newPosition = count - 1
	}
	if newPosition == oldPosition {
		return nil
	}

	if newPosition < oldPosition {
		_, err = tx.ExecContext(ctx,
			`UPDATE aircraft_profiles SET position = position + 1 WHERE position >= ? AND position < ?`,
			newPosition, oldPosition)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE aircraft_profiles SET position = position - 1 WHERE position > ? AND position <= ?`,
			oldPosition, newPosition)
	}
	if err != nil {
		return fmt.Errorf("failed to shift profiles: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE aircraft_profiles SET position = ? WHERE id = ?`, newPosition, id); err != nil {
		return fmt.Errorf("failed to move profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Aircraft profile moved",
		logger.Int64("id", id),
		logger.Int("from", oldPosition),
		logger.Int("to", newPosition))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (ProfileRecord, error) {
	var (
		p                    ProfileRecord
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Registration, &p.EmptyWeight, &p.EmptyArm, &p.Position, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProfileRecord{}, err
		}
		return ProfileRecord{}, fmt.Errorf("failed to scan profile: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return p, nil
}
