// internal/repository/puppies.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"puppy-admin/internal/common/breaker"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/models"
)

const (
	listPuppiesQuery = `SELECT id, name, gender, available_date, image_url, created_at
FROM puppies
ORDER BY available_date, id`

	insertPuppyQuery = `INSERT INTO puppies (name, gender, available_date, image_url)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
)

type PuppyRepository struct {
	db      *sql.DB
	breaker *breaker.Breaker
	timeout time.Duration
	log     logger.Logger
}

func NewPuppyRepository(db *sql.DB, b *breaker.Breaker, timeout time.Duration, log logger.Logger) *PuppyRepository {
	return &PuppyRepository{db: db, breaker: b, timeout: timeout, log: logger.Component(log, "puppy-repository")}
}

func (r *PuppyRepository) List(ctx context.Context) ([]models.Puppy, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out := []models.Puppy{}
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, listPuppiesQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				p         models.Puppy
				gender    string
				available time.Time
			)
			if err := rows.Scan(&p.ID, &p.Name, &gender, &available, &p.ImageURL, &p.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan puppy: %w", err)
			}
			p.Gender = models.PuppyGender(gender)
			p.AvailableDate = models.NewDate(available.Year(), available.Month(), available.Day())
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to list puppies", nil)
		return nil, classify(err)
	}
	return out, nil
}

// Create inserts a validated puppy and returns the stored row.
func (r *PuppyRepository) Create(ctx context.Context, in models.NewPuppy) (*models.Puppy, error) {
	available, err := models.ParseDate(in.AvailableDate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	p := &models.Puppy{
		Name:          in.Name,
		Gender:        in.Gender,
		AvailableDate: available,
		ImageURL:      in.ImageURL,
	}
	err = r.breaker.Do(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, insertPuppyQuery,
			p.Name, string(p.Gender), available.Time, p.ImageURL,
		).Scan(&p.ID, &p.CreatedAt)
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to insert puppy", map[string]interface{}{"name": in.Name})
		return nil, classify(err)
	}

	r.log.Info("Puppy added", map[string]interface{}{"puppyId": p.ID})
	return p, nil
}
