// internal/repository/testimonials.go
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
	listTestimonialsQuery = `SELECT id, name, rating, message, image_url, created_at
FROM testimonials
ORDER BY created_at DESC, id`

	insertTestimonialQuery = `INSERT INTO testimonials (name, rating, message, image_url)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
)

type TestimonialRepository struct {
	db      *sql.DB
	breaker *breaker.Breaker
	timeout time.Duration
	log     logger.Logger
}

func NewTestimonialRepository(db *sql.DB, b *breaker.Breaker, timeout time.Duration, log logger.Logger) *TestimonialRepository {
	return &TestimonialRepository{db: db, breaker: b, timeout: timeout, log: logger.Component(log, "testimonial-repository")}
}

func (r *TestimonialRepository) List(ctx context.Context) ([]models.Testimonial, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out := []models.Testimonial{}
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, listTestimonialsQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t models.Testimonial
			if err := rows.Scan(&t.ID, &t.Name, &t.Rating, &t.Message, &t.ImageURL, &t.CreatedAt); err != nil {
				return fmt.Errorf("failed to scan testimonial: %w", err)
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to list testimonials", nil)
		return nil, classify(err)
	}
	return out, nil
}

func (r *TestimonialRepository) Create(ctx context.Context, in models.NewTestimonial) (*models.Testimonial, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	t := &models.Testimonial{
		Name:     in.Name,
		Rating:   in.Rating,
		Message:  in.Message,
		ImageURL: in.ImageURL,
	}
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, insertTestimonialQuery,
			t.Name, t.Rating, t.Message, t.ImageURL,
		).Scan(&t.ID, &t.CreatedAt)
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to insert testimonial", map[string]interface{}{"name": in.Name})
		return nil, classify(err)
	}
	return t, nil
}
