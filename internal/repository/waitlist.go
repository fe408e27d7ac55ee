// internal/repository/waitlist.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"puppy-admin/internal/common/breaker"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/models"
	"puppy-admin/internal/waitlist"
)

const (
	listApplicationsQuery = `SELECT id, first_name, last_name, email, phone_number,
       application_date, status, gender_preference, living_situation
FROM waitlist_applications
ORDER BY application_date DESC, id`

	updateStatusQuery = `UPDATE waitlist_applications SET status = $1, updated_at = now() WHERE id = $2`
)

// WaitlistRepository is the remote data service behind waitlist screens.
type WaitlistRepository struct {
	db      *sql.DB
	breaker *breaker.Breaker
	timeout time.Duration
	log     logger.Logger
}

var _ waitlist.Service = (*WaitlistRepository)(nil)

func NewWaitlistRepository(db *sql.DB, b *breaker.Breaker, timeout time.Duration, log logger.Logger) *WaitlistRepository {
	return &WaitlistRepository{
		db:      db,
		breaker: b,
		timeout: timeout,
		log:     logger.Component(log, "waitlist-repository"),
	}
}

func (r *WaitlistRepository) ListApplications(ctx context.Context) ([]models.WaitlistApplication, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	out := []models.WaitlistApplication{}
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, listApplicationsQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			app, err := scanApplication(rows)
			if err != nil {
				return err
			}
			out = append(out, app)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to list waitlist applications", nil)
		return nil, classify(err)
	}
	return out, nil
}

func (r *WaitlistRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, updateStatusQuery, string(status), id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: application %s", waitlist.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		r.log.WithError(err).Warn("Failed to update application status", map[string]interface{}{
			"applicationId": id,
			"status":        string(status),
		})
		return classify(err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(s scanner) (models.WaitlistApplication, error) {
	var (
		app       models.WaitlistApplication
		appliedOn time.Time
		status    string
		gender    sql.NullString
		living    sql.NullString
	)
	if err := s.Scan(&app.ID, &app.FirstName, &app.LastName, &app.Email, &app.PhoneNumber,
		&appliedOn, &status, &gender, &living); err != nil {
		return app, fmt.Errorf("failed to scan application: %w", err)
	}

	parsed, err := models.ParseApplicationStatus(status)
	if err != nil {
		return app, err
	}
	app.Status = parsed
	app.ApplicationDate = models.NewDate(appliedOn.Year(), appliedOn.Month(), appliedOn.Day())
	app.GenderPreference = nullable(gender)
	app.LivingSituation = nullable(living)
	return app, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
