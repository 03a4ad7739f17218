package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"houseprice/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SavePrediction stores one prediction history row.
func (r *PostgresRepository) SavePrediction(ctx context.Context, rec *model.PredictionRecord) error {
	query := `
		INSERT INTO predictions (id, features, predicted_price, min_price, max_price, confidence, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Features, rec.PredictedPrice, rec.MinPrice, rec.MaxPrice,
		rec.Confidence, rec.Source, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// ListPredictions returns the most recent prediction history rows.
func (r *PostgresRepository) ListPredictions(ctx context.Context, limit int) ([]model.PredictionRecord, error) {
	query := `
		SELECT id, features, predicted_price, min_price, max_price, confidence, source, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1
	`
	var records []model.PredictionRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}
	return records, nil
}

// FindComparables returns the stored properties closest to the target's
// feature vector, nearest first. The delivered order is what the UI shows.
func (r *PostgresRepository) FindComparables(ctx context.Context, target pgvector.Vector, limit int) ([]model.ComparableProperty, error) {
	query := `
		SELECT id, address, price, size, bedrooms, bathrooms, year_built, distance_from_target, image_url
		FROM comparable_properties
		ORDER BY embedding <-> $1
		LIMIT $2
	`
	var comparables []model.ComparableProperty
	if err := r.db.SelectContext(ctx, &comparables, query, target, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch comparables: %w", err)
	}
	return comparables, nil
}

// UpsertComparables inserts or replaces comparable properties in one
// transaction, returning the success count and per-row errors.
func (r *PostgresRepository) UpsertComparables(ctx context.Context, rows []model.ComparableProperty) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO comparable_properties (id, address, price, size, bedrooms, bathrooms, year_built, distance_from_target, image_url, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			address = EXCLUDED.address, price = EXCLUDED.price, size = EXCLUDED.size,
			bedrooms = EXCLUDED.bedrooms, bathrooms = EXCLUDED.bathrooms,
			year_built = EXCLUDED.year_built, distance_from_target = EXCLUDED.distance_from_target,
			image_url = EXCLUDED.image_url, embedding = EXCLUDED.embedding
	`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.ID, row.Address, row.Price, row.Size, row.Bedrooms, row.Bathrooms,
			row.YearBuilt, row.DistanceFromTarget, row.ImageURL, row.SimilarityVector(),
		)
		if err != nil {
			errors = append(errors, fmt.Sprintf("comparable %s: %v", row.ID, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// PriceTrends aggregates the prediction history into monthly averages.
func (r *PostgresRepository) PriceTrends(ctx context.Context) ([]model.PriceTrend, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       ROUND(AVG(predicted_price)::numeric, 2) AS avg_price,
		       COALESCE(MAX(features->>'zipcode'), '') AS zipcode
		FROM predictions
		GROUP BY to_char(created_at, 'YYYY-MM')
		ORDER BY month
	`
	var trends []model.PriceTrend
	if err := r.db.SelectContext(ctx, &trends, query); err != nil {
		return nil, fmt.Errorf("failed to fetch price trends: %w", err)
	}
	return trends, nil
}

// SaveContact stores a contact form submission and returns its id.
func (r *PostgresRepository) SaveContact(ctx context.Context, req *model.ContactRequest) (int64, error) {
	query := `
		INSERT INTO contact_submissions (name, email, subject, message, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query, req.Name, req.Email, req.Subject, req.Message, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save contact submission: %w", err)
	}
	return id, nil
}

// ListContacts returns contact submissions, newest first.
func (r *PostgresRepository) ListContacts(ctx context.Context) ([]model.ContactSubmission, error) {
	query := `
		SELECT id, name, email, subject, message, submitted_at
		FROM contact_submissions
		ORDER BY submitted_at DESC
	`
	var submissions []model.ContactSubmission
	if err := r.db.SelectContext(ctx, &submissions, query); err != nil {
		if err == sql.ErrNoRows {
			return []model.ContactSubmission{}, nil
		}
		return nil, fmt.Errorf("failed to fetch contact submissions: %w", err)
	}
	return submissions, nil
}
