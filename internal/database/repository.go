package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-upwork-automation/internal/scraper"
)

// jobSource is the source column value for the dedup key; the page a record
// was found on goes to found_on instead so one job never inserts twice.
const jobSource = "upwork"

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Supabase's connection pooler (PgBouncer in Transaction mode) does not
	// support prepared statements; the statement cache must stay off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// SaveJob inserts a finalized record or refreshes an existing one (keyed by
// source + external job id).
func (r *Repository) SaveJob(ctx context.Context, job *scraper.JobRecord) error {
	query := `
		INSERT INTO jobs (source, external_id, title, url, description, job_type, experience_level,
		                  budget, hourly_rate, proposals, payment_verified, skills,
		                  client_name, client_rating, client_total_spent, found_on, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (source, external_id)
		DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
		              job_type = EXCLUDED.job_type, experience_level = EXCLUDED.experience_level,
		              budget = EXCLUDED.budget, hourly_rate = EXCLUDED.hourly_rate,
		              proposals = EXCLUDED.proposals, payment_verified = EXCLUDED.payment_verified,
		              skills = EXCLUDED.skills, scraped_at = EXCLUDED.scraped_at`

	_, err := r.db.Exec(ctx, query,
		jobSource, job.JobID, job.Title, job.JobURL, job.Description, job.JobType, job.ExperienceLevel,
		job.Budget, job.HourlyRate, job.Proposals, job.PaymentVerified, job.Skills,
		job.Client.Name, job.Client.Rating, job.Client.TotalSpent, job.Source, job.ScrapedAt)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.JobID, err)
	}
	return nil
}

// SaveJobs persists a batch, continuing past individual failures.
// Returns how many records were actually written.
func (r *Repository) SaveJobs(ctx context.Context, jobs []scraper.JobRecord) (int, error) {
	saved := 0
	var lastErr error
	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		if err := r.SaveJob(ctx, &jobs[i]); err != nil {
			lastErr = err
			continue
		}
		saved++
	}
	return saved, lastErr
}

// RecentJobs returns the newest stored records, most recent first.
func (r *Repository) RecentJobs(ctx context.Context, limit int) ([]scraper.JobRecord, error) {
	query := `
		SELECT external_id, title, url, description, job_type, experience_level,
		       budget, hourly_rate, proposals, payment_verified, skills,
		       client_name, client_rating, client_total_spent, found_on, scraped_at
		FROM jobs WHERE source = $1
		ORDER BY scraped_at DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, jobSource, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []scraper.JobRecord
	for rows.Next() {
		var job scraper.JobRecord
		if err := rows.Scan(
			&job.JobID, &job.Title, &job.JobURL, &job.Description, &job.JobType, &job.ExperienceLevel,
			&job.Budget, &job.HourlyRate, &job.Proposals, &job.PaymentVerified, &job.Skills,
			&job.Client.Name, &job.Client.Rating, &job.Client.TotalSpent, &job.Source, &job.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
