package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/ocr-service/constants"
)

// Config holds connection-pool sizing and timeout settings.
type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// Postgres is the durable Store: a single `jobs` table accessed
// through hand-written SQL over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// Open parses the DSN and establishes the connection pool.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Postgres, error) {
	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "ocr-service"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	logger.Info("successfully connected to database")
	return &Postgres{pool: pool, log: logger}, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.log.Info("closing database connections")
	p.pool.Close()
}

// HealthCheck pings the pool, bounded by timeout when positive.
func (p *Postgres) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.pool.Ping(ctx)
}

const jobColumns = `id, status, document_type, email, callback_webhook, file_data, file_name,
	mime_type, ocr_result, error_message, created_at, updated_at, processed_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var status string
	if err := row.Scan(&j.ID, &status, &j.DocumentType, &j.Email, &j.CallbackWebhook,
		&j.FileData, &j.FileName, &j.MimeType, &j.OCRResult, &j.ErrorMessage,
		&j.CreatedAt, &j.UpdatedAt, &j.ProcessedAt); err != nil {
		return nil, err
	}
	j.Status = constants.JobStatus(status)
	return &j, nil
}

func (p *Postgres) CreateJob(ctx context.Context, fields CreateFields) (*Job, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	const q = `INSERT INTO jobs (id, status, document_type, email, callback_webhook,
		file_data, file_name, mime_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	_, err := p.pool.Exec(ctx, q, id, string(constants.JobStatusPending), fields.DocumentType,
		fields.Email, fields.CallbackWebhook, fields.FileData, fields.FileName, fields.MimeType, now)
	if err != nil {
		p.log.Error("job create failed", "error", err)
		return nil, err
	}
	p.log.Info("job created", "job_id", id, "file_name", fields.FileName)
	return &Job{
		ID: id, Status: constants.JobStatusPending, DocumentType: fields.DocumentType,
		Email: fields.Email, CallbackWebhook: fields.CallbackWebhook, FileData: fields.FileData,
		FileName: fields.FileName, MimeType: fields.MimeType, CreatedAt: now, UpdatedAt: now,
	}, nil
}

func (p *Postgres) GetJob(ctx context.Context, id string) (*Job, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

func (p *Postgres) ListJobs(ctx context.Context, status constants.JobStatus, limit, offset int) ([]*Job, int, error) {
	var rows pgx.Rows
	var err error
	var total int
	if status == "" {
		if err = p.pool.QueryRow(ctx, `SELECT count(*) FROM jobs`).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = p.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		if err = p.pool.QueryRow(ctx, `SELECT count(*) FROM jobs WHERE status = $1`, string(status)).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = p.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			string(status), limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	return out, total, rows.Err()
}

func (p *Postgres) CountByStatus(ctx context.Context) (StatusCounts, error) {
	rows, err := p.pool.Query(ctx, `SELECT status, count(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := StatusCounts{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[constants.JobStatus(status)] = n
	}
	return counts, rows.Err()
}

// ClaimOldestPending is the dispatch primitive: a single
// UPDATE ... WHERE id = (SELECT ... FOR UPDATE SKIP LOCKED LIMIT 1) so competing
// schedulers never claim the same row twice and never block behind one
// another's claim.
func (p *Postgres) ClaimOldestPending(ctx context.Context) (*Job, error) {
	const q = `
		UPDATE jobs SET status = $1, updated_at = $2
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = $3
			ORDER BY created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + jobColumns
	now := time.Now().UTC()
	row := p.pool.QueryRow(ctx, q, string(constants.JobStatusProcessing), now, string(constants.JobStatusPending))
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		p.log.Error("claim oldest pending failed", "error", err)
		return nil, err
	}
	p.log.Info("job claimed", "job_id", j.ID)
	return j, nil
}

func (p *Postgres) Finalize(ctx context.Context, id string, status constants.JobStatus, result, errMsg *string, now time.Time) error {
	const q = `UPDATE jobs SET status = $1, ocr_result = $2, error_message = $3, processed_at = $4, updated_at = $4 WHERE id = $5`
	tag, err := p.pool.Exec(ctx, q, string(status), result, errMsg, now, id)
	if err != nil {
		p.log.Error("job finalize failed", "job_id", id, "error", err)
		return err
	}
	// A zero-row update (job deleted mid-flight by an admin) is
	// tolerated, not an error.
	if tag.RowsAffected() == 0 {
		p.log.Warn("job finalize affected no rows", "job_id", id)
	}
	return nil
}

func (p *Postgres) ResetToPending(ctx context.Context, id string) (*Job, error) {
	const q = `UPDATE jobs SET status = $1, error_message = NULL, processed_at = NULL, updated_at = $2
		WHERE id = $3 RETURNING ` + jobColumns
	row := p.pool.QueryRow(ctx, q, string(constants.JobStatusPending), time.Now().UTC(), id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

// SetStatus implements the admin PATCH's general status transition.
// A FAILED transition carrying errMsg also stamps processed_at; other
// transitions leave it untouched.
func (p *Postgres) SetStatus(ctx context.Context, id string, status constants.JobStatus, errMsg *string, now time.Time) (*Job, error) {
	var q string
	if status == constants.JobStatusFailed && errMsg != nil {
		q = `UPDATE jobs SET status = $1, error_message = $2, processed_at = $3, updated_at = $3 WHERE id = $4 RETURNING ` + jobColumns
	} else {
		q = `UPDATE jobs SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4 RETURNING ` + jobColumns
	}
	row := p.pool.QueryRow(ctx, q, string(status), errMsg, now, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return j, err
}

func (p *Postgres) DeleteJob(ctx context.Context, id string, force bool) error {
	if !force {
		var status string
		err := p.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if constants.JobStatus(status) == constants.JobStatusProcessing {
			return ErrDeleteForbidden
		}
	}
	_, err := p.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	return err
}

func (p *Postgres) StuckJobs(ctx context.Context, now time.Time, threshold time.Duration) ([]StuckJob, error) {
	const q = `SELECT id, file_name, updated_at FROM jobs WHERE status = $1 AND updated_at < $2`
	rows, err := p.pool.Query(ctx, q, string(constants.JobStatusProcessing), now.Add(-threshold))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StuckJob
	for rows.Next() {
		var s StuckJob
		if err := rows.Scan(&s.ID, &s.FileName, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.StuckFor = now.Sub(s.UpdatedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) AvgProcessingTime(ctx context.Context, n int) (time.Duration, error) {
	const q = `SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (processed_at - created_at))), 0)
		FROM (SELECT processed_at, created_at FROM jobs WHERE status = $1 ORDER BY processed_at DESC LIMIT $2) t`
	var seconds float64
	err := p.pool.QueryRow(ctx, q, string(constants.JobStatusCompleted), n).Scan(&seconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (p *Postgres) CountLastHour(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx, `SELECT count(*) FROM jobs WHERE created_at > $1`, now.Add(-time.Hour)).Scan(&n)
	return n, err
}
