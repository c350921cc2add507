package repository

import (
	"context"
	"encoding/json"

	"coinsight/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createAnalysesTable = `
CREATE TABLE IF NOT EXISTS analyses (
    id             UUID        PRIMARY KEY,
    crypto_id      TEXT        NOT NULL,
    crypto_name    TEXT        NOT NULL,
    crypto_symbol  TEXT        NOT NULL,
    type           TEXT        NOT NULL,
    recommendation TEXT        NOT NULL,
    summary        TEXT        NOT NULL,
    payload        JSONB       NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_crypto_created
    ON analyses (crypto_id, created_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AnalysisRepository persists assembled analyses. The full structured result
// goes into a JSONB payload column; the base fields are lifted out for
// querying.
type AnalysisRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAnalysisRepository(pool PgxPool, tracer trace.Tracer) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, tracer: tracer}
}

func (r *AnalysisRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "analysis-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createAnalysesTable)
	return err
}

// SaveAnalysis stores one assembled analysis.
func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, base domain.Analysis, payload any) error {
	_, span := r.tracer.Start(ctx, "analysis-repo.save-analysis")
	defer span.End()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO analyses (id, crypto_id, crypto_name, crypto_symbol, type, recommendation, summary, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		base.ID, base.CryptoID, base.CryptoName, base.CryptoSymbol,
		string(base.Type), base.Recommendation, base.Summary, data, base.CreatedAt,
	)
	return err
}

// RecentByCrypto returns the newest base records for one asset, newest first.
func (r *AnalysisRepository) RecentByCrypto(ctx context.Context, cryptoID string, limit int) ([]domain.Analysis, error) {
	_, span := r.tracer.Start(ctx, "analysis-repo.recent-by-crypto")
	defer span.End()

	if limit < 1 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, crypto_id, crypto_name, crypto_symbol, type, recommendation, summary, created_at
		 FROM analyses
		 WHERE crypto_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		cryptoID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		var analysisType string
		if err := rows.Scan(&a.ID, &a.CryptoID, &a.CryptoName, &a.CryptoSymbol,
			&analysisType, &a.Recommendation, &a.Summary, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.AnalysisType(analysisType)
		// Indicators are not persisted per row; keep the field an object so
		// history records serialize like live analysis responses.
		a.Indicators = map[string]string{}
		records = append(records, a)
	}
	return records, rows.Err()
}
