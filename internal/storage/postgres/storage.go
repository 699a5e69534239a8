package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/alipay-checkout/internal/domain/errors"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
	"github.com/polkiloo/alipay-checkout/internal/domain/repository"
)

// pool abstracts pgxpool.Pool for tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pool
	logger *slog.Logger
}

type paymentRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pgPool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pgPool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Payments returns the payment repository backed by this storage.
func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS payments (
            id SERIAL PRIMARY KEY,
            order_no TEXT UNIQUE NOT NULL,
            shop_transaction_id TEXT NOT NULL,
            pg_cno TEXT NOT NULL,
            goods_name TEXT NOT NULL DEFAULT '',
            goods_detail TEXT NOT NULL DEFAULT '',
            currency TEXT NOT NULL DEFAULT '',
            total_amount BIGINT NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            payment_url TEXT NOT NULL DEFAULT '',
            result_code TEXT NOT NULL DEFAULT '',
            result_message TEXT NOT NULL DEFAULT '',
            approval_date TEXT NOT NULL DEFAULT '',
            status_code TEXT NOT NULL DEFAULT '',
            wallet_brand_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_payments_shop_transaction ON payments(shop_transaction_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	const query = `INSERT INTO payments
                   (order_no, shop_transaction_id, pg_cno, goods_name, goods_detail, currency, total_amount, status, payment_url, wallet_brand_name)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING id, created_at, updated_at`
	created := *payment
	err := r.storage.pool.QueryRow(ctx, query,
		payment.OrderNo,
		payment.ShopTransactionID,
		payment.PgCno,
		payment.GoodsName,
		payment.GoodsDetail,
		payment.Currency,
		payment.TotalAmount,
		payment.Status,
		payment.PaymentURL,
		payment.WalletBrand,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

const paymentColumns = `id, order_no, shop_transaction_id, pg_cno, goods_name, goods_detail, currency, total_amount,
                        status, payment_url, result_code, result_message, approval_date, status_code, wallet_brand_name,
                        created_at, updated_at`

func (r *paymentRepository) GetByOrderNo(ctx context.Context, orderNo string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_no=$1`
	return r.scanPayment(r.storage.pool.QueryRow(ctx, query, orderNo))
}

func (r *paymentRepository) GetByShopTransactionID(ctx context.Context, shopTransactionID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE shop_transaction_id=$1`
	return r.scanPayment(r.storage.pool.QueryRow(ctx, query, shopTransactionID))
}

func (r *paymentRepository) scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.OrderNo,
		&p.ShopTransactionID,
		&p.PgCno,
		&p.GoodsName,
		&p.GoodsDetail,
		&p.Currency,
		&p.TotalAmount,
		&p.Status,
		&p.PaymentURL,
		&p.ResultCode,
		&p.ResultMessage,
		&p.ApprovalDate,
		&p.StatusCode,
		&p.WalletBrand,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	const query = `UPDATE payments
                   SET status=$1, result_code=$2, result_message=$3, approval_date=$4, status_code=$5,
                       wallet_brand_name=$6, updated_at=NOW()
                   WHERE id=$7`
	tag, err := r.storage.pool.Exec(ctx, query,
		payment.Status,
		payment.ResultCode,
		payment.ResultMessage,
		payment.ApprovalDate,
		payment.StatusCode,
		payment.WalletBrand,
		payment.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
