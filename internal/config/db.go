package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	maxConnectRetries  = 5
	connectRetryPeriod = 5 * time.Second
)

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, dsn string, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	var pool *pgxpool.Pool
	// Retry connecting to the database a few times
	for i := 0; i < maxConnectRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.WithField("host", poolCfg.ConnConfig.Host).Info("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.WithError(err).Warnf("failed to connect to database (attempt %d/%d), retrying in %v", i+1, maxConnectRetries, connectRetryPeriod)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryPeriod):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxConnectRetries, err)
}
