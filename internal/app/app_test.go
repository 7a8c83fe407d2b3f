package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/applog/internal/config"
	"github.com/cuongbtq/applog/internal/tracker/validation"
	"github.com/cuongbtq/applog/shared/logger"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "applog.db")
	return cfg
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Tracker.RequireJobURL = false

	a, err := New(ctx, cfg, logger.NewNop(), Options{})
	require.NoError(t, err)
	defer a.Close()

	job, err := a.Jobs.Create(ctx, validation.Fields{"company_name": "Imerys", "job_title": "PM"})
	require.NoError(t, err)

	require.NoError(t, a.Session.Refresh(ctx))
	require.NotNil(t, a.Session.Find(job.ID))

	_, err = a.Templates.Create(ctx, validation.Fields{"name": "Follow-up", "content": "Sent a follow-up email"})
	require.NoError(t, err)
}

func TestNewRequiresJobURLByDefault(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, testConfig(t), logger.NewNop(), Options{})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Jobs.Create(ctx, validation.Fields{"company_name": "Imerys", "job_title": "PM"})
	assert.Error(t, err)
}

func TestNewSkipMigrate(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, testConfig(t), logger.NewNop(), Options{SkipMigrate: true})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Jobs.GetAll(ctx)
	assert.Error(t, err, "tables do not exist before migrating")

	applied, err := a.DB.Migrate(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	jobs, err := a.Jobs.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestNewFailsWithUnreachableBroker(t *testing.T) {
	cfg := testConfig(t)
	cfg.RabbitMQ.Enabled = true
	cfg.RabbitMQ.Host = "127.0.0.1"
	cfg.RabbitMQ.Port = 1
	cfg.RabbitMQ.Connection.RetryAttempts = 1
	cfg.RabbitMQ.Connection.RetryInterval = 0

	a, err := New(context.Background(), cfg, logger.NewNop(), Options{})
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "failed to initialize RabbitMQ")
}

func TestNewFailsWithBadDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "mysql"

	_, err := New(context.Background(), cfg, logger.NewNop(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize database")
}
