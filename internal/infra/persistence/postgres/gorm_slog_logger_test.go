package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"storerating/config"
	deliverycontext "storerating/internal/delivery/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferedLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestGormSlogLogger_Levels(t *testing.T) {
	debugCfg := &config.Config{}
	debugCfg.Env.Debug = true

	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel logger.LogLevel
	}{
		{name: "nil config", cfg: nil, wantLevel: logger.Warn},
		{name: "debug", cfg: debugCfg, wantLevel: logger.Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newGormSlogLogger(newBufferedLogger(&bytes.Buffer{}), tt.cfg).(*gormSlogLogger)
			assert.Equal(t, tt.wantLevel, l.level)
		})
	}
}

func TestGormSlogLogger_Trace(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.SlowQueryThreshold = 10 * time.Millisecond
	sql := func() (string, int64) { return `SELECT * FROM "stores"`, 1 }
	ctx := context.Background()

	t.Run("record not found is quiet", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&buf), cfg)

		l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("failure is logged", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&buf), cfg)

		l.Trace(ctx, time.Now(), sql, errors.New("connection reset"))
		assert.Contains(t, buf.String(), "GORM query failed")
		assert.Contains(t, buf.String(), "connection reset")
		assert.Contains(t, buf.String(), "component=directory-db")
	})

	t.Run("slow query uses configured threshold", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&buf), cfg)

		l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
		assert.Contains(t, buf.String(), "GORM slow query")
		assert.Contains(t, buf.String(), "slowThreshold=10ms")
	})

	t.Run("constraint violation is a warning", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&buf), cfg)

		l.Trace(ctx, time.Now(), sql, gorm.ErrDuplicatedKey)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "GORM constraint violation")
		assert.Contains(t, buf.String(), "constraint=unique")
		assert.NotContains(t, buf.String(), "GORM query failed")
	})

	t.Run("foreign key violation", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&buf), cfg)

		l.Trace(ctx, time.Now(), sql, gorm.ErrForeignKeyViolated)
		assert.Contains(t, buf.String(), "constraint=foreign_key")
	})

	t.Run("command scoped logger", func(t *testing.T) {
		var base, scoped bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&base), cfg)
		commandCtx := deliverycontext.Scoped(ctx, newBufferedLogger(&scoped))

		l.Trace(commandCtx, time.Now(), sql, errors.New("connection reset"))
		assert.Empty(t, base.String())
		assert.Contains(t, scoped.String(), "GORM query failed")
		assert.Contains(t, scoped.String(), "command_id="+deliverycontext.GetCommandID(commandCtx))
		assert.Contains(t, scoped.String(), "component=directory-db")
	})

	t.Run("silent mode", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(newBufferedLogger(&buf), cfg).LogMode(logger.Silent)

		l.Trace(ctx, time.Now().Add(-time.Second), sql, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
