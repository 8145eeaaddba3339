package txn

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tolgee/tolgee-backend/internal/platform/dbctx"
)

type counterRow struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Name string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "txn.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&counterRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&counterRow{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestGormRunner_CommitsOnSuccess(t *testing.T) {
	db := openTestDB(t)
	runner := NewGormRunner(db)
	id, err := ExecuteInNewTransaction(dbctx.Background(context.Background()), runner, func(dbc dbctx.Context) (int64, error) {
		if !dbc.InTx() {
			t.Fatalf("expected transaction attached")
		}
		row := &counterRow{Name: "a"}
		if err := dbc.Tx.Create(row).Error; err != nil {
			return 0, err
		}
		return row.ID, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 || countRows(t, db) != 1 {
		t.Fatalf("expected committed row, id=%d", id)
	}
}

func TestGormRunner_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	runner := NewGormRunner(db)
	want := errors.New("boom")
	err := runner.InTx(dbctx.Background(context.Background()), Definition{Isolation: sql.LevelSerializable}, func(dbc dbctx.Context) error {
		if err := dbc.Tx.Create(&counterRow{Name: "a"}).Error; err != nil {
			return err
		}
		return want
	})
	if err != want {
		t.Fatalf("expected body error unchanged, got %v", err)
	}
	if n := countRows(t, db); n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}

func TestGormRunner_RollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)
	runner := NewGormRunner(db)
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = runner.InTx(dbctx.Background(context.Background()), DefaultDefinition(), func(dbc dbctx.Context) error {
			if err := dbc.Tx.Create(&counterRow{Name: "a"}).Error; err != nil {
				return err
			}
			panic("unit of work failed")
		})
	}()
	if n := countRows(t, db); n != 0 {
		t.Fatalf("expected rollback after panic, found %d rows", n)
	}
}

func TestGormRunner_RequiredJoinsOuter(t *testing.T) {
	db := openTestDB(t)
	runner := NewGormRunner(db)
	outerErr := errors.New("outer abort")
	err := runner.InTx(dbctx.Background(context.Background()), DefaultDefinition(), func(outer dbctx.Context) error {
		if err := outer.Tx.Create(&counterRow{Name: "outer"}).Error; err != nil {
			return err
		}
		err := runner.InTx(outer, Definition{Propagation: PropagationRequired}, func(inner dbctx.Context) error {
			if inner.Tx != outer.Tx {
				t.Fatalf("expected inner work to join the outer transaction")
			}
			return inner.Tx.Create(&counterRow{Name: "inner"}).Error
		})
		if err != nil {
			return err
		}
		return outerErr
	})
	if err != outerErr {
		t.Fatalf("expected outer error, got %v", err)
	}
	if n := countRows(t, db); n != 0 {
		t.Fatalf("expected joined work rolled back with outer, found %d rows", n)
	}
}

func TestGormRunner_NestedRollsBackToSavepoint(t *testing.T) {
	db := openTestDB(t)
	runner := NewGormRunner(db)
	innerErr := errors.New("inner abort")
	err := runner.InTx(dbctx.Background(context.Background()), DefaultDefinition(), func(outer dbctx.Context) error {
		if err := outer.Tx.Create(&counterRow{Name: "outer"}).Error; err != nil {
			return err
		}
		err := runner.InTx(outer, Definition{Propagation: PropagationNested}, func(inner dbctx.Context) error {
			if err := inner.Tx.Create(&counterRow{Name: "inner"}).Error; err != nil {
				return err
			}
			return innerErr
		})
		if err != innerErr {
			t.Fatalf("expected nested error, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var rows []counterRow
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "outer" {
		t.Fatalf("expected only the outer row, got %+v", rows)
	}
}

func TestGormRunner_RequiresNewCommitsIndependently(t *testing.T) {
	db := openTestDB(t)
	runner := NewGormRunner(db)
	outerErr := errors.New("outer abort")
	err := runner.InTx(dbctx.Background(context.Background()), DefaultDefinition(), func(outer dbctx.Context) error {
		err := runner.InTx(outer, DefaultDefinition(), func(inner dbctx.Context) error {
			if inner.Tx == outer.Tx {
				t.Fatalf("expected a fresh transaction")
			}
			return inner.Tx.Create(&counterRow{Name: "independent"}).Error
		})
		if err != nil {
			return err
		}
		return outerErr
	})
	if err != outerErr {
		t.Fatalf("expected outer error, got %v", err)
	}
	if n := countRows(t, db); n != 1 {
		t.Fatalf("expected independent commit to survive, found %d rows", n)
	}
}

func TestGormRunner_MandatoryWithoutTransaction(t *testing.T) {
	runner := NewGormRunner(openTestDB(t))
	called := false
	err := runner.InTx(dbctx.Background(context.Background()), Definition{Propagation: PropagationMandatory}, func(dbctx.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrNoTransaction) || called {
		t.Fatalf("expected ErrNoTransaction without running body, got %v (called=%v)", err, called)
	}
}

func TestGormRunner_NilCases(t *testing.T) {
	if err := NewGormRunner(nil).InTx(dbctx.Background(context.Background()), DefaultDefinition(), nil); err != nil {
		t.Fatalf("nil fn should be a no-op, got %v", err)
	}
	err := NewGormRunner(nil).InTx(dbctx.Background(context.Background()), DefaultDefinition(), func(dbctx.Context) error { return nil })
	if err == nil {
		t.Fatalf("expected error for nil db")
	}
}
