package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, NewRepositories(db).Migrate(context.Background()))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return openMockDB(t, sqlDB), mock
}

// openMockDB wraps a sqlmock connection in a mysql-dialect gorm.DB.
func openMockDB(t *testing.T, sqlDB *sql.DB) *gorm.DB {
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func testSnapshot(id string, createdAt time.Time) *model.MappingSnapshot {
	snap := &model.MappingSnapshot{
		ID:        id,
		CreatedAt: createdAt,
		Classes: []model.ClassEntry{
			{
				Name:       "com/example/Foo",
				ObfName:    "a",
				Parent:     "java/lang/Object",
				Interfaces: []string{"java/lang/Runnable", "java/io/Closeable"},
				Fields: []model.MemberEntry{
					{Name: "count", Desc: "I", ObfName: "a"},
					{Name: "name", Desc: "Ljava/lang/String;", Preserved: true},
				},
				Methods: []model.MemberEntry{
					{Name: "run", Desc: "()V", ObfName: "b"},
					{Name: "close", Desc: "()V", ObfName: "c"},
				},
			},
			{Name: "java/lang/Object", Library: true},
		},
	}
	snap.Stats = snap.ComputeStats()
	return snap
}

func TestGormSnapshotRepository_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSnapshotRepository(db)
	ctx := context.Background()

	want := testSnapshot("run-1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, repo.SaveSnapshot(ctx, want))

	got, err := repo.GetSnapshot(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)
	assert.Equal(t, want.Stats, got.Stats)
	assert.Equal(t, want.Classes, got.Classes)

	var members int64
	require.NoError(t, db.Model(&MemberMappingRow{}).Where("session_id = ?", "run-1").Count(&members).Error)
	assert.Equal(t, int64(4), members)
}

func TestGormSnapshotRepository_SaveValidation(t *testing.T) {
	repo := NewGormSnapshotRepository(setupTestDB(t))

	err := repo.SaveSnapshot(context.Background(), &model.MappingSnapshot{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestGormSnapshotRepository_SaveDuplicateID(t *testing.T) {
	repo := NewGormSnapshotRepository(setupTestDB(t))
	ctx := context.Background()
	snap := testSnapshot("run-1", time.Now().UTC())

	require.NoError(t, repo.SaveSnapshot(ctx, snap))
	err := repo.SaveSnapshot(ctx, snap)
	require.Error(t, err)
	assert.True(t, apperrors.IsDatabaseError(err))
}

func TestGormSnapshotRepository_GetNotFound(t *testing.T) {
	repo := NewGormSnapshotRepository(setupTestDB(t))

	snap, err := repo.GetSnapshot(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGormSnapshotRepository_List(t *testing.T) {
	repo := NewGormSnapshotRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, repo.SaveSnapshot(ctx, testSnapshot(id, base.Add(time.Duration(i)*time.Hour))))
	}

	list, err := repo.ListSnapshots(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "run-3", list[0].ID)
	assert.Equal(t, "run-2", list[1].ID)
	assert.Empty(t, list[0].Classes)
	assert.Equal(t, 2, list[0].Stats.Classes)

	list, err = repo.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestGormSnapshotRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveSnapshot(ctx, testSnapshot("run-1", time.Now().UTC())))
	require.NoError(t, repo.DeleteSnapshot(ctx, "run-1"))

	_, err := repo.GetSnapshot(ctx, "run-1")
	assert.True(t, apperrors.IsNotFound(err))

	var classes int64
	require.NoError(t, db.Model(&ClassMappingRow{}).Count(&classes).Error)
	assert.Zero(t, classes)

	err = repo.DeleteSnapshot(ctx, "run-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGormSnapshotRepository_DeleteMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormSnapshotRepository(db)

	t.Run("Delete_Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `member_mappings` WHERE session_id = ?")).
			WithArgs("run-1").
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `class_mappings` WHERE session_id = ?")).
			WithArgs("run-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `mapping_sessions` WHERE id = ?")).
			WithArgs("run-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.DeleteSnapshot(context.Background(), "run-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete_NotFound", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `member_mappings`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM `class_mappings`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM `mapping_sessions`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteSnapshot(context.Background(), "missing")
		assert.True(t, apperrors.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete_DatabaseError", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `member_mappings`").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.DeleteSnapshot(context.Background(), "run-1")
		assert.True(t, apperrors.IsDatabaseError(err))
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStringList(t *testing.T) {
	v, err := StringList{"a/B", "c/D"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a/B","c/D"]`, v)

	v, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["x"]`)))
	assert.Equal(t, StringList{"x"}, l)
	require.NoError(t, l.Scan("[]"))
	assert.Nil(t, l)
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)
	assert.Error(t, l.Scan(42))
}
