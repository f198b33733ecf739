package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/model"
)

const memberBatchSize = 500

// GormSnapshotRepository implements SnapshotRepository using GORM.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository.
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// SaveSnapshot stores the snapshot in one transaction.
func (r *GormSnapshotRepository) SaveSnapshot(ctx context.Context, snap *model.MappingSnapshot) error {
	if snap.ID == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "snapshot id is required")
	}
	row := newMappingSession(snap)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		for i := range row.Classes {
			c := &row.Classes[i]
			if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
				return err
			}
			if len(c.Members) == 0 {
				continue
			}
			for j := range c.Members {
				c.Members[j].ClassID = c.ID
			}
			if err := tx.CreateInBatches(c.Members, memberBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save snapshot "+snap.ID, err)
	}
	return nil
}

// GetSnapshot loads the snapshot with its classes and members.
func (r *GormSnapshotRepository) GetSnapshot(ctx context.Context, id string) (*model.MappingSnapshot, error) {
	var row MappingSession

	err := r.db.WithContext(ctx).
		Preload("Classes", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Classes.Members", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "snapshot not found: %s", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to get snapshot", err)
	}

	return row.ToModel(), nil
}

// ListSnapshots returns snapshot headers, newest first.
func (r *GormSnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]*model.MappingSnapshot, error) {
	var rows []MappingSession

	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to list snapshots", err)
	}

	result := make([]*model.MappingSnapshot, len(rows))
	for i := range rows {
		result[i] = rows[i].ToModel()
	}
	return result, nil
}

// DeleteSnapshot removes the snapshot and its rows in one transaction.
func (r *GormSnapshotRepository) DeleteSnapshot(ctx context.Context, id string) error {
	errNotFound := apperrors.Newf(apperrors.CodeNotFound, "snapshot not found: %s", id)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&MemberMappingRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&ClassMappingRow{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&MappingSession{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errNotFound
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errNotFound):
		return err
	default:
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to delete snapshot "+id, err)
	}
}
