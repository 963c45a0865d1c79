package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// Repo is the list/get/add/update/delete contract shared by every content
// collection. PT is the pointer type so gorm hooks on *T run.
type Repo[T any, PT models.Record[T]] struct {
	db     *gorm.DB
	entity string
}

func NewRepo[T any, PT models.Record[T]](db *gorm.DB, entity string) *Repo[T, PT] {
	return &Repo[T, PT]{db: db, entity: entity}
}

// Entity is the singular name used in error messages.
func (r *Repo[T, PT]) Entity() string {
	return r.entity
}

// FindAll returns every record, newest first. The slice is never nil.
func (r *Repo[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	records := make([]T, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, errs.NewDatabaseError("list", r.entity, err)
	}
	return records, nil
}

// FindByID returns a record by its ID
func (r *Repo[T, PT]) FindByID(ctx context.Context, id uuid.UUID) (PT, error) {
	record := PT(new(T))
	err := r.db.WithContext(ctx).Where("id = ?", id).First(record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(r.entity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", r.entity, err)
	}
	return record, nil
}

// Add inserts a new record; the id and timestamps are assigned here.
func (r *Repo[T, PT]) Add(ctx context.Context, record PT) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return errs.NewDatabaseError("create", r.entity, err)
	}
	return nil
}

// Update overwrites every column except id and created_at of the row whose
// id is record's id. No matching row yields a not found error.
func (r *Repo[T, PT]) Update(ctx context.Context, record PT) error {
	if record.GetID() == uuid.Nil {
		return errs.NewNotFound(r.entity)
	}
	result := r.db.WithContext(ctx).
		Model(record).
		Select("*").
		Omit("id", "created_at").
		Updates(record)
	if result.Error != nil {
		return errs.NewDatabaseError("update", r.entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// Delete removes a record by id. Deleting a missing id yields not found.
func (r *Repo[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(PT(new(T)))
	if result.Error != nil {
		return errs.NewDatabaseError("delete", r.entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(r.entity)
	}
	return nil
}

// Count returns the number of stored records.
func (r *Repo[T, PT]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(PT(new(T))).Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", r.entity, err)
	}
	return count, nil
}
