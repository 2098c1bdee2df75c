package db

import (
	"context"

	"gorm.io/gorm"
)

// GormBackend implements the state store's durable storage boundary
// (upsert/delete/list) on top of gorm. Table routing is driven by the record
// type passed in, so one implementation serves every collection.
type GormBackend struct {
	conn *gorm.DB
}

func NewBackend(conn *gorm.DB) *GormBackend { return &GormBackend{conn: conn} }

// Upsert writes the full record, inserting or replacing by primary key.
func (b *GormBackend) Upsert(ctx context.Context, record any) error {
	return b.conn.WithContext(ctx).Save(record).Error
}

// Delete removes the row with the given id; model selects the table.
// Deleting an absent row is not an error.
func (b *GormBackend) Delete(ctx context.Context, model any, id string) error {
	return b.conn.WithContext(ctx).Delete(model, "id = ?", id).Error
}

// List reads a whole collection into dest (a pointer to a model slice).
func (b *GormBackend) List(ctx context.Context, dest any) error {
	return b.conn.WithContext(ctx).Find(dest).Error
}
