package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresDB struct {
	*gorm.DB
}

func NewPostgresDB(host, user, password, dbname string, port int) (*PostgresDB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return &PostgresDB{DB: db}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the schema for the given models.
func (db *PostgresDB) AutoMigrate(models ...interface{}) error {
	if err := db.DB.AutoMigrate(models...); err != nil {
		return err
	}
	// Partial unique index backing the one-AI/one-moderator-per-round
	// upsert; AutoMigrate tags cannot express the WHERE clause.
	return db.DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participants_singleton_role
		 ON participants (round_id, role)
		 WHERE role <> 'DEBATER' AND deleted_at IS NULL`,
	).Error
}
