package ownership

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"nftdrop/crypto"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// AssetOwner is one row of the ownership table. Holder holds the bech32
// encoding of the owning account.
type AssetOwner struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Collection string `gorm:"not null;uniqueIndex:idx_collection_asset"`
	AssetID    string `gorm:"not null;uniqueIndex:idx_collection_asset"`
	Holder     string `gorm:"not null;index"`
	UpdatedAt  time.Time
}

// TableName pins the table name independent of gorm's pluralisation.
func (AssetOwner) TableName() string { return "asset_owners" }

// AutoMigrate creates or updates the ownership schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&AssetOwner{})
}

// SQLDirectory serves ownership from a SQL table through gorm.
type SQLDirectory struct {
	db *gorm.DB
}

// OpenSQL connects to the configured driver and migrates the schema.
func OpenSQL(driver, dsn string) (*SQLDirectory, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("ownership: unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("ownership: open %s: %w", driver, err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("ownership: migrate: %w", err)
	}
	return NewSQLDirectory(db), nil
}

// NewSQLDirectory wraps an already migrated database handle.
func NewSQLDirectory(db *gorm.DB) *SQLDirectory {
	return &SQLDirectory{db: db}
}

// Assign upserts the owner of assetID.
func (d *SQLDirectory) Assign(ctx context.Context, collection, assetID string, holder [20]byte) error {
	collection = strings.TrimSpace(collection)
	assetID = strings.TrimSpace(assetID)
	if collection == "" || assetID == "" {
		return ErrInvalidAssignment
	}
	row := AssetOwner{
		Collection: collection,
		AssetID:    assetID,
		Holder:     crypto.HolderAddress(holder).String(),
	}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "asset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"holder", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("ownership: assign %s/%s: %w", collection, assetID, err)
	}
	return nil
}

// OwnedAssets implements airdrop.OwnershipDirectory. Rows are returned in
// insertion order.
func (d *SQLDirectory) OwnedAssets(ctx context.Context, collection string, holder [20]byte) ([]string, error) {
	var ids []string
	err := d.db.WithContext(ctx).
		Model(&AssetOwner{}).
		Where("collection = ? AND holder = ?", strings.TrimSpace(collection), crypto.HolderAddress(holder).String()).
		Order("id ASC").
		Pluck("asset_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("ownership: list assets: %w", err)
	}
	return ids, nil
}

// Close releases the underlying connection pool.
func (d *SQLDirectory) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
