package db

import (
	"fmt"
	"log"
	"time"

	"github.com/VYD3N/tezos-music-player/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormDB coexists with the raw DB handle: GORM owns schema migration for the
// mirror table, repositories query through database/sql.
var GormDB *gorm.DB

// audioNFT defines the audio_nfts mirror table schema. Column names match the
// hosted catalog so rows can be copied over verbatim by `catalog sync`.
type audioNFT struct {
	ID              string     `gorm:"column:id;primaryKey;size:64"`
	Title           string     `gorm:"column:title;size:255;not null"`
	Artist          string     `gorm:"column:artist;size:255;index"`
	Genre           string     `gorm:"column:genre;size:100;index"`
	Mood            string     `gorm:"column:mood;size:100"`
	Platform        string     `gorm:"column:platform;size:100;index"`
	Duration        float64    `gorm:"column:duration"`
	Description     string     `gorm:"column:description;type:text"`
	ThumbnailURI    string     `gorm:"column:thumbnail_uri;size:767"`
	DisplayURI      string     `gorm:"column:display_uri;size:767"`
	ArtifactURI     string     `gorm:"column:artifact_uri;size:767"`
	PlaybackURL     string     `gorm:"column:playback_url;size:767"`
	MimeType        string     `gorm:"column:mime_type;size:100"`
	TokenID         string     `gorm:"column:token_id;size:64"`
	ContractAddress string     `gorm:"column:contract_address;size:64"`
	Tempo           float64    `gorm:"column:tempo"`
	Energy          float64    `gorm:"column:energy"`
	Danceability    float64    `gorm:"column:danceability"`
	UploadedAt      *time.Time `gorm:"column:uploaded_at;index"`
}

func (audioNFT) TableName() string {
	return "audio_nfts"
}

// ConnectGormDB establishes the GORM connection and configures the pool.
func ConnectGormDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	sqlDB, err := GormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to the database with GORM.")
	return nil
}

// MigrateSchema creates or updates the mirror table.
func MigrateSchema() error {
	if GormDB == nil {
		return fmt.Errorf("GORM connection not initialized")
	}
	if err := GormDB.AutoMigrate(&audioNFT{}); err != nil {
		return fmt.Errorf("failed to migrate audio_nfts table: %w", err)
	}
	log.Println("audio_nfts table migrated.")
	return nil
}

// CloseGormDB closes the GORM connection.
func CloseGormDB() error {
	if GormDB == nil {
		return nil
	}
	sqlDB, err := GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
