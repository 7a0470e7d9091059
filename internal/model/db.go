package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&RelationshipEdge{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&UsageRecord{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ReviewRecord{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ArchiveRecord{}); err != nil {
		return err
	}

	return nil
}
