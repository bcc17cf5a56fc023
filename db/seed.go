package db

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"edurate/models"
	"edurate/utils"
)

//go:embed courses.yaml
var defaultCourses []byte

type seedFile struct {
	Courses []models.Course `yaml:"courses" validate:"required,min=1,dive"`
}

// LoadSeed reads a course catalog from path, or the built-in one when path is
// empty.
func LoadSeed(path string) ([]models.Course, error) {
	data := defaultCourses
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]models.Course, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := utils.ValidateStruct(f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return f.Courses, nil
}

// Seed inserts courses into an empty catalog. It returns how many were
// inserted; a catalog that already has rows is left alone.
func Seed(ctx context.Context, gdb *gorm.DB, courses []models.Course) (int, error) {
	var inserted int
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Course{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.CreateInBatches(&courses, 100).Error; err != nil {
			return err
		}
		inserted = len(courses)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed courses: %w", err)
	}
	return inserted, nil
}
