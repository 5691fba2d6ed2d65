package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/in-nis/matura-back/internal/models"
)

// CreateMaterial inserts only the material row; children are added separately
// so callers can validate them inside the same transaction.
func (s *Store) CreateMaterial(ctx context.Context, m *models.Material) error {
	err := s.db.WithContext(ctx).Omit("Note", "VocabularyItems").Create(m).Error
	return errors.Wrap(err, "creating material")
}

func (s *Store) CreateMaterialText(ctx context.Context, n *models.MaterialText) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(n).Error, "creating material note")
}

func (s *Store) CreateVocabularyItems(ctx context.Context, items []models.VocabularyItem) error {
	if len(items) == 0 {
		return nil
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&items).Error, "creating vocabulary")
}

// ListMaterials returns all materials with their vocabulary, ordered by
// subject, scope, section and title.
func (s *Store) ListMaterials(ctx context.Context) ([]models.Material, error) {
	var out []models.Material
	err := s.db.WithContext(ctx).
		Preload("VocabularyItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Order("subject, zakres, dzial, title, id").
		Find(&out).Error
	return out, errors.Wrap(err, "listing materials")
}

func (s *Store) GetMaterial(ctx context.Context, id uint) (*models.Material, error) {
	var m models.Material
	err := s.db.WithContext(ctx).
		Preload("Note").
		Preload("VocabularyItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&m, id).Error
	if err != nil {
		return nil, notFound(err, "Materiał nie istnieje")
	}
	return &m, nil
}

// ListVocabulary returns every vocabulary item ordered by the English word.
func (s *Store) ListVocabulary(ctx context.Context) ([]models.VocabularyItem, error) {
	var out []models.VocabularyItem
	err := s.db.WithContext(ctx).Order("word_en, id").Find(&out).Error
	return out, errors.Wrap(err, "listing vocabulary")
}
