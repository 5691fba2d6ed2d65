package tutoring

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

// GeneralBucket holds materials that are not split by vocabulary category.
const GeneralBucket = "_"

// MaterialInput is the add-material form. The vocabulary lists are parallel:
// entry i of each list describes the same word.
type MaterialInput struct {
	Title        string   `form:"title" json:"title"`
	Subject      string   `form:"subject" json:"subject"`
	Scope        string   `form:"zakres" json:"zakres"`
	Topic        string   `form:"dzial" json:"dzial"`
	MaterialType string   `form:"material_type" json:"material_type"`
	Content      string   `form:"content" json:"content"`
	WordsEN      []string `form:"word_en[]" json:"word_en"`
	WordsPL      []string `form:"word_pl[]" json:"word_pl"`
	ImageURLs    []string `form:"image_url[]" json:"image_url"`
	AudioURLs    []string `form:"audio_url[]" json:"audio_url"`
	Category     string   `form:"vocab_category" json:"vocab_category"`
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// AddMaterial stores a material and its content in one transaction. The
// material row is written first, so a content error rolls it back.
func (s *Service) AddMaterial(ctx context.Context, teacher *models.User, in MaterialInput) (*models.Material, error) {
	m := &models.Material{
		Title:        strings.TrimSpace(in.Title),
		Subject:      strings.TrimSpace(in.Subject),
		Scope:        strings.TrimSpace(in.Scope),
		Topic:        strings.TrimSpace(in.Topic),
		MaterialType: strings.TrimSpace(in.MaterialType),
		CreatedBy:    teacher.ID,
		CreatedAt:    s.now(),
	}
	if m.Title == "" || m.Subject == "" || m.Scope == "" || m.Topic == "" || m.MaterialType == "" {
		return nil, apperr.BadRequest("Brak wymaganych danych")
	}

	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if err := tx.CreateMaterial(ctx, m); err != nil {
			return err
		}
		switch m.MaterialType {
		case models.MaterialNote:
			if strings.TrimSpace(in.Content) == "" {
				return apperr.BadRequest("Notatka nie może być pusta")
			}
			m.Note = &models.MaterialText{MaterialID: m.ID, Content: in.Content}
			return tx.CreateMaterialText(ctx, m.Note)
		case models.MaterialVocabulary:
			category := optional(in.Category)
			for i, en := range in.WordsEN {
				en, pl := strings.TrimSpace(en), strings.TrimSpace(at(in.WordsPL, i))
				if en == "" || pl == "" {
					continue
				}
				m.VocabularyItems = append(m.VocabularyItems, models.VocabularyItem{
					MaterialID: m.ID,
					WordEN:     en,
					WordPL:     pl,
					ImageURL:   optional(at(in.ImageURLs, i)),
					AudioURL:   optional(at(in.AudioURLs, i)),
					Category:   category,
				})
			}
			return tx.CreateVocabularyItems(ctx, m.VocabularyItems)
		default:
			return apperr.BadRequest("Nieznany typ materiału")
		}
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MaterialsTree groups materials by subject, scope, section and category.
type MaterialsTree map[string]map[string]map[string]map[string][]models.Material

// MaterialsTree puts a vocabulary material under each distinct category of
// its items and every other material under GeneralBucket. A material may
// appear in several leaves.
func (s *Service) MaterialsTree(ctx context.Context) (MaterialsTree, error) {
	materials, err := s.store.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	tree := MaterialsTree{}
	add := func(m models.Material, category string) {
		scopes, ok := tree[m.Subject]
		if !ok {
			scopes = map[string]map[string]map[string][]models.Material{}
			tree[m.Subject] = scopes
		}
		sections, ok := scopes[m.Scope]
		if !ok {
			sections = map[string]map[string][]models.Material{}
			scopes[m.Scope] = sections
		}
		categories, ok := sections[m.Topic]
		if !ok {
			categories = map[string][]models.Material{}
			sections[m.Topic] = categories
		}
		categories[category] = append(categories[category], m)
	}

	for _, m := range materials {
		if m.MaterialType != models.MaterialVocabulary {
			add(m, GeneralBucket)
			continue
		}
		seen := map[string]bool{}
		for _, v := range m.VocabularyItems {
			c := v.CategoryOrDefault()
			if seen[c] {
				continue
			}
			seen[c] = true
			add(m, c)
		}
	}
	return tree, nil
}

func (s *Service) GetMaterial(ctx context.Context, id uint) (*models.Material, error) {
	return s.store.GetMaterial(ctx, id)
}

// VocabularyGroup is a run of words sharing an upper-cased first letter.
type VocabularyGroup struct {
	Letter string                  `json:"letter"`
	Items  []models.VocabularyItem `json:"items"`
}

// Vocabulary returns every word ordered by its English form, grouped by the
// first letter.
func (s *Service) Vocabulary(ctx context.Context) ([]VocabularyGroup, error) {
	items, err := s.store.ListVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	groups := []VocabularyGroup{}
	index := map[string]int{}
	for _, it := range items {
		letter := "#"
		if r, _ := utf8.DecodeRuneInString(it.WordEN); r != utf8.RuneError {
			letter = string(unicode.ToUpper(r))
		}
		i, ok := index[letter]
		if !ok {
			i = len(groups)
			index[letter] = i
			groups = append(groups, VocabularyGroup{Letter: letter})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups, nil
}
