package tutoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/tutoring"
)

func materialInput(kind string) tutoring.MaterialInput {
	return tutoring.MaterialInput{
		Title:        "Słówka",
		Subject:      "angielski",
		Scope:        "podstawa",
		Topic:        "Vocabulary",
		MaterialType: kind,
	}
}

func countMaterials(t *testing.T, f *fixture) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.store.DB().Model(&models.Material{}).Count(&n).Error)
	return n
}

func TestAddMaterialRollsBack(t *testing.T) {
	tests := []struct {
		name string
		in   tutoring.MaterialInput
		msg  string
	}{
		{"missing title", func() tutoring.MaterialInput { in := materialInput(models.MaterialNote); in.Title = ""; return in }(), "Brak wymaganych danych"},
		{"empty note", materialInput(models.MaterialNote), "Notatka nie może być pusta"},
		{"unknown type", materialInput("VIDEO"), "Nieznany typ materiału"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.AddMaterial(f.ctx, f.teacher, tt.in)
			assertKind(t, err, apperr.KindBadRequest, tt.msg)
			assert.Zero(t, countMaterials(t, f))
		})
	}
}

func TestAddMaterialAndTree(t *testing.T) {
	f := newFixture(t)

	note := materialInput(models.MaterialNote)
	note.Title = "Czasy"
	note.Content = "Present Simple..."
	noteMat, err := f.svc.AddMaterial(f.ctx, f.teacher, note)
	require.NoError(t, err)

	vocab := materialInput(models.MaterialVocabulary)
	vocab.WordsEN = []string{"happy", "", "sad", "angry"}
	vocab.WordsPL = []string{"szczęśliwy", "pusty", "smutny"}
	vocab.ImageURLs = []string{"", "", "https://example.com/sad.png"}
	vocab.Category = "Feelings and emotions"
	vocabMat, err := f.svc.AddMaterial(f.ctx, f.teacher, vocab)
	require.NoError(t, err)
	require.Len(t, vocabMat.VocabularyItems, 2)

	plain := materialInput(models.MaterialVocabulary)
	plain.Title = "Bez kategorii"
	plain.WordsEN = []string{"name"}
	plain.WordsPL = []string{"imię"}
	_, err = f.svc.AddMaterial(f.ctx, f.teacher, plain)
	require.NoError(t, err)

	got, err := f.svc.GetMaterial(f.ctx, vocabMat.ID)
	require.NoError(t, err)
	require.Len(t, got.VocabularyItems, 2)
	assert.Equal(t, "happy", got.VocabularyItems[0].WordEN)
	assert.Nil(t, got.VocabularyItems[0].ImageURL)
	require.NotNil(t, got.VocabularyItems[1].ImageURL)

	gotNote, err := f.svc.GetMaterial(f.ctx, noteMat.ID)
	require.NoError(t, err)
	require.NotNil(t, gotNote.Note)
	assert.Equal(t, "Present Simple...", gotNote.Note.Content)

	_, err = f.svc.GetMaterial(f.ctx, 999)
	assertKind(t, err, apperr.KindNotFound, "")

	tree, err := f.svc.MaterialsTree(f.ctx)
	require.NoError(t, err)
	leaves := tree["angielski"]["podstawa"]["Vocabulary"]
	require.Len(t, leaves, 3)
	assert.Len(t, leaves[tutoring.GeneralBucket], 1)
	assert.Len(t, leaves["Feelings and emotions"], 1)
	require.Len(t, leaves[models.DefaultVocabularyCategory], 1)
	assert.Equal(t, "Bez kategorii", leaves[models.DefaultVocabularyCategory][0].Title)
}

func TestVocabularyGroups(t *testing.T) {
	f := newFixture(t)
	in := materialInput(models.MaterialVocabulary)
	in.WordsEN = []string{"banana", "apple", "Avocado", "cherry"}
	in.WordsPL = []string{"banan", "jabłko", "awokado", "wiśnia"}
	_, err := f.svc.AddMaterial(f.ctx, f.teacher, in)
	require.NoError(t, err)

	groups, err := f.svc.Vocabulary(f.ctx)
	require.NoError(t, err)

	letters := map[string][]string{}
	for _, g := range groups {
		for _, it := range g.Items {
			letters[g.Letter] = append(letters[g.Letter], it.WordEN)
		}
	}
	assert.Len(t, groups, 3)
	assert.ElementsMatch(t, []string{"apple", "Avocado"}, letters["A"])
	assert.Equal(t, []string{"banana"}, letters["B"])
	assert.Equal(t, []string{"cherry"}, letters["C"])
}
