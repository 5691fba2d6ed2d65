package tutoring_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/excel"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/tutoring"
)

func validTask() tutoring.TaskInput {
	return tutoring.TaskInput{
		Subject:  "matematyka",
		Scope:    "podstawa",
		Topic:    "Funkcje",
		ExamType: "maj",
		ExamYear: "2024",
		Number:   "5",
		Type:     models.TaskTypeOpen,
		Body:     "Wyznacz dziedzinę funkcji.",
	}
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *tutoring.TaskInput)
		msg    string
	}{
		{"unknown subject", func(in *tutoring.TaskInput) { in.Subject = "fizyka" }, "Niepoprawny przedmiot"},
		{"unknown scope", func(in *tutoring.TaskInput) { in.Scope = "średni" }, "Niepoprawny zakres"},
		{"section of another subject", func(in *tutoring.TaskInput) { in.Topic = "Grammar" }, "Niepoprawny dział"},
		{"exam sheet without year", func(in *tutoring.TaskInput) { in.ExamYear = "" }, "Rok i numer zadania są wymagane dla arkuszy maturalnych"},
		{"year not a number", func(in *tutoring.TaskInput) { in.ExamYear = "dwa" }, "Rok arkusza musi być liczbą"},
		{"closed without options", func(in *tutoring.TaskInput) { in.Type = models.TaskTypeClosed }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validTask()
			tt.modify(&in)
			_, err := f.svc.CreateTask(f.ctx, f.teacher, in, nil)
			assertKind(t, err, apperr.KindBadRequest, tt.msg)

			tasks, err := f.svc.ListTasks(f.ctx)
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	}
}

func TestCreateTaskOutsideSheetAndAttachment(t *testing.T) {
	f := newFixture(t)
	in := validTask()
	in.ExamType = models.ExamTypeOutside
	in.ExamYear, in.Number = "", ""
	in.Type = models.TaskTypeClosed
	in.OptionA, in.OptionB, in.OptionC, in.OptionD = "1", "2", "3", "4"
	in.CorrectOption = "C"

	task, err := f.svc.CreateTask(f.ctx, f.teacher, in, &tutoring.Upload{Name: "Wykres funkcji.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.Zero(t, task.ExamYear)
	assert.Zero(t, task.Number)

	preview, err := f.svc.TaskPreview(f.ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, preview.Attachments, 1)
	name := preview.Attachments[0].FileName
	assert.Equal(t, fmt.Sprintf("%d/Wykres_funkcji.png", task.ID), name)

	data, err := os.ReadFile(filepath.Join(f.files.TaskDir, filepath.FromSlash(name)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	_, err = f.svc.TaskPreview(f.ctx, 999)
	assertKind(t, err, apperr.KindNotFound, "")
}

func TestEditTask(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.CreateTask(f.ctx, f.teacher, validTask(), nil)
	require.NoError(t, err)

	in := validTask()
	in.Type = models.TaskTypeClosed
	in.OptionA = "1"
	_, err = f.svc.EditTask(f.ctx, task.ID, in)
	assertKind(t, err, apperr.KindBadRequest, "")

	in.OptionB, in.OptionC, in.OptionD, in.CorrectOption = "2", "3", "4", "A"
	edited, err := f.svc.EditTask(f.ctx, task.ID, in)
	require.NoError(t, err)
	assert.True(t, edited.IsClosed())

	stored, err := f.svc.TaskPreview(f.ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Task.CorrectOption)
	assert.Equal(t, "A", *stored.Task.CorrectOption)

	_, err = f.svc.EditTask(f.ctx, 999, in)
	assertKind(t, err, apperr.KindNotFound, "")
}

func importRow(line int, cells map[string]string) excel.Row {
	base := map[string]string{
		"przedmiot": "matematyka", "zakres": "podstawa", "dzial": "Ciągi",
		"rodzaj_arkusza": "maj", "rok_arkusza": "2023", "numer_zadania": "1",
		"typ_zadania": models.TaskTypeOpen, "tresc": "Oblicz sumę.",
	}
	for k, v := range cells {
		base[k] = v
	}
	return excel.Row{Sheet: "Sheet1", Line: line, Cells: base}
}

func TestImportTasks(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ImportTasks(f.ctx, f.teacher, []excel.Row{
		importRow(2, nil),
		importRow(3, map[string]string{"typ_zadania": models.TaskTypeClosed, "odp_a": "1"}),
	})
	assertKind(t, err, apperr.KindBadRequest, "")
	assert.True(t, strings.HasPrefix(err.Error(), "Wiersz 3: "), err.Error())

	tasks, err := f.svc.ListTasks(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	n, err := f.svc.ImportTasks(f.ctx, f.teacher, []excel.Row{
		importRow(2, nil),
		importRow(3, map[string]string{"rodzaj_arkusza": "out", "rok_arkusza": "", "numer_zadania": ""}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	tasks, err = f.svc.ListTasks(f.ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}
