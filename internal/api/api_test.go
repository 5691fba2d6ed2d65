package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/matura-back/internal/api"
	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/config"
	"github.com/in-nis/matura-back/internal/console"
	"github.com/in-nis/matura-back/internal/db/dbtest"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/storage"
	"github.com/in-nis/matura-back/internal/tutoring"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	auth   *auth.Service
	tokens map[string]string
	users  map[string]*models.User
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := dbtest.NewStore(t)
	dir := t.TempDir()
	cfg := &config.Config{
		AvatarDir:      dir + "/avatars",
		UploadDir:      dir + "/zadania",
		MaxUploadBytes: 1 << 20,
	}
	authSvc := auth.NewService(store, "test-secret", time.Hour)
	r := api.SetupRouter(cfg, api.Deps{
		Store:    store,
		Auth:     authSvc,
		Tutoring: tutoring.NewService(store, storage.NewLocal(cfg.AvatarDir, cfg.UploadDir)),
		Console:  console.New(store.DB()),
	})

	s := &testServer{t: t, router: r, auth: authSvc, tokens: map[string]string{}, users: map[string]*models.User{}}
	for login, role := range map[string]models.Role{
		"admin":      models.RoleAdmin,
		"nauczyciel": models.RoleTeacher,
		"uczen":      models.RoleStudent,
		"inny":       models.RoleStudent,
	} {
		u := dbtest.CreateUser(t, store, login, role)
		token, _, err := authSvc.Login(context.Background(), login, login)
		require.NoError(t, err)
		s.users[login] = u
		s.tokens[login] = token
	}
	return s
}

// do sends a JSON request as login; an empty login sends no credentials.
func (s *testServer) do(login, method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if login != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[login])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// form posts url-encoded fields with the session cookie, as a browser does.
func (s *testServer) form(login, path string, values url.Values) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: s.tokens[login]})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *testServer) createLesson(students ...string) uint {
	s.t.Helper()
	ids := make([]uint, 0, len(students))
	for _, login := range students {
		ids = append(ids, s.users[login].ID)
	}
	w := s.do("nauczyciel", http.MethodPost, "/lekcje", tutoring.LessonInput{
		Topic:      "Funkcja kwadratowa",
		Date:       "2025-09-04",
		TimeFrom:   "08:00",
		TimeTo:     "08:45",
		StudentIDs: ids,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var l struct{ ID uint }
	decode(s.t, w, &l)
	return l.ID
}

func (s *testServer) createTask(taskType string, number int) uint {
	s.t.Helper()
	in := tutoring.TaskInput{
		Subject:  "matematyka",
		Scope:    "podstawa",
		Topic:    "Funkcja kwadratowa",
		ExamType: "maj",
		ExamYear: "2024",
		Number:   fmt.Sprint(number),
		Type:     taskType,
		Body:     "Wyznacz wierzchołek paraboli.",
	}
	if taskType == models.TaskTypeClosed {
		in.OptionA, in.OptionB, in.OptionC, in.OptionD = "1", "2", "3", "4"
		in.CorrectOption = "B"
	}
	w := s.do("nauczyciel", http.MethodPost, "/zadania", in)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var task models.Task
	decode(s.t, w, &task)
	return task.ID
}

func TestHealthAndDashboard(t *testing.T) {
	s := newServer(t)

	w := s.do("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for login, panel := range map[string]string{
		"admin":      "/panel/admin",
		"nauczyciel": "/panel/teacher",
		"uczen":      "/panel/student",
	} {
		w := s.do(login, http.MethodGet, "/dashboard", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, panel, w.Header().Get("Location"))
	}

	w = s.do("", http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLessonNoteFlow(t *testing.T) {
	s := newServer(t)
	lessonID := s.createLesson("uczen")
	notePath := fmt.Sprintf("/lekcje/%d/notatka", lessonID)

	w := s.do("uczen", http.MethodGet, "/lekcje", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page tutoring.LessonsPage
	decode(t, w, &page)
	require.Len(t, page.Lessons, 1)
	assert.True(t, page.Lessons[0].CanAddNotes)

	w = s.do("uczen", http.MethodPost, notePath, gin.H{"note": "Powtórzyć wzory"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp api.NoteResponse
	decode(t, w, &resp)
	assert.Equal(t, api.NoteResponse{Status: "ok", Note: "Powtórzyć wzory"}, resp)

	w = s.form("uczen", notePath, url.Values{"note": {"Druga wersja"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/lekcje", w.Header().Get("Location"))

	w = s.do("uczen", http.MethodGet, fmt.Sprintf("/lekcje/%d", lessonID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Druga wersja")

	w = s.do("uczen", http.MethodPost, notePath, gin.H{"note": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not on the roster.
	w = s.do("inny", http.MethodPost, notePath, gin.H{"note": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Teachers cannot write notes.
	w = s.do("nauczyciel", http.MethodPost, notePath, gin.H{"note": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLessonTaskFlow(t *testing.T) {
	s := newServer(t)
	lessonID := s.createLesson("uczen")
	linked := s.createTask(models.TaskTypeOpen, 1)
	unlinked := s.createTask(models.TaskTypeOpen, 2)

	w := s.do("nauczyciel", http.MethodPost, fmt.Sprintf("/lekcje/%d/zadania", lessonID), gin.H{"zadanie_ids": []uint{linked, 999}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var link api.LinkTasksResponse
	decode(t, w, &link)
	assert.Equal(t, 1, link.Linked)

	taskPath := fmt.Sprintf("/lekcje/%d/zadania/%d", lessonID, linked)
	w = s.do("uczen", http.MethodGet, taskPath, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view tutoring.StudentTaskView
	decode(t, w, &view)
	assert.Equal(t, linked, view.Task.ID)
	assert.False(t, view.State.Assigned)

	w = s.do("inny", http.MethodGet, taskPath, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do("nauczyciel", http.MethodGet, taskPath, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do("uczen", http.MethodGet, fmt.Sprintf("/lekcje/%d/zadania/%d", lessonID, unlinked), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do("uczen", http.MethodPost, taskPath, gin.H{"answer": "x = 2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var state models.AssignmentState
	decode(t, w, &state)
	assert.Equal(t, models.StatusSubmitted, state.Status)

	w = s.do("uczen", http.MethodGet, "/panel/student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "x = 2")
}

func TestAssignAndGradeClosedTask(t *testing.T) {
	s := newServer(t)
	taskID := s.createTask(models.TaskTypeClosed, 5)

	w := s.do("uczen", http.MethodPost, fmt.Sprintf("/task/%d/submit", taskID), gin.H{"answer": "B"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do("nauczyciel", http.MethodPost, "/panel/teacher/assign", tutoring.AssignRequest{
		UserIDs: []uint{s.users["uczen"].ID, s.users["nauczyciel"].ID},
		Mode:    tutoring.AssignSingle,
		TaskID:  taskID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res tutoring.AssignResult
	decode(t, w, &res)
	assert.Equal(t, 1, res.Total)

	w = s.do("uczen", http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ns []tutoring.NotificationView
	decode(t, w, &ns)
	require.NotEmpty(t, ns)
	assert.False(t, ns[0].IsRead)

	w = s.do("uczen", http.MethodPost, "/notifications/read", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do("uczen", http.MethodPost, fmt.Sprintf("/task/%d/submit", taskID), gin.H{"answer": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do("uczen", http.MethodPost, fmt.Sprintf("/task/%d/submit", taskID), gin.H{"answer": "B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var graded tutoring.ClosedResult
	decode(t, w, &graded)
	assert.True(t, graded.Correct)

	w = s.do("uczen", http.MethodGet, fmt.Sprintf("/task/%d", taskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page tutoring.ResolvePage
	decode(t, w, &page)
	assert.True(t, page.IsClosed)
	assert.Equal(t, models.StatusCorrect, page.Assignment.Status)

	// Students cannot reach teacher routes.
	w = s.do("uczen", http.MethodGet, "/panel/teacher/assign", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskValidationOverHTTP(t *testing.T) {
	s := newServer(t)

	w := s.do("nauczyciel", http.MethodPost, "/zadania", tutoring.TaskInput{
		Subject:  "fizyka",
		Scope:    "podstawa",
		ExamType: "maj",
		Type:     models.TaskTypeOpen,
		Body:     "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Niepoprawny przedmiot")

	w = s.do("nauczyciel", http.MethodGet, "/teacher/task/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do("nauczyciel", http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cat api.CatalogResponse
	decode(t, w, &cat)
	assert.Contains(t, cat.Subjects, "matematyka")
}

func TestAdminConsole(t *testing.T) {
	s := newServer(t)

	w := s.do("nauczyciel", http.MethodPost, "/baza", api.QueryRequest{Query: "SELECT 1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do("admin", http.MethodPost, "/baza", api.QueryRequest{Query: "SELECT login FROM users ORDER BY login"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res console.Result
	decode(t, w, &res)
	assert.Len(t, res.Rows, 4)

	w = s.do("admin", http.MethodGet, "/baza/tabele", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "users")

	w = s.do("admin", http.MethodGet, "/baza/tabele/brak", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfilePasswordChangeLogsOut(t *testing.T) {
	s := newServer(t)

	w := s.form("uczen", "/profile", url.Values{
		"imie":             {"Jan"},
		"nazwisko":         {"Kowalski"},
		"old_password":     {"uczen"},
		"password":         {"nowehaslo"},
		"password_confirm": {"nowehaslo"},
	})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = s.do("uczen", http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, _, err := s.auth.Login(context.Background(), "uczen", "nowehaslo")
	assert.NoError(t, err)
}
