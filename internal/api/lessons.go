package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/tutoring"
)

const lessonsPath = "/lekcje"

func lessonPath(id uint) string {
	return lessonsPath + "/" + strconv.FormatUint(uint64(id), 10)
}

// ListLessons godoc
// @Summary      Lessons of the current user
// @Description  Teachers get their own lessons with roster counts, students the lessons they attend with their notes
// @Tags         lessons
// @Produce      json
// @Success      200  {object} tutoring.LessonsPage
// @Security     BearerAuth
// @Router       /lekcje [get]
func (h *Handler) ListLessons(c *gin.Context) {
	page, err := h.svc.ListLessons(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateLesson godoc
// @Summary      Create lesson
// @Tags         lessons
// @Accept       json
// @Produce      json
// @Param        body  body  tutoring.LessonInput  true  "Lesson"
// @Success      201   {object} models.Lesson
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      403   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje [post]
func (h *Handler) CreateLesson(c *gin.Context) {
	var in tutoring.LessonInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	l, err := h.svc.CreateLesson(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusCreated, l, lessonsPath)
}

// GetLesson godoc
// @Summary      Lesson detail
// @Tags         lessons
// @Produce      json
// @Param        id   path  int  true  "Lesson ID"
// @Success      200  {object} tutoring.LessonDetail
// @Failure      403  {object} httpx.ErrorResponse
// @Failure      404  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id} [get]
func (h *Handler) GetLesson(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.LessonDetail(c.Request.Context(), auth.CurrentUser(c), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateLesson godoc
// @Summary      Edit lesson
// @Description  Replaces topic, date, times and comment. The roster is not changed.
// @Tags         lessons
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "Lesson ID"
// @Param        body  body  tutoring.LessonInput  true  "Lesson"
// @Success      200   {object} models.Lesson
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      403   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id}/edit [post]
func (h *Handler) UpdateLesson(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in tutoring.LessonInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	l, err := h.svc.UpdateLesson(c.Request.Context(), auth.CurrentUser(c), id, in)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusOK, l, lessonPath(id))
}

// NoteRequest carries a student's lesson note.
type NoteRequest struct {
	Note string `form:"note" json:"note"`
}

// NoteResponse echoes the stored note.
type NoteResponse struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// UpsertNote godoc
// @Summary      Save lesson note
// @Description  Creates or replaces the current student's note for the lesson
// @Tags         lessons
// @Accept       json
// @Produce      json
// @Param        id    path  int          true  "Lesson ID"
// @Param        body  body  NoteRequest  true  "Note"
// @Success      200   {object} NoteResponse
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      403   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id}/notatka [post]
func (h *Handler) UpsertNote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req NoteRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	note, err := h.svc.UpsertNote(c.Request.Context(), auth.CurrentUser(c), id, req.Note)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusOK, NoteResponse{Status: "ok", Note: note.Note}, lessonsPath)
}

// GetLessonTasks godoc
// @Summary      Task picker for a lesson
// @Tags         lessons
// @Produce      json
// @Param        id   path  int  true  "Lesson ID"
// @Success      200  {object} tutoring.LessonTaskPicker
// @Failure      403  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id}/zadania [get]
func (h *Handler) GetLessonTasks(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	picker, err := h.svc.LessonTaskPicker(c.Request.Context(), auth.CurrentUser(c), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, picker)
}

// LinkTasksRequest lists the tasks to attach to a lesson.
type LinkTasksRequest struct {
	TaskIDs []uint `form:"zadanie_ids" json:"zadanie_ids"`
}

// LinkTasksResponse reports how many of the requested tasks were linked.
type LinkTasksResponse struct {
	Status string `json:"status"`
	Linked int    `json:"linked"`
}

// LinkTasks godoc
// @Summary      Link tasks to a lesson
// @Description  Links are added, never removed. Unknown task ids are skipped.
// @Tags         lessons
// @Accept       json
// @Produce      json
// @Param        id    path  int               true  "Lesson ID"
// @Param        body  body  LinkTasksRequest  true  "Task ids"
// @Success      200   {object} LinkTasksResponse
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      403   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id}/zadania [post]
func (h *Handler) LinkTasks(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req LinkTasksRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	n, err := h.svc.LinkTasks(c.Request.Context(), auth.CurrentUser(c), id, req.TaskIDs)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusOK, LinkTasksResponse{Status: "ok", Linked: n}, lessonPath(id))
}

// GetLessonTask godoc
// @Summary      Lesson task for a student
// @Tags         lessons
// @Produce      json
// @Param        id   path  int  true  "Lesson ID"
// @Param        tid  path  int  true  "Task ID"
// @Success      200  {object} tutoring.StudentTaskView
// @Failure      403  {object} httpx.ErrorResponse
// @Failure      404  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id}/zadania/{tid} [get]
func (h *Handler) GetLessonTask(c *gin.Context) {
	lessonID, ok := idParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := idParam(c, "tid")
	if !ok {
		return
	}
	view, err := h.svc.StudentTaskView(c.Request.Context(), auth.CurrentUser(c), lessonID, taskID)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AnswerRequest carries a student's answer.
type AnswerRequest struct {
	Answer string `form:"answer" json:"answer"`
}

// SubmitLessonTask godoc
// @Summary      Submit an open answer
// @Description  Stores the answer and moves the assignment to "do sprawdzenia"
// @Tags         lessons
// @Accept       json
// @Produce      json
// @Param        id    path  int            true  "Lesson ID"
// @Param        tid   path  int            true  "Task ID"
// @Param        body  body  AnswerRequest  true  "Answer"
// @Success      200   {object} models.AssignmentState
// @Failure      403   {object} httpx.ErrorResponse
// @Failure      404   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /lekcje/{id}/zadania/{tid} [post]
func (h *Handler) SubmitLessonTask(c *gin.Context) {
	lessonID, ok := idParam(c, "id")
	if !ok {
		return
	}
	taskID, ok := idParam(c, "tid")
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	state, err := h.svc.SubmitOpenAnswer(c.Request.Context(), auth.CurrentUser(c), lessonID, taskID, req.Answer)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusOK, state, lessonPath(lessonID))
}
