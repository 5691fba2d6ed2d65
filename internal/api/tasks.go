package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/excel"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/tutoring"
)

const tasksPath = "/zadania"

// StudentPanel godoc
// @Summary      Student panel
// @Description  Every task assigned to the current student with its status
// @Tags         panel
// @Produce      json
// @Success      200  {array}  tutoring.AssignedTask
// @Security     BearerAuth
// @Router       /panel/student [get]
func (h *Handler) StudentPanel(c *gin.Context) {
	tasks, err := h.svc.StudentPanel(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// StudentTaskTree godoc
// @Summary      Assigned tasks by section
// @Tags         panel
// @Produce      json
// @Success      200  {object} tutoring.TaskTree
// @Security     BearerAuth
// @Router       /student/zadania [get]
func (h *Handler) StudentTaskTree(c *gin.Context) {
	tree, err := h.svc.StudentTaskTree(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// ResolveTask godoc
// @Summary      Answer screen for an assigned task
// @Tags         tasks
// @Produce      json
// @Param        id   path  int  true  "Task ID"
// @Success      200  {object} tutoring.ResolvePage
// @Failure      404  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /task/{id} [get]
func (h *Handler) ResolveTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	page, err := h.svc.ResolveTask(c.Request.Context(), auth.CurrentUser(c), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SubmitClosedAnswer godoc
// @Summary      Grade a closed answer
// @Description  Compares the answer with the key and stores the outcome
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  int            true  "Task ID"
// @Param        body  body  AnswerRequest  true  "Answer"
// @Success      200   {object} tutoring.ClosedResult
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      404   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /task/{id}/submit [post]
func (h *Handler) SubmitClosedAnswer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	res, err := h.svc.SubmitClosedAnswer(c.Request.Context(), auth.CurrentUser(c), id, req.Answer)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetAssignPage godoc
// @Summary      Assignment form data
// @Tags         panel
// @Produce      json
// @Success      200  {object} tutoring.AssignPage
// @Security     BearerAuth
// @Router       /panel/teacher/assign [get]
func (h *Handler) GetAssignPage(c *gin.Context) {
	page, err := h.svc.AssignPage(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AssignTasks godoc
// @Summary      Assign tasks to students
// @Description  mode is "single", "section" or "all". Students keep the state of tasks they already have.
// @Tags         panel
// @Accept       json
// @Produce      json
// @Param        body  body  tutoring.AssignRequest  true  "Selection"
// @Success      200   {object} tutoring.AssignResult
// @Failure      400   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /panel/teacher/assign [post]
func (h *Handler) AssignTasks(c *gin.Context) {
	var req tutoring.AssignRequest
	if err := c.ShouldBind(&req); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	res, err := h.svc.AssignTasks(c.Request.Context(), auth.CurrentUser(c), req)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusOK, res, "/panel/teacher")
}

// ListTasks godoc
// @Summary      Task bank
// @Tags         tasks
// @Produce      json
// @Success      200  {array}  models.Task
// @Security     BearerAuth
// @Router       /zadania [get]
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.ListTasks(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary      Add task
// @Description  Accepts an optional attachment in the "zalacznik" field
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Param        body       body      tutoring.TaskInput  true   "Task"
// @Param        zalacznik  formData  file                false  "Attachment"
// @Success      201  {object} models.Task
// @Failure      400  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /zadania [post]
func (h *Handler) CreateTask(c *gin.Context) {
	var in tutoring.TaskInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	file, done, err := formFile(c, "zalacznik")
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	defer done()

	task, err := h.svc.CreateTask(c.Request.Context(), auth.CurrentUser(c), in, file)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusCreated, task, tasksPath)
}

// ImportResponse reports how many tasks a spreadsheet added.
type ImportResponse struct {
	Count int `json:"count"`
}

// ImportTasks godoc
// @Summary      Import tasks from a spreadsheet
// @Description  Reads the first sheet of an .xlsx file. One bad row rejects the whole file.
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Spreadsheet"
// @Success      201   {object} ImportResponse
// @Failure      400   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /zadania/import [post]
func (h *Handler) ImportTasks(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httpx.Fail(c, apperr.BadRequest("Nie wybrano pliku"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	defer f.Close()

	rows, err := excel.ParseTasks(f)
	if err != nil {
		httpx.Fail(c, apperr.BadRequest("Nie można odczytać arkusza: "+err.Error()))
		return
	}
	n, err := h.svc.ImportTasks(c.Request.Context(), auth.CurrentUser(c), rows)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusCreated, ImportResponse{Count: n}, tasksPath)
}

// PreviewTask godoc
// @Summary      Task preview for teachers
// @Tags         tasks
// @Produce      json
// @Param        id   path  int  true  "Task ID"
// @Success      200  {object} tutoring.TaskPreview
// @Failure      404  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /teacher/task/{id} [get]
func (h *Handler) PreviewTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	preview, err := h.svc.TaskPreview(c.Request.Context(), id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// EditTask godoc
// @Summary      Edit task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  int                 true  "Task ID"
// @Param        body  body  tutoring.TaskInput  true  "Task"
// @Success      200   {object} models.Task
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      404   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /teacher/task/{id}/edit [post]
func (h *Handler) EditTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in tutoring.TaskInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	task, err := h.svc.EditTask(c.Request.Context(), id, in)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusOK, task, "/teacher/task/"+strconv.FormatUint(uint64(id), 10))
}
