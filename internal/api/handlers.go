package api

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/console"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/models"
	"github.com/in-nis/matura-back/internal/tutoring"
)

// Handler carries the services the HTTP routes call into.
type Handler struct {
	svc     *tutoring.Service
	auth    *auth.Service
	console *console.Console
}

func NewHandler(svc *tutoring.Service, authSvc *auth.Service, con *console.Console) *Handler {
	return &Handler{svc: svc, auth: authSvc, console: con}
}

// StatusResponse is returned by mutations that have nothing else to report.
type StatusResponse struct {
	Status string `json:"status"`
}

var statusOK = StatusResponse{Status: "ok"}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httpx.Fail(c, apperr.NotFound("Nie znaleziono"))
		return 0, false
	}
	return uint(id), true
}

// formFile opens the optional upload named field; nil when nothing was sent.
func formFile(c *gin.Context, field string) (*tutoring.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperr.BadRequest("Niepoprawny plik")
	}
	if fh.Filename == "" || fh.Size == 0 {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &tutoring.Upload{Name: fh.Filename, Body: f}, closer(f), nil
}

func closer(f multipart.File) func() { return func() { _ = f.Close() } }

// Dashboard godoc
// @Summary      Role dashboard
// @Description  Redirects to the panel of the current user's role
// @Tags         panel
// @Success      302
// @Failure      403  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	switch auth.CurrentUser(c).Role {
	case models.RoleAdmin:
		c.Redirect(http.StatusFound, "/panel/admin")
	case models.RoleTeacher:
		c.Redirect(http.StatusFound, "/panel/teacher")
	case models.RoleStudent:
		c.Redirect(http.StatusFound, "/panel/student")
	default:
		httpx.Fail(c, apperr.Forbidden("Nieznana rola"))
	}
}

// Panel returns the profile for roles whose panel has no data of its own.
func (h *Handler) Panel(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Profile(auth.CurrentUser(c)))
}

// GetMe godoc
// @Summary      Current user
// @Tags         profile
// @Produce      json
// @Success      200  {object} tutoring.Profile
// @Failure      401  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Profile(auth.CurrentUser(c)))
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Updates names, optionally the avatar and the password. A password change ends all sessions.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        imie              formData string false "First name"
// @Param        nazwisko          formData string false "Last name"
// @Param        avatar            formData file   false "Avatar image"
// @Param        old_password      formData string false "Current password"
// @Param        password          formData string false "New password"
// @Param        password_confirm  formData string false "New password again"
// @Success      200  {object} tutoring.Profile
// @Failure      400  {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /profile [post]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in tutoring.ProfileInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	avatar, done, err := formFile(c, "avatar")
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	defer done()

	user := auth.CurrentUser(c)
	changed, err := h.svc.UpdateProfile(c.Request.Context(), user, in, avatar)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	if changed {
		c.SetCookie(auth.CookieName, "", -1, "/", "", h.auth.SecureCookie, true)
		httpx.Done(c, http.StatusOK, statusOK, httpx.LoginPath)
		return
	}
	httpx.Done(c, http.StatusOK, h.svc.Profile(user), "/profile")
}

// GetNotifications godoc
// @Summary      Recent notifications
// @Description  Returns the 10 newest notifications of the current user
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  tutoring.NotificationView
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	ns, err := h.svc.RecentNotifications(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ns)
}

// MarkNotificationsRead godoc
// @Summary      Mark notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object} StatusResponse
// @Security     BearerAuth
// @Router       /notifications/read [post]
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	if err := h.svc.MarkNotificationsRead(c.Request.Context(), auth.CurrentUser(c)); err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  models.User
// @Security     BearerAuth
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  tutoring.NewUserInput  true  "New user"
// @Success      201   {object} models.User
// @Failure      400   {object} httpx.ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var in tutoring.NewUserInput
	if err := c.ShouldBind(&in); err != nil {
		httpx.BadBinding(c, err)
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Done(c, http.StatusCreated, u, "/users")
}

// CatalogResponse describes the subjects, scopes and sections tasks and
// materials are filed under.
type CatalogResponse struct {
	Subjects  []string                       `json:"przedmioty"`
	Scopes    []string                       `json:"zakresy"`
	Sections  map[string][]string            `json:"dzialy"`
	Subtopics map[string]map[string][]string `json:"poddzialy"`
}

// GetCatalog godoc
// @Summary      Subject catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {object} CatalogResponse
// @Security     BearerAuth
// @Router       /catalog [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		Subjects:  models.Subjects,
		Scopes:    models.Scopes,
		Sections:  models.SubjectSections,
		Subtopics: models.SectionSubtopics,
	})
}
