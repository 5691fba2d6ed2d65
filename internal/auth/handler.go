package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/models"
)

// LoginRequest is the body of POST /login, as JSON or form fields.
type LoginRequest struct {
	Login    string `json:"login" form:"login" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// LoginHandler godoc
// @Summary      Log in
// @Description  Checks login and password, opens a session and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Credentials"
// @Success      200   {object} LoginResponse
// @Failure      400   {object} httpx.ErrorResponse
// @Failure      401   {object} httpx.ErrorResponse
// @Router       /login [post]
func (s *Service) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			httpx.BadBinding(c, err)
			return
		}

		token, sess, err := s.Login(c.Request.Context(), req.Login, req.Password)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		user, err := s.store.GetUserByID(c.Request.Context(), sess.UserID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, int(s.ttl.Seconds()), "/", "", s.SecureCookie, true)
		httpx.Done(c, http.StatusOK, LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: *user}, httpx.DashboardPath)
	}
}

// LogoutHandler godoc
// @Summary      Log out
// @Description  Ends the current session and clears the cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /logout [get]
func (s *Service) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.Logout(c.Request.Context(), TokenFrom(c)); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.SetCookie(CookieName, "", -1, "/", "", s.SecureCookie, true)
		httpx.Done(c, http.StatusOK, gin.H{"status": "ok"}, httpx.LoginPath)
	}
}
