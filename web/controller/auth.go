// Package controller provides the HTTP handlers of the SecureAuth API.
package controller

import (
	"net/http"

	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/middleware"
	"github.com/secureauth/secureauth/web/service"

	"github.com/gin-gonic/gin"
)

// RegisterForm is the registration request body.
type RegisterForm struct {
	Firstname string `json:"firstname" form:"firstname"`
	Lastname  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

// LoginForm is the login request body.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthController handles registration, login, token verification and
// logout.
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController creates the controller and mounts its routes.
func NewAuthController(g *gin.RouterGroup, authService *service.AuthService) *AuthController {
	a := &AuthController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	auth := g.Group("/auth")
	auth.POST("/register", a.register)
	auth.POST("/login", a.login)

	authed := auth.Group("")
	authed.Use(middleware.TokenRequired(a.authService))
	authed.GET("/verify", a.verify)
	authed.POST("/logout", a.logout)
}

func (a *AuthController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	user, err := a.authService.Register(form.Firstname, form.Lastname, form.Email, form.Password)
	if err != nil {
		jsonErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"msg":     "user registered successfully",
		"obj":     user,
	})
}

func (a *AuthController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	if form.Email == "" || form.Password == "" {
		pureJsonMsg(c, http.StatusBadRequest, false, "email and password are required")
		return
	}

	result, err := a.authService.Login(form.Email, form.Password)
	if err != nil {
		logger.Warningf("failed login for %q from %s", form.Email, getRemoteIp(c))
		jsonErr(c, err)
		return
	}
	jsonMsgObj(c, "login successful", result)
}

// verify re-checks the bearer token and returns the current user. The
// heavy lifting already happened in TokenRequired.
func (a *AuthController) verify(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		pureJsonMsg(c, http.StatusUnauthorized, false, "authentication required")
		return
	}
	jsonObj(c, user)
}

// logout acknowledges the logout. Tokens are stateless; the client
// clears its session record.
func (a *AuthController) logout(c *gin.Context) {
	jsonMsg(c, "logged out successfully")
}
