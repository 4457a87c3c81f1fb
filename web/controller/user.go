package controller

import (
	"net/http"

	"github.com/secureauth/secureauth/web/middleware"
	"github.com/secureauth/secureauth/web/service"

	"github.com/gin-gonic/gin"
)

// ProfileForm carries the mutable profile fields.
type ProfileForm struct {
	Firstname string `json:"firstname" form:"firstname"`
	Lastname  string `json:"lastname" form:"lastname"`
}

// ChangePasswordForm carries the credential rotation request.
type ChangePasswordForm struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// UserController exposes the self-service operations of an
// authenticated user.
type UserController struct {
	authService *service.AuthService
}

func NewUserController(g *gin.RouterGroup, authService *service.AuthService) *UserController {
	u := &UserController{authService: authService}
	u.initRouter(g)
	return u
}

func (u *UserController) initRouter(g *gin.RouterGroup) {
	users := g.Group("/users")
	users.Use(middleware.TokenRequired(u.authService))
	users.PUT("/profile", u.updateProfile)
	users.PUT("/change-password", u.changePassword)
}

func (u *UserController) updateProfile(c *gin.Context) {
	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	actor := middleware.GetActor(c)
	user, err := u.authService.UpdateProfile(actor.Id, form.Firstname, form.Lastname)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonMsgObj(c, "profile updated successfully", user)
}

func (u *UserController) changePassword(c *gin.Context) {
	var form ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	actor := middleware.GetActor(c)
	if err := u.authService.ChangePassword(actor.Id, form.CurrentPassword, form.NewPassword); err != nil {
		jsonErr(c, err)
		return
	}
	jsonMsg(c, "password changed successfully")
}
