package controller

import (
	"net/http"
	"strconv"

	"github.com/secureauth/secureauth/database/model"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/middleware"
	"github.com/secureauth/secureauth/web/service"

	"github.com/gin-gonic/gin"
)

// RoleForm carries a role assignment request.
type RoleForm struct {
	Role string `json:"role" form:"role"`
}

// StatusForm carries an account activation toggle. The pointer makes a
// missing field distinguishable from an explicit false.
type StatusForm struct {
	IsActive *bool `json:"isActive" form:"isActive"`
}

// UserAdminController exposes the role-gated administration surface.
// Listing and stats are open to moderators; status, deletion and log
// access stay admin-only. Fine-grained decisions (who may assign which
// role to whom) live in the service's authorization matrix.
type UserAdminController struct {
	adminService *service.UserAdminService
}

func NewUserAdminController(g *gin.RouterGroup, authService *service.AuthService, adminService *service.UserAdminService) *UserAdminController {
	a := &UserAdminController{adminService: adminService}
	a.initRouter(g, authService)
	return a
}

func (a *UserAdminController) initRouter(g *gin.RouterGroup, authService *service.AuthService) {
	admin := g.Group("/admin")
	admin.Use(middleware.TokenRequired(authService))

	staff := admin.Group("")
	staff.Use(middleware.RoleRequired(model.RoleAdmin, model.RoleModerator))
	staff.GET("/users", a.listUsers)
	staff.GET("/users/:id", a.getUser)
	staff.PUT("/users/:id/role", a.updateRole)
	staff.GET("/stats", a.stats)

	root := admin.Group("")
	root.Use(middleware.RoleRequired(model.RoleAdmin))
	root.PUT("/users/:id/status", a.setStatus)
	root.DELETE("/users/:id", a.deleteUser)
	root.GET("/logs", a.logs)
}

func (a *UserAdminController) listUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	pageObj, err := a.adminService.ListUsers(page, limit)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, pageObj)
}

func (a *UserAdminController) getUser(c *gin.Context) {
	user, err := a.adminService.GetUser(c.Param("id"))
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, user)
}

func (a *UserAdminController) updateRole(c *gin.Context) {
	var form RoleForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid request body")
		return
	}
	user, err := a.adminService.UpdateRole(middleware.GetActor(c), c.Param("id"), form.Role)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonMsgObj(c, "user role updated successfully", user)
}

func (a *UserAdminController) setStatus(c *gin.Context) {
	var form StatusForm
	if err := c.ShouldBind(&form); err != nil || form.IsActive == nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "isActive must be a boolean value")
		return
	}
	user, err := a.adminService.SetStatus(middleware.GetActor(c), c.Param("id"), *form.IsActive)
	if err != nil {
		jsonErr(c, err)
		return
	}
	msg := "user deactivated successfully"
	if *form.IsActive {
		msg = "user activated successfully"
	}
	jsonMsgObj(c, msg, user)
}

func (a *UserAdminController) stats(c *gin.Context) {
	stats, err := a.adminService.Stats()
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, stats)
}

func (a *UserAdminController) deleteUser(c *gin.Context) {
	if err := a.adminService.DeleteUser(middleware.GetActor(c), c.Param("id")); err != nil {
		jsonErr(c, err)
		return
	}
	jsonMsg(c, "user deleted successfully")
}

// logs returns recent buffered log lines for diagnostics.
func (a *UserAdminController) logs(c *gin.Context) {
	count, _ := strconv.Atoi(c.DefaultQuery("count", "100"))
	level := c.DefaultQuery("level", "INFO")
	jsonObj(c, logger.GetLogs(count, level))
}
