package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/entity"
	"github.com/secureauth/secureauth/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a success JSON response with a message.
func jsonMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: msg})
}

// jsonObj sends a success JSON response with an object.
func jsonObj(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Obj: obj})
}

// jsonMsgObj sends a success JSON response with a message and an object.
func jsonMsgObj(c *gin.Context, msg string, obj any) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: msg, Obj: obj})
}

// pureJsonMsg sends a JSON message response with a custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{Success: success, Msg: msg})
}

// jsonErr maps service failures onto HTTP statuses. Unexpected errors
// are logged and collapsed to a generic message so internals never
// reach the caller.
func jsonErr(c *gin.Context, err error) {
	if ve, ok := service.AsValidationErrors(err); ok {
		c.JSON(http.StatusBadRequest, entity.Msg{
			Success: false,
			Msg:     "validation failed",
			Obj:     ve.Fields,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrDuplicateAccount):
		pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive):
		pureJsonMsg(c, http.StatusUnauthorized, false, err.Error())
	case errors.Is(err, service.ErrForbidden):
		pureJsonMsg(c, http.StatusForbidden, false, err.Error())
	case errors.Is(err, service.ErrNotFound):
		pureJsonMsg(c, http.StatusNotFound, false, err.Error())
	case errors.Is(err, service.ErrAccountLocked):
		pureJsonMsg(c, http.StatusLocked, false, err.Error())
	default:
		logger.Error("internal error:", err)
		pureJsonMsg(c, http.StatusInternalServerError, false, "something went wrong")
	}
}
