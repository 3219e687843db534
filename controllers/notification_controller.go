package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/router"
	"genapi/services"
)

// NotificationController only ever touches the caller's own notifications; the
// user id always comes from the verified token claims, never from the request.
type NotificationController struct {
	notificationService services.NotificationService
}

func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

func (ctl *NotificationController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"notifications"}

	ws.Route(ws.GET("/notifications").To(ctl.index).
		Doc("List the caller's notifications").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.QueryParameter("page", "Page number").DataType("integer").DefaultValue("1")).
		Param(ws.QueryParameter("limit", "Notifications per page").DataType("integer").DefaultValue("20")).
		Param(ws.QueryParameter("unread", "Only unread notifications").DataType("boolean")))

	ws.Route(ws.GET("/notifications/{id}").To(ctl.show).
		Doc("Get one of the caller's notifications").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Notification id").DataType("integer")))

	// "read-all" is a literal segment, so it must not collide with {id}; the
	// curly router prefers static segments over parameters.
	ws.Route(ws.PUT("/notifications/read-all").To(ctl.readAll).
		Doc("Mark all of the caller's notifications as read").
		Metadata(restfulspec.KeyOpenAPITags, tags))

	ws.Route(ws.PUT("/notifications/{id}/read").To(ctl.read).
		Doc("Mark a notification as read").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Notification id").DataType("integer")))

	ws.Route(ws.DELETE("/notifications/{id}").To(ctl.destroy).
		Doc("Delete one of the caller's notifications").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Notification id").DataType("integer")))
}

func (ctl *NotificationController) index(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}

	unreadOnly := req.QueryParameter("unread") == "true" || req.QueryParameter("unread") == "1"
	notifications, pagination, err := ctl.notificationService.List(
		claims.UserID,
		unreadOnly,
		queryInt(req, "page", 1),
		queryInt(req, "limit", 20),
	)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Notifications retrieved successfully", map[string]any{
		"notifications": notifications,
		"pagination":    pagination,
	})
}

func (ctl *NotificationController) show(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid notification id")
		return
	}

	notification, err := ctl.notificationService.Get(id, claims.UserID)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Notification retrieved successfully", notification)
}

func (ctl *NotificationController) read(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid notification id")
		return
	}

	notification, err := ctl.notificationService.MarkRead(id, claims.UserID)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Notification marked as read", notification)
}

func (ctl *NotificationController) readAll(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}

	updated, err := ctl.notificationService.MarkAllRead(claims.UserID)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "All notifications marked as read", map[string]any{
		"updated": updated,
	})
}

func (ctl *NotificationController) destroy(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := ctl.notificationService.Delete(id, claims.UserID); err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Notification deleted successfully", nil)
}
