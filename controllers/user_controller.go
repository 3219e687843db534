package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/router"
	"genapi/services"
)

type UserController struct {
	userService services.UserService
}

func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

func (ctl *UserController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"users"}

	ws.Route(ws.GET("/users").To(ctl.index).
		Doc("List users (admin only)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.QueryParameter("page", "Page number").DataType("integer").DefaultValue("1")).
		Param(ws.QueryParameter("limit", "Users per page").DataType("integer").DefaultValue("20")))

	ws.Route(ws.GET("/users/{id}").To(ctl.show).
		Doc("Get a user (self or admin)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "User id").DataType("integer")))

	ws.Route(ws.PUT("/users/{id}").To(ctl.update).
		Doc("Update a user (self or admin)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "User id").DataType("integer")).
		Reads(services.UserUpdateInput{}))

	ws.Route(ws.PUT("/users/{id}/activate").To(ctl.activate).
		Doc("Activate a user account (admin only)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "User id").DataType("integer")))

	ws.Route(ws.PUT("/users/{id}/deactivate").To(ctl.deactivate).
		Doc("Deactivate a user account and revoke its sessions (admin only)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "User id").DataType("integer")))

	ws.Route(ws.DELETE("/users/{id}").To(ctl.destroy).
		Doc("Delete a user (admin only)").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "User id").DataType("integer")))

	ws.Route(ws.GET("/user-types").To(ctl.userTypes).
		Doc("List active user types").
		Metadata(restfulspec.KeyOpenAPITags, tags))
}

func (ctl *UserController) userTypes(req *restful.Request, resp *restful.Response) {
	types, err := ctl.userService.UserTypes()
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "User types retrieved successfully", types)
}

func actorFrom(req *restful.Request) (services.Actor, bool) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{
		UserID:          claims.UserID,
		PermissionLevel: claims.PermissionLevel,
	}, true
}

func (ctl *UserController) index(req *restful.Request, resp *restful.Response) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, pagination, err := ctl.userService.List(actor, queryInt(req, "page", 1), queryInt(req, "limit", 20))
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Users retrieved successfully", map[string]any{
		"users":      users,
		"pagination": pagination,
	})
}

func (ctl *UserController) show(req *restful.Request, resp *restful.Response) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := ctl.userService.Get(actor, id)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "User retrieved successfully", user)
}

func (ctl *UserController) update(req *restful.Request, resp *restful.Response) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid user id")
		return
	}

	input := new(services.UserUpdateInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Email != nil && !validEmail(*input.Email) {
		writeError(resp, http.StatusBadRequest, "Validation failed", "Invalid email format")
		return
	}

	user, err := ctl.userService.Update(actor, id, input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "User updated successfully", user)
}

func (ctl *UserController) activate(req *restful.Request, resp *restful.Response) {
	ctl.setActive(req, resp, true, "User activated successfully")
}

func (ctl *UserController) deactivate(req *restful.Request, resp *restful.Response) {
	ctl.setActive(req, resp, false, "User deactivated successfully")
}

func (ctl *UserController) setActive(req *restful.Request, resp *restful.Response, active bool, message string) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := ctl.userService.SetActive(actor, id, active)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, message, user)
}

func (ctl *UserController) destroy(req *restful.Request, resp *restful.Response) {
	actor, ok := actorFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := ctl.userService.Delete(actor, id); err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "User deleted successfully", nil)
}
