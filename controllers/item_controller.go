package controllers

import (
	"net/http"
	"strconv"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/models"
	"genapi/repositories"
	"genapi/router"
	"genapi/services"
)

type ItemController struct {
	itemService services.ItemService
}

func NewItemController(itemService services.ItemService) *ItemController {
	return &ItemController{itemService: itemService}
}

func (ctl *ItemController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"items"}

	ws.Route(ws.GET("/items").To(ctl.index).
		Doc("List items with filters").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.QueryParameter("page", "Page number").DataType("integer").DefaultValue("1")).
		Param(ws.QueryParameter("limit", "Items per page").DataType("integer").DefaultValue("20")).
		Param(ws.QueryParameter("status", "Filter by status").DataType("string")).
		Param(ws.QueryParameter("type", "Filter by type").DataType("string")).
		Param(ws.QueryParameter("category_id", "Filter by category").DataType("integer")).
		Param(ws.QueryParameter("featured", "Filter featured items").DataType("boolean")).
		Param(ws.QueryParameter("search", "Search in title and description").DataType("string")))

	ws.Route(ws.GET("/items/{id}").To(ctl.show).
		Doc("Get an item by id, counting the view").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Item id").DataType("integer")))

	ws.Route(ws.GET("/items/{id}/related").To(ctl.related).
		Doc("Published items from the same category").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Item id").DataType("integer")))

	ws.Route(ws.POST("/items").To(ctl.store).
		Doc("Create an item").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.ItemInput{}).
		Returns(http.StatusCreated, "Item created", Envelope{}))

	ws.Route(ws.PUT("/items/{id}").To(ctl.update).
		Doc("Update an item").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Item id").DataType("integer")).
		Reads(services.ItemUpdateInput{}))

	ws.Route(ws.DELETE("/items/{id}").To(ctl.destroy).
		Doc("Delete an item").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Item id").DataType("integer")))

	ws.Route(ws.POST("/items/{id}/like").To(ctl.like).
		Doc("Like an item").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Item id").DataType("integer")))

	ws.Route(ws.POST("/items/{id}/share").To(ctl.share).
		Doc("Record a share of an item").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Item id").DataType("integer")))
}

func (ctl *ItemController) index(req *restful.Request, resp *restful.Response) {
	filter := repositories.ItemFilter{
		Status: req.QueryParameter("status"),
		Type:   req.QueryParameter("type"),
		Search: req.QueryParameter("search"),
	}
	if raw := req.QueryParameter("category_id"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(resp, http.StatusBadRequest, "Invalid category_id")
			return
		}
		id := uint(categoryID)
		filter.CategoryID = &id
	}
	if raw := req.QueryParameter("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}

	items, pagination, err := ctl.itemService.List(filter, queryInt(req, "page", 1), queryInt(req, "limit", 20))
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Items retrieved successfully", map[string]any{
		"items":      items,
		"pagination": pagination,
	})
}

func (ctl *ItemController) show(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid item id")
		return
	}
	item, err := ctl.itemService.Get(id)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Item retrieved successfully", item)
}

func (ctl *ItemController) related(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid item id")
		return
	}
	related, err := ctl.itemService.Related(id)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Related items retrieved successfully", related)
}

func (ctl *ItemController) store(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}

	input := new(services.ItemInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := requireFields(
		requiredField{"title", input.Title},
		requiredField{"slug", input.Slug},
	); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	item, err := ctl.itemService.Create(claims.UserID, input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusCreated, "Item created successfully", item)
}

func (ctl *ItemController) update(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid item id")
		return
	}

	input := new(services.ItemUpdateInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := ctl.itemService.Update(id, input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Item updated successfully", item)
}

func (ctl *ItemController) destroy(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid item id")
		return
	}
	if err := ctl.itemService.Delete(id); err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Item deleted successfully", nil)
}

func (ctl *ItemController) like(req *restful.Request, resp *restful.Response) {
	ctl.counter(req, resp, ctl.itemService.Like, "Item liked")
}

func (ctl *ItemController) share(req *restful.Request, resp *restful.Response) {
	ctl.counter(req, resp, ctl.itemService.Share, "Item shared")
}

func (ctl *ItemController) counter(req *restful.Request, resp *restful.Response, bump func(uint) (*models.Item, error), message string) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid item id")
		return
	}
	item, err := bump(id)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, message, item)
}
