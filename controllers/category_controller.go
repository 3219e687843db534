package controllers

import (
	"net/http"
	"strconv"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/repositories"
	"genapi/services"
)

type CategoryController struct {
	categoryService services.CategoryService
}

func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// RegisterRoutes sets up the /categories routes. Reads are public; writes are
// protected by the gate (POST not on the public allowlist, PUT/DELETE always).
func (ctl *CategoryController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"categories"}

	ws.Route(ws.GET("/categories").To(ctl.index).
		Doc("List categories with optional parent and search filters").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.QueryParameter("page", "Page number").DataType("integer").DefaultValue("1")).
		Param(ws.QueryParameter("limit", "Items per page").DataType("integer").DefaultValue("20")).
		Param(ws.QueryParameter("parent_id", "Filter by parent category; 0 or null for roots").DataType("string")).
		Param(ws.QueryParameter("search", "Search in name and description").DataType("string")).
		Returns(http.StatusOK, "Categories retrieved", Envelope{}))

	ws.Route(ws.GET("/categories/tree").To(ctl.tree).
		Doc("Full category tree with nested children").
		Metadata(restfulspec.KeyOpenAPITags, tags))

	ws.Route(ws.GET("/categories/{id}").To(ctl.show).
		Doc("Get a category by id").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Category id").DataType("integer")).
		Returns(http.StatusOK, "Category retrieved", Envelope{}).
		Returns(http.StatusNotFound, "Category not found", Envelope{}))

	ws.Route(ws.POST("/categories").To(ctl.store).
		Doc("Create a category").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.CategoryInput{}).
		Returns(http.StatusCreated, "Category created", Envelope{}).
		Returns(http.StatusBadRequest, "Validation failure or duplicate slug", Envelope{}))

	ws.Route(ws.PUT("/categories/{id}").To(ctl.update).
		Doc("Update a category").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Category id").DataType("integer")).
		Reads(services.CategoryUpdateInput{}))

	ws.Route(ws.DELETE("/categories/{id}").To(ctl.destroy).
		Doc("Delete a category and its direct children").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Category id").DataType("integer")))
}

func (ctl *CategoryController) index(req *restful.Request, resp *restful.Response) {
	filter := repositories.CategoryFilter{
		Search: req.QueryParameter("search"),
	}
	switch raw := req.QueryParameter("parent_id"); raw {
	case "":
	case "0", "null":
		filter.RootsOnly = true
	default:
		parentID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(resp, http.StatusBadRequest, "Invalid parent_id")
			return
		}
		id := uint(parentID)
		filter.ParentID = &id
	}

	page := queryInt(req, "page", 1)
	limit := queryInt(req, "limit", 20)

	categories, pagination, err := ctl.categoryService.List(filter, page, limit)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Categories retrieved successfully", map[string]any{
		"categories": categories,
		"pagination": pagination,
	})
}

func (ctl *CategoryController) show(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid category id")
		return
	}
	category, err := ctl.categoryService.Get(id)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Category retrieved successfully", category)
}

func (ctl *CategoryController) store(req *restful.Request, resp *restful.Response) {
	input := new(services.CategoryInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := requireFields(
		requiredField{"name", input.Name},
		requiredField{"slug", input.Slug},
	); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	category, err := ctl.categoryService.Create(input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusCreated, "Category created successfully", category)
}

func (ctl *CategoryController) update(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid category id")
		return
	}

	input := new(services.CategoryUpdateInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := ctl.categoryService.Update(id, input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Category updated successfully", category)
}

func (ctl *CategoryController) destroy(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid category id")
		return
	}
	if err := ctl.categoryService.Delete(id); err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Category deleted successfully", nil)
}

func (ctl *CategoryController) tree(req *restful.Request, resp *restful.Response) {
	tree, err := ctl.categoryService.Tree()
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Category tree retrieved successfully", tree)
}
