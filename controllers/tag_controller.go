package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/services"
)

type TagController struct {
	tagService services.TagService
}

func NewTagController(tagService services.TagService) *TagController {
	return &TagController{tagService: tagService}
}

func (ctl *TagController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"tags"}

	ws.Route(ws.GET("/tags").To(ctl.index).
		Doc("List tags").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.QueryParameter("page", "Page number").DataType("integer").DefaultValue("1")).
		Param(ws.QueryParameter("limit", "Tags per page").DataType("integer").DefaultValue("20")).
		Param(ws.QueryParameter("search", "Search in name and description").DataType("string")))

	ws.Route(ws.GET("/tags/popular").To(ctl.popular).
		Doc("Most used tags").
		Metadata(restfulspec.KeyOpenAPITags, tags))

	ws.Route(ws.GET("/tags/{id}").To(ctl.show).
		Doc("Get a tag by id").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Tag id").DataType("integer")))

	ws.Route(ws.POST("/tags").To(ctl.store).
		Doc("Create a tag").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.TagInput{}).
		Returns(http.StatusCreated, "Tag created", Envelope{}))

	ws.Route(ws.PUT("/tags/{id}").To(ctl.update).
		Doc("Update a tag").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Tag id").DataType("integer")).
		Reads(services.TagUpdateInput{}))

	ws.Route(ws.DELETE("/tags/{id}").To(ctl.destroy).
		Doc("Delete a tag and its item associations").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Param(ws.PathParameter("id", "Tag id").DataType("integer")))
}

func (ctl *TagController) index(req *restful.Request, resp *restful.Response) {
	result, pagination, err := ctl.tagService.List(
		req.QueryParameter("search"),
		queryInt(req, "page", 1),
		queryInt(req, "limit", 20),
	)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Tags retrieved successfully", map[string]any{
		"tags":       result,
		"pagination": pagination,
	})
}

func (ctl *TagController) popular(req *restful.Request, resp *restful.Response) {
	popular, err := ctl.tagService.Popular()
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Popular tags retrieved successfully", popular)
}

func (ctl *TagController) show(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid tag id")
		return
	}
	tag, err := ctl.tagService.Get(id)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Tag retrieved successfully", tag)
}

func (ctl *TagController) store(req *restful.Request, resp *restful.Response) {
	input := new(services.TagInput)
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

	tag, err := ctl.tagService.Create(input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusCreated, "Tag created successfully", tag)
}

func (ctl *TagController) update(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid tag id")
		return
	}

	input := new(services.TagUpdateInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	tag, err := ctl.tagService.Update(id, input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Tag updated successfully", tag)
}

func (ctl *TagController) destroy(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, "id")
	if !ok {
		writeError(resp, http.StatusBadRequest, "Invalid tag id")
		return
	}
	if err := ctl.tagService.Delete(id); err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Tag deleted successfully", nil)
}
