package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/service"
	"github.com/pageza/recipebook/backend/internal/types"
)

type TagHandler struct {
	tagService service.ITagService
}

func NewTagHandler(tagService service.ITagService) *TagHandler {
	useJSONFieldNames()
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewTagResponses(tags))
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	tag, err := h.tagService.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewTagResponse(tag))
}

// CreateTag answers 201 for a new tag and 200 when the name already existed.
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req types.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, created, err := h.tagService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.NewTagResponse(tag))
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.UpdateTag(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewTagResponse(tag))
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
