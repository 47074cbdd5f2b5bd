package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/vantech-digital/corsite_api/dto"
	"github.com/vantech-digital/corsite_api/shared"
)

type PostHandler struct {
	postSvc PostServiceInterface
}

func NewPostHandler(postSvc PostServiceInterface) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// @Summary List posts
// @Description List posts, optionally filtered by published state and category
// @Tags public
// @Produce json
// @Param published query bool false "Filter by published state"
// @Param category query string false "Filter by category (project, news, recruitment)"
// @Success 200 {object} shared.Response{data=[]model.Post}
// @Router /api/v1/posts [get]
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	req := dto.PostListRequest{
		Category: c.Query("category"),
	}

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid published filter")
		}
		req.Published = &published
	}

	posts, err := h.postSvc.ListPosts(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", posts)
}

// @Summary Get post by slug
// @Description Fetch a single post by its URL slug
// @Tags public
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} shared.Response{data=model.Post}
// @Router /api/v1/posts/{slug} [get]
func (h *PostHandler) GetPostBySlug(c *fiber.Ctx) error {
	post, err := h.postSvc.GetPostBySlug(c.Params("slug"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", post)
}

// @Summary Create post (Admin)
// @Description Create a post; the slug is derived from the title (Admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param postRequest body dto.CreatePostRequest true "Post details"
// @Success 201 {object} shared.Response{data=model.Post}
// @Router /api/v1/admin/posts [post]
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	post, err := h.postSvc.CreatePost(&req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Post created successfully", post)
}

// @Summary Update post (Admin)
// @Description Update a post; changing the title re-derives the slug (Admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param id path string true "Post ID"
// @Param postRequest body dto.UpdatePostRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=model.Post}
// @Router /api/v1/admin/posts/{id} [put]
func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	post, err := h.postSvc.UpdatePost(c.Params("id"), &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Post updated successfully", post)
}

// @Summary Delete post (Admin)
// @Description Delete a post by ID (Admin only)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param id path string true "Post ID"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/admin/posts/{id} [delete]
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	if err := h.postSvc.DeletePost(c.Params("id")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Post deleted successfully", "deleted")
}
