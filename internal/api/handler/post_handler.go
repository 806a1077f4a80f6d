package handler

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudalaiyandi2004/cyber-backend/internal/api/metrics"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /posts. The body is multipart form data with a
// required "content" field and an optional "image" file; a plain JSON body
// with "content" is also accepted.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        content  formData  string  true   "Post content"
// @Param        image    formData  file    false  "Optional image attachment"
// @Success      201      {object}  postResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	content, err := contentField(c, true)
	if err != nil {
		return err
	}

	attachment, closeFn, err := attachmentField(c)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		Content:    content,
		OwnerID:    userID,
		Attachment: attachment,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// List handles GET /posts. Public; returns all posts newest first with the
// owner's username populated.
//
// @Summary      List all posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}  postListItemResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]postListItemResponse, 0, len(posts))
	for _, pw := range posts {
		items = append(items, toPostListItem(pw))
	}
	return c.JSON(http.StatusOK, items)
}

// MyPosts handles GET /auth/user/posts. Returns the caller's account summary
// together with their own posts.
//
// @Summary      List the caller's posts
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userPostsResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/user/posts [get]
func (h *PostHandler) MyPosts(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	up, err := h.service.MyPosts(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	posts := make([]postResponse, 0, len(up.Posts))
	for _, p := range up.Posts {
		posts = append(posts, toPostResponse(p))
	}

	return c.JSON(http.StatusOK, userPostsResponse{
		User:  userSummaryResponse{Username: up.User.Username, Email: up.User.Email},
		Posts: posts,
	})
}

// Update handles PUT /posts/:id. Only the owner or an admin may update.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Post id"
// @Param        content  formData  string  false  "Replacement content"
// @Param        image    formData  file    false  "Replacement image attachment"
// @Success      200      {object}  postResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	input := ports.UpdatePostInput{
		PostID:     c.Param("id"),
		CallerID:   userID,
		CallerRole: role,
	}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
		}
		if vals, ok := form.Value["content"]; ok && len(vals) > 0 {
			input.Content = &vals[0]
		}
		attachment, closeFn, err := attachmentField(c)
		if err != nil {
			return err
		}
		if closeFn != nil {
			defer closeFn()
		}
		input.Attachment = attachment
	} else {
		var req updatePostRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		input.Content = req.Content
	}

	post, err := h.service.UpdatePost(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /posts/:id. Only the owner or an admin may delete.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Post id"
// @Success      200 {object}  deletePostResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), ports.DeletePostInput{
		PostID:     c.Param("id"),
		CallerID:   userID,
		CallerRole: role,
	}); err != nil {
		return err
	}
	metrics.PostsDeletedTotal.Inc()
	return c.JSON(http.StatusOK, deletePostResponse{Message: "post deleted"})
}

// --- Form helpers ---

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// contentField reads the post content from either a multipart form or a
// JSON body.
func contentField(c echo.Context, required bool) (string, error) {
	if isMultipart(c) {
		return c.FormValue("content"), nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		if required {
			return "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		return "", nil
	}
	return req.Content, nil
}

// attachmentField extracts the optional "image" upload. The returned close
// function must be deferred by the caller when non-nil.
func attachmentField(c echo.Context) (*ports.AttachmentInput, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// Absent file or non-multipart body: no attachment.
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment")
	}

	return &ports.AttachmentInput{
		Filename:    fh.Filename,
		ContentType: formFileContentType(fh),
		Reader:      f,
		Size:        fh.Size,
	}, func() { _ = f.Close() }, nil
}

func formFileContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
