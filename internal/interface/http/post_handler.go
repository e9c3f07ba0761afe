package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-blog-api/internal/application"
	"github.com/oksasatya/go-blog-api/internal/domain/entity"
	"github.com/oksasatya/go-blog-api/internal/interface/middleware"
	"github.com/oksasatya/go-blog-api/pkg/response"
)

type PostHandler struct {
	Svc    *app.PostService
	Logger *logrus.Logger
	// MaxImageBytes caps multipart uploads; zero means no cap.
	MaxImageBytes int64
}

func NewPostHandler(svc *app.PostService, logger *logrus.Logger, maxImageBytes int64) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger, MaxImageBytes: maxImageBytes}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary" binding:"required"`
	Image   string `json:"image" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Absent fields keep their stored value.
type updatePostRequest struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Image   *string `json:"image"`
	Content *string `json:"content"`
}

type postResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Image       string    `json:"image"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toPostResponse(p *entity.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Summary:     p.Summary,
		Image:       p.Image,
		Content:     p.Content,
		Author:      p.AuthorID,
		AuthorEmail: p.AuthorEmail,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostList(posts []entity.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

func (h *PostHandler) caller(c *gin.Context) (string, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return "", false
	}
	return id.UserID, true
}

// Create POST /blog/create
func (h *PostHandler) Create(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), uid, app.CreatePostInput{
		Title:   req.Title,
		Summary: req.Summary,
		Image:   req.Image,
		Content: req.Content,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	postEvents.Add("created", 1)
	response.Success(c, http.StatusCreated, toPostResponse(p), "post created", nil)
}

// All GET /blog/all
func (h *PostHandler) All(c *gin.Context) {
	posts, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostList(posts), "posts", map[string]any{"count": len(posts)})
}

// Get GET /blog/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponse(p), "post", nil)
}

// Update PUT /blog/:id
func (h *PostHandler) Update(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), entity.PostPatch{
		Title:   req.Title,
		Summary: req.Summary,
		Image:   req.Image,
		Content: req.Content,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	postEvents.Add("updated", 1)
	response.Success(c, http.StatusOK, toPostResponse(p), "post updated", nil)
}

// Delete DELETE /blog/:id
func (h *PostHandler) Delete(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	postEvents.Add("deleted", 1)
	response.Success(c, http.StatusOK, gin.H{"id": id}, "post deleted", nil)
}

// Search GET /blog/search?q=&size=
func (h *PostHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	posts, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostList(posts), "search results", map[string]any{"count": len(posts)})
}

// UploadImage POST /blog/image (multipart field "image")
func (h *PostHandler) UploadImage(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	if h.MaxImageBytes > 0 {
		// multipart framing needs some headroom over the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+1<<20)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", nil)
			return
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	if h.MaxImageBytes > 0 && fh.Size > h.MaxImageBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadImage(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "image uploaded", nil)
}
