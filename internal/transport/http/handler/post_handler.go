package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/internal/service"
	"go-gin-gorm-cache/internal/transport/http/ez"
)

type PostHandler struct {
	posts *service.PostService
	log   *zap.Logger
}

func NewPostHandler(posts *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

func (h *PostHandler) Priority() int { return 20 }

func (h *PostHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.CreatePostInput, *domain.Post]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreatePostInput) (*domain.Post, error) {
			return h.posts.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.PostView]{
		Method: http.MethodGet,
		Path:   "/posts",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.PostView, error) {
			return h.posts.List(c.Request.Context())
		},
	})
}
