package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/internal/service"
	"go-gin-gorm-cache/internal/transport/http/ez"
	resp "go-gin-gorm-cache/internal/transport/http/response"
)

// HeaderCache tells clients whether a read was served from the cache.
const HeaderCache = "X-Cache"

type UserHandler struct {
	users  *service.UserService
	reader *service.UserReader
	log    *zap.Logger
}

func NewUserHandler(users *service.UserService, reader *service.UserReader, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, reader: reader, log: log}
}

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.CreateUserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateUserInput) (*domain.User, error) {
			return h.users.Create(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			users, res, err := h.reader.ListUsers(c.Request.Context())
			markCache(c, res)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"users": users}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			u, res, err := h.reader.GetUser(c.Request.Context(), c.Param("id"))
			markCache(c, res)
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"user": u}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[service.UpdateUserInput, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateUserInput) (*domain.User, error) {
			return h.users.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.users.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}

func markCache(c *gin.Context, res cache.Result) {
	c.Header(HeaderCache, string(res))
}
