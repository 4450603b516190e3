package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-gorm-cache/internal/core/cache"
	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/internal/service"
	"go-gin-gorm-cache/internal/transport/http/ez"
	resp "go-gin-gorm-cache/internal/transport/http/response"
)

// AdminHandler exposes store-direct user search and cache maintenance.
type AdminHandler struct {
	users  *service.UserService
	reader *service.UserReader
	log    *zap.Logger
}

func NewAdminHandler(users *service.UserService, reader *service.UserReader, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, reader: reader, log: log}
}

type searchQuery struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"`
}

type searchResult struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

type ttlOut struct {
	Key        string  `json:"key"`
	TTLSeconds float64 `json:"ttlSeconds"`
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[searchQuery, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *searchQuery) (resp.Resp, error) {
			users, total, err := h.users.Search(c.Request.Context(), domain.UserFilter{
				Offset: in.Offset, Limit: in.Limit, Query: in.Q,
			})
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(searchResult{Total: total, Items: users}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/cache/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			id := c.Param("id")
			ttl, err := h.reader.TTL(c.Request.Context(), id)
			if errors.Is(err, cache.ErrMiss) {
				return resp.Resp{}, domain.ErrNotFound
			}
			if err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(ttlOut{Key: id, TTLSeconds: ttl.Round(time.Millisecond).Seconds()}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/cache/users",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			if err := h.reader.Invalidate(c.Request.Context()); err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"purged": []string{service.AllUsersKey}}), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/cache/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			id := c.Param("id")
			if err := h.reader.Invalidate(c.Request.Context(), id); err != nil {
				return resp.Resp{}, err
			}
			return resp.OK(gin.H{"purged": []string{service.AllUsersKey, id}}), nil
		},
	})
}
