package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-gin-gorm-cache/internal/bootstrap"
	"go-gin-gorm-cache/internal/core/auth"
	"go-gin-gorm-cache/internal/core/config"
	"go-gin-gorm-cache/internal/core/server"
	"go-gin-gorm-cache/internal/domain"
	"go-gin-gorm-cache/internal/transport/http/handler"
	"go-gin-gorm-cache/internal/transport/http/router"
)

func main() {
	issue := flag.Bool("issue-token", false, "print a signed admin token and exit")
	uid := flag.String("uid", "ops", "token subject")
	role := flag.String("role", domain.RoleAdmin, "token role")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	if *issue {
		if !domain.ValidRole(*role) {
			fmt.Fprintf(os.Stderr, "unknown role %q, want one of %v\n", *role, domain.Roles)
			os.Exit(2)
		}
		tok, err := jwter.Issue(*uid, *role)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	log, cleanup := bootstrap.Logger(cfg)
	defer cleanup()

	deps, err := bootstrap.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Warn("close backends", zap.Error(err))
		}
	}()

	r := router.NewAdminEngine(router.AdminOptions{
		Log:     log,
		Limits:  bootstrap.Limits(cfg),
		Health:  deps.Health(),
		JWT:     jwter,
		Modules: []router.AdminModule{handler.NewAdminHandler(deps.Users, deps.Reader, log)},
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Error("admin api start FAILED", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("admin api stopped gracefully")
}
