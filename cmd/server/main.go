package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mess-mate/internal/config"
	"mess-mate/internal/handler"
	"mess-mate/internal/logger"
	"mess-mate/internal/middleware"
	"mess-mate/internal/service"
	"mess-mate/internal/store"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	middleware.JWTSecret = []byte(cfg.Auth.JWTSecret)

	st, err := store.Open(context.Background(), cfg.Store)
	if err != nil {
		slog.Error("store open failed", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer st.Close(context.Background())
	slog.Info("store ready", "driver", cfg.Store.Driver)

	authSvc := service.NewAuthService(st)
	menuSvc := service.NewMenuService(st)
	annSvc := service.NewAnnouncementService(st)
	fbSvc := service.NewFeedbackService(st)
	mealSvc := service.NewMealService(st)

	authH := handler.NewAuthHandler(authSvc)
	menuH := handler.NewMenuHandler(menuSvc)
	annH := handler.NewAnnouncementHandler(annSvc)
	fbH := handler.NewFeedbackHandler(fbSvc)
	mealH := handler.NewMealHandler(mealSvc)
	streamH := handler.NewStreamHandler(menuSvc, annSvc, fbSvc, mealSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.POST("/api/signup", authH.Signup)
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.Auth())
	api.GET("/me", authH.Me)
	api.POST("/logout", authH.Logout)
	api.GET("/menu", menuH.Get)
	api.GET("/announcements", annH.ListActive)
	api.POST("/feedback", fbH.SubmitFeedback)
	api.POST("/complaints", fbH.SubmitComplaint)
	api.GET("/feedback/mine", fbH.Mine)
	api.POST("/meals", mealH.Submit)
	api.GET("/meals/:date", mealH.Get)
	api.GET("/stream/menu", streamH.Menu)
	api.GET("/stream/announcements", streamH.Announcements)
	api.GET("/stream/meals/:date", streamH.MealSelection)

	admin := api.Group("/admin", middleware.RequireRole("admin"))
	admin.PUT("/menu", menuH.Update)
	admin.GET("/announcements", annH.ListAll)
	admin.POST("/announcements", annH.Create)
	admin.PATCH("/announcements/:id", annH.Toggle)
	admin.DELETE("/announcements/:id", annH.Delete)
	admin.GET("/feedback", fbH.ListFeedback)
	admin.GET("/complaints", fbH.ListComplaints)
	admin.PATCH("/complaints/:id", fbH.UpdateComplaintStatus)
	admin.GET("/stats/:date", mealH.Stats)
	admin.GET("/stats/:date/export", mealH.ExportStats)
	admin.GET("/stream/feedback", streamH.Feedback)
	admin.GET("/stream/complaints", streamH.Complaints)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
