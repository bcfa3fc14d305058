package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"mess-mate/internal/config"
	"mess-mate/internal/logger"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
	"mess-mate/internal/store"
)

// seed provisions a fresh store with an administrator account, a demo
// student and today's starter content so the dashboard is usable right
// after first boot.
func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	adminEmail := flag.String("admin-email", "admin@mess.local", "administrator account email")
	adminPass := flag.String("admin-password", "", "administrator account password (required)")
	demoStudent := flag.Bool("demo-student", false, "also create student@mess.local/student1 for demos")
	flag.Parse()

	if *adminPass == "" {
		log.Fatal("-admin-password is required")
	}

	logger.Init(config.LogConfig{Level: "info", Console: true})
	cfg := config.Load(*configFile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal("store open failed: ", err)
	}
	defer st.Close(ctx)

	auth := service.NewAuthService(st)
	createAccount(ctx, auth, *adminEmail, *adminPass)
	if *demoStudent {
		createAccount(ctx, auth, "student@mess.local", "student1")
	}

	menu := service.NewMenuService(st)
	empty := ""
	if err := menu.UpdateDailyMenu(ctx, model.MenuUpdateRequest{Breakfast: &empty, Lunch: &empty, Dinner: &empty}); err != nil {
		log.Fatal("menu init failed: ", err)
	}

	ann := service.NewAnnouncementService(st)
	if _, err := ann.Create(ctx, "Welcome", "The mess dashboard is live. Check back for the daily menu.", model.PriorityNormal, *adminEmail); err != nil {
		log.Fatal("announcement init failed: ", err)
	}

	logger.Info("=== seed done ===", "admin", *adminEmail)
}

func createAccount(ctx context.Context, auth *service.AuthService, email, password string) {
	_, err := auth.Signup(ctx, email, password)
	if errors.Is(err, service.ErrEmailTaken) {
		logger.Info("account exists, skipping", "email", email)
		return
	}
	if err != nil {
		log.Fatal("account create failed: ", err)
	}
	logger.Info("account created", "email", email, "role", service.RoleForEmail(email))
}
