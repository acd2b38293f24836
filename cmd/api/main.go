package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/arjunks/kharcha/internal/budget"
	budgetStore "github.com/arjunks/kharcha/internal/budget/store"
	"github.com/arjunks/kharcha/internal/config"
	"github.com/arjunks/kharcha/internal/database"
	"github.com/arjunks/kharcha/internal/goal"
	goalStore "github.com/arjunks/kharcha/internal/goal/store"
	kharchaHttp "github.com/arjunks/kharcha/internal/http"
	authHandler "github.com/arjunks/kharcha/internal/http/auth"
	budgetHandler "github.com/arjunks/kharcha/internal/http/budget"
	goalHandler "github.com/arjunks/kharcha/internal/http/goal"
	recurringHandler "github.com/arjunks/kharcha/internal/http/recurring"
	txHandler "github.com/arjunks/kharcha/internal/http/transaction"
	"github.com/arjunks/kharcha/internal/recurring"
	recurringStore "github.com/arjunks/kharcha/internal/recurring/store"
	"github.com/arjunks/kharcha/internal/transaction"
	txStore "github.com/arjunks/kharcha/internal/transaction/store"
	"github.com/arjunks/kharcha/internal/user"
	userStore "github.com/arjunks/kharcha/internal/user/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	issuer := user.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	var (
		userService        = user.NewService(userStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		recurringService   = recurring.NewService(recurringStore.New(db), transactionService)
		budgetService      = budget.NewService(budgetStore.New(db))
		goalService        = goal.NewService(goalStore.New(db))
	)

	var (
		authH      = authHandler.NewHandler(userService, issuer)
		txH        = txHandler.NewHandler(transactionService)
		recurringH = recurringHandler.NewHandler(recurringService)
		budgetH    = budgetHandler.NewHandler(budgetService)
		goalH      = goalHandler.NewHandler(goalService)
	)

	router := kharchaHttp.New(issuer, authH, txH, recurringH, budgetH, goalH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
