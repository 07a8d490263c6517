package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/ledger-backend/internal/auth"
	"github.com/GregMSThompson/ledger-backend/internal/bootstrap"
	"github.com/GregMSThompson/ledger-backend/internal/cache"
	resendclient "github.com/GregMSThompson/ledger-backend/internal/client/resend"
	"github.com/GregMSThompson/ledger-backend/internal/config"
	"github.com/GregMSThompson/ledger-backend/internal/crypto"
	"github.com/GregMSThompson/ledger-backend/internal/handlers"
	"github.com/GregMSThompson/ledger-backend/internal/middleware"
	"github.com/GregMSThompson/ledger-backend/internal/notify"
	"github.com/GregMSThompson/ledger-backend/internal/response"
	"github.com/GregMSThompson/ledger-backend/internal/router"
	"github.com/GregMSThompson/ledger-backend/internal/services"
	"github.com/GregMSThompson/ledger-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	cipher := crypto.NewCipher(bs.KMS, cfg.KMSKeyName)
	jwtIssuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL, cfg.ResetTTL)

	var notifier *notify.Notifier
	if cfg.ResendAPIKey != "" {
		notifier, err = notify.New(resendclient.NewAdapter(cfg.ResendAPIKey, cfg.EmailFrom), cfg.AppBaseURL)
	} else {
		bs.Log.Warn("RESENDAPIKEY not set, emails will only be logged")
		notifier, err = notify.New(notify.LogMailer{}, cfg.AppBaseURL)
	}
	exitOnError("email templates failed to load", err, bs.Log)

	// stores
	lstore := store.NewLedgerStore(bs.Firestore)
	ustore := store.NewUserStore(bs.Firestore, cipher)
	custore := store.NewCurrencyStore(bs.Firestore)
	cstore := store.NewCardStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	bstore := store.NewBillStore(bs.Firestore)
	estore := store.NewExpenseStore(bs.Firestore)
	gstore := store.NewGoalStore(bs.Firestore)

	// services
	cuserv := services.NewCurrencyService(custore, nil)
	if bs.Redis != nil {
		cuserv = services.NewCurrencyService(custore, cache.NewCurrencyCache(bs.Redis, cfg.CurrencyCacheTTL))
	}
	exserv := services.NewExpenseService(lstore, estore, nil)
	if bs.VertexAdapter != nil {
		exserv = services.NewExpenseService(lstore, estore, bs.VertexAdapter)
	}
	userv := services.NewUserService(ustore, jwtIssuer, notifier, cfg.ResetTTL)
	caserv := services.NewCardService(cstore, cuserv, tstore)
	trserv := services.NewTransactionService(lstore, tstore, cstore, cuserv)
	tfserv := services.NewTransferService(lstore)
	biserv := services.NewBillService(lstore, bstore, ustore, notifier)
	goserv := services.NewGoalService(gstore, cuserv)

	// auth
	var verifier auth.Verifier = jwtIssuer
	localAuth := cfg.AuthProvider == config.AuthProviderLocal
	if localAuth {
		if cfg.JWTSecret == "" {
			exitOnError("config invalid", errMissingJWTSecret, bs.Log)
		}
	} else {
		verifier = auth.NewFirebaseVerifier(bs.Firebase)
	}
	if cfg.SweepToken == "" {
		bs.Log.Warn("SWEEPTOKEN not set, the bill reminder endpoint will reject every call")
	}

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.LocalAuth = localAuth
	deps.UserSvc = userv
	deps.CurrencySvc = cuserv
	deps.CardSvc = caserv
	deps.TransactionSvc = trserv
	deps.TransferSvc = tfserv
	deps.BillSvc = biserv
	deps.ExpenseSvc = exserv
	deps.GoalSvc = goserv

	// router
	r := router.NewRouter(deps, middleware.NewMiddleware(verifier, rh, cfg.SweepToken))
	bs.Log.Info("listening", "port", cfg.Port, "auth_provider", cfg.AuthProvider)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
