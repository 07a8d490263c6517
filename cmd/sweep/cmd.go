// Command sweep sends due-bill reminders once and exits. It is the job form of
// POST /internal/sweeps/bill-reminders.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/bootstrap"
	resendclient "github.com/GregMSThompson/ledger-backend/internal/client/resend"
	"github.com/GregMSThompson/ledger-backend/internal/config"
	"github.com/GregMSThompson/ledger-backend/internal/crypto"
	"github.com/GregMSThompson/ledger-backend/internal/notify"
	"github.com/GregMSThompson/ledger-backend/internal/services"
	"github.com/GregMSThompson/ledger-backend/internal/store"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	var notifier *notify.Notifier
	if cfg.ResendAPIKey != "" {
		notifier, err = notify.New(resendclient.NewAdapter(cfg.ResendAPIKey, cfg.EmailFrom), cfg.AppBaseURL)
	} else {
		notifier, err = notify.New(notify.LogMailer{}, cfg.AppBaseURL)
	}
	exitOnError("email templates failed to load", err, bs.Log)

	ustore := store.NewUserStore(bs.Firestore, crypto.NewCipher(bs.KMS, cfg.KMSKeyName))
	biserv := services.NewBillService(store.NewLedgerStore(bs.Firestore), store.NewBillStore(bs.Firestore), ustore, notifier)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.ToContext(ctx, bs.Log.With("job", "bill-reminders"))

	res, err := biserv.RunDueBillSweep(ctx, time.Now())
	exitOnError("sweep failed", err, bs.Log)
	bs.Log.Info("sweep finished", "checked", res.Checked, "sent", res.Sent, "failed", res.Failed)
}
