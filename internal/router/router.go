package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/ledger-backend/internal/handlers"
	"github.com/GregMSThompson/ledger-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).RequestLogger)
	r.Use(chimw.Recoverer)

	ush := handlers.NewUserHandlers(deps)
	cuh := handlers.NewCurrencyHandlers(deps)
	cah := handlers.NewCardHandlers(deps)
	trh := handlers.NewTransactionHandlers(deps)
	bih := handlers.NewBillHandlers(deps)
	exh := handlers.NewExpenseHandlers(deps)
	goh := handlers.NewGoalHandlers(deps)

	if deps.LocalAuth {
		ush.CredentialRoutes(r)
	}

	r.With(mw.SweepAuth).Post("/internal/sweeps/bill-reminders", bih.Sweep)

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth)

		if !deps.LocalAuth {
			// the identity provider owns credentials; register just creates the profile
			r.Post("/register", ush.Register)
		}

		r.Mount("/user", ush.UserRoutes())
		r.Mount("/currency", cuh.CurrencyRoutes())
		r.Mount("/bankaccount", cah.CardRoutes())
		r.Post("/transfer", cah.Transfer)
		r.Mount("/transactions", trh.TransactionRoutes())
		r.Get("/bills-due-soon", bih.DueSoon)
		r.Mount("/bills", bih.BillRoutes())
		r.Mount("/expenses", exh.ExpenseRoutes())
		r.Get("/insights", exh.Insights)
		r.Mount("/goals", goh.GoalRoutes())
	})
	return r
}
