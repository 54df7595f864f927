package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline-backend/internal/adapter/store/memory"
	"github.com/ledgerline/ledgerline-backend/internal/domain"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/performance"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/period"
	"github.com/ledgerline/ledgerline-backend/internal/usecase/session"
)

const defaultCurrency = "USD"

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if levelName := os.Getenv("LOG_LEVEL"); levelName != "" {
		level, err := zerolog.ParseLevel(levelName)
		if err != nil {
			logger.Fatal().Err(err).Str("level", levelName).Msg("invalid LOG_LEVEL")
		}
		logger = logger.Level(level)
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = defaultCurrency
	}

	// 1. Seed the in-process store with a small demo ledger
	store := memory.NewStore()
	seed(store)

	// 2. Wire the session over the store's repositories
	sess := session.New(session.Repositories{
		Accounts:        memory.NewAccountRepository(store),
		Assets:          memory.NewAssetRepository(store),
		AccountBalances: memory.NewAccountBalanceRepository(store),
		AssetBalances:   memory.NewAssetBalanceRepository(store),
		Transactions:    memory.NewTransactionRepository(store),
		BalanceTypes:    memory.NewBalanceTypeRepository(store),
	}, logger)

	ctx := context.Background()
	if err := sess.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("initial load failed")
	}
	if err := sess.Start(); err != nil {
		logger.Warn().Err(err).Msg("running without live updates")
	}
	defer sess.Stop()

	printDashboard(logger, sess, currency)

	// 3. Apply a live mutation so the recomputation trigger is visible
	store.CreateTransaction(&domain.Transaction{
		AccountID:   findAccount(sess, "Wallet"),
		Date:        time.Now(),
		Value:       decimal.NewFromInt(-75),
		Description: "Dinner out",
	})
	time.Sleep(100 * time.Millisecond)
	logger.Info().Msg("after live transaction")
	printDashboard(logger, sess, currency)

	waitForShutdown(logger)
}

func findAccount(sess *session.Session, name string) string {
	for _, row := range sess.TransactionRows(period.Lifetime, session.KindAll) {
		if row.AccountName == name {
			return row.AccountID
		}
	}
	return ""
}

// seed populates the store with one user's demo ledger: a checking account
// with snapshots, an auto-calculated spending account, a credit card, and a
// brokerage asset with a detailed snapshot.
func seed(store *memory.Store) {
	owner := "demo"
	now := time.Now().UTC()
	monthsAgo := func(n int) time.Time { return now.AddDate(0, -n, 0) }

	checkingType := store.EnsureBalanceType(owner, "Checking")
	savingsType := store.EnsureBalanceType(owner, "Savings")
	creditType := store.EnsureBalanceType(owner, "Credit card")
	brokerageType := store.EnsureBalanceType(owner, "Brokerage")

	checking := store.CreateAccount(&domain.Account{
		Name:          "Everyday Checking",
		Category:      domain.CategoryCash,
		BalanceTypeID: checkingType.ID,
	})
	for i, value := range []int64{2500, 2800, 3100, 3400} {
		store.CreateAccountBalance(&domain.AccountBalance{
			AccountID: checking.ID,
			Value:     decimal.NewFromInt(value),
			AsOf:      monthsAgo(3 - i),
		})
	}

	autoAt := monthsAgo(6)
	spending := store.CreateAccount(&domain.Account{
		Name:             "Wallet",
		Category:         domain.CategoryCash,
		BalanceTypeID:    savingsType.ID,
		AutoCalculatedAt: &autoAt,
	})
	for i := 0; i < 6; i++ {
		store.CreateTransaction(&domain.Transaction{
			AccountID:   spending.ID,
			Date:        monthsAgo(i).AddDate(0, 0, 1),
			Value:       decimal.NewFromInt(1800),
			Description: "Payroll",
		})
		store.CreateTransaction(&domain.Transaction{
			AccountID:   spending.ID,
			Date:        monthsAgo(i).AddDate(0, 0, 3),
			Value:       decimal.NewFromInt(-950),
			Description: "Rent",
		})
	}

	creditCard := store.CreateAccount(&domain.Account{
		Name:          "Crescent Classic",
		Category:      domain.CategoryDebt,
		BalanceTypeID: creditType.ID,
	})
	store.CreateAccountBalance(&domain.AccountBalance{
		AccountID: creditCard.ID,
		Value:     decimal.NewFromInt(-1200),
		AsOf:      now,
	})

	quantity := decimal.NewFromInt(10)
	marketPrice := decimal.NewFromInt(420)
	brokerage := store.CreateAsset(&domain.Asset{
		Name:          "Index Fund",
		Symbol:        "VTI",
		Category:      domain.CategoryInvestment,
		BalanceTypeID: brokerageType.ID,
		Type:          domain.AssetTypeShares,
	})
	store.CreateAssetBalance(&domain.AssetBalance{
		AssetID: brokerage.ID,
		AsOf:    now,
		Detail: domain.DetailedBalance{
			BookValue:   decimal.NewFromInt(3800),
			MarketValue: quantity.Mul(marketPrice),
			Quantity:    &quantity,
			MarketPrice: &marketPrice,
		},
	})
}

func printDashboard(logger zerolog.Logger, sess *session.Session, currency string) {
	sheet := sess.BalanceSheet()
	event := logger.Info().Str("netWorth", formatMoney(sheet.NetWorth, currency))
	for _, category := range domain.Categories() {
		event = event.Str(string(category), formatMoney(sheet.TotalsByCategory[category], currency))
	}
	event.Msg("balance sheet")

	flow := sess.Cashflow().Last6Months
	logger.Info().
		Str("income", formatMoney(flow.Income, currency)).
		Str("expenses", formatMoney(flow.Expenses, currency)).
		Str("surplus", formatMoney(flow.Surplus, currency)).
		Msg("6-month cashflow per month")

	table := sess.Performance()
	perfEvent := logger.Info()
	for _, anchor := range performance.Anchors() {
		perfEvent = perfEvent.Str(string(anchor), performance.FormatPercent(table.NetWorth.Cells[anchor]))
	}
	perfEvent.Msg("net worth performance")
}

// formatMoney renders a decimal amount in the currency's display format,
// e.g. $2,500.00.
func formatMoney(v decimal.Decimal, code string) string {
	currency := money.GetCurrency(code)
	fraction := 2
	if currency != nil {
		fraction = currency.Fraction
	}
	units := v.Shift(int32(fraction)).Round(0).IntPart()
	return money.New(units, code).Display()
}

// waitForShutdown blocks until SIGTERM or SIGINT.
func waitForShutdown(logger zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("shutting down")
}
