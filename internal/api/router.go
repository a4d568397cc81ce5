package api

import (
	"net/http"

	"go.uber.org/zap"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sentinelwallet/sentinel/internal/client"
	"github.com/sentinelwallet/sentinel/internal/engine"
	"github.com/sentinelwallet/sentinel/internal/handler"
)

// SetupRouter sets up the router with handlers.
func SetupRouter(eng *engine.Engine, logger *zap.Logger) http.Handler {
	h := handler.NewWalletHandler(eng, client.NewPriceFeed(), logger)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet lifecycle
	mux.HandleFunc("POST /wallets", h.CreateWallet)
	mux.HandleFunc("GET /wallets", h.ListWallets)
	mux.HandleFunc("DELETE /wallets/{walletID}", h.DeleteWallet)
	mux.HandleFunc("POST /wallets/{walletID}/export", h.ExportSeed)

	// Sessions
	mux.HandleFunc("POST /wallets/{walletID}/unlock", h.Unlock)
	mux.HandleFunc("POST /wallets/{walletID}/lock", h.Lock)
	mux.HandleFunc("POST /wallets/{walletID}/extend", h.Extend)

	// Accounts
	mux.HandleFunc("GET /wallets/{walletID}/accounts", h.Accounts)
	mux.HandleFunc("POST /wallets/{walletID}/accounts", h.AddAccount)
	mux.HandleFunc("DELETE /wallets/{walletID}/accounts/{accountID}", h.RemoveAccount)
	mux.HandleFunc("POST /wallets/{walletID}/accounts/{accountID}/addresses/{network}", h.DeriveAddress)
	mux.HandleFunc("POST /wallets/{walletID}/accounts/{accountID}/balance/{network}", h.RefreshBalance)
	mux.HandleFunc("GET /wallets/{walletID}/accounts/{accountID}/qr/{network}", h.ReceiveQR)

	// Transactions
	mux.HandleFunc("POST /wallets/{walletID}/send", h.Send)
	mux.HandleFunc("POST /wallets/{walletID}/sign", h.SignMessage)
	mux.HandleFunc("GET /transactions", h.History)

	// Networks
	mux.HandleFunc("GET /network", h.ActiveNetwork)
	mux.HandleFunc("PUT /network/{network}", h.SetActiveNetwork)

	// Prices
	mux.HandleFunc("GET /prices/{network}", h.Price)

	return mux
}
