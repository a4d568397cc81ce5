package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/client"
	"github.com/sentinelwallet/sentinel/internal/engine"
	"github.com/sentinelwallet/sentinel/internal/model"
)

// WalletHandler adapts HTTP requests to typed engine requests.
type WalletHandler struct {
	engine *engine.Engine
	prices *client.PriceFeed
	logger *zap.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(eng *engine.Engine, prices *client.PriceFeed, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{engine: eng, prices: prices, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, resp model.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func (h *WalletHandler) writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, model.OK(data))
}

func (h *WalletHandler) writeError(w http.ResponseWriter, err error) {
	h.logger.Debug("request failed", zap.String("code", model.ErrorCode(err)), zap.Error(err))
	writeJSON(w, httpStatus(err), model.Fail(err))
}

// httpStatus maps the API error code to an HTTP status.
func httpStatus(err error) int {
	switch model.ErrorCode(err) {
	case model.CodeValidation:
		return http.StatusBadRequest
	case model.CodeAuth, model.CodeDecryption:
		return http.StatusUnauthorized
	case model.CodeLocked:
		return http.StatusForbidden
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeUnsupported:
		return http.StatusNotImplemented
	case model.CodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// dispatch runs one typed request and writes the uniform response envelope.
func (h *WalletHandler) dispatch(w http.ResponseWriter, r *http.Request, req engine.Request) {
	data, err := h.engine.Dispatch(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, data)
}

// CreateWallet handles POST /wallets
// @Summary      Create or import a wallet
// @Description  Encrypts the seed phrase under the password and derives the first account. Omit seedPhrase to generate a fresh mnemonic, returned once for backup.
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        request  body      engine.CreateWalletRequest  true  "Wallet data"
// @Success      200      {object}  model.Response
// @Router       /wallets [post]
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req engine.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, model.NewValidationError("body", err.Error()))
		return
	}
	h.dispatch(w, r, req)
}

// ListWallets handles GET /wallets
// @Summary      List wallets
// @Description  Lists all wallets with their lock state
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  model.Response
// @Router       /wallets [get]
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.ListWalletsRequest{})
}

// DeleteWallet handles DELETE /wallets/{walletID}
// @Summary      Delete a wallet
// @Description  Locks the wallet and removes it with its accounts and credentials
// @Tags         wallets
// @Produce      json
// @Param        walletID  path      string  true  "Wallet ID"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID} [delete]
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.DeleteWalletRequest{WalletID: r.PathValue("walletID")})
}

// Unlock handles POST /wallets/{walletID}/unlock
// @Summary      Unlock a wallet
// @Description  Verifies the password and opens an auto-locking session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        walletID  path      string                true  "Wallet ID"
// @Param        request   body      handler.PasswordBody  true  "Password"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/unlock [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var body PasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, model.NewValidationError("body", err.Error()))
		return
	}
	h.dispatch(w, r, engine.UnlockWalletRequest{WalletID: r.PathValue("walletID"), Password: body.Password})
}

// Lock handles POST /wallets/{walletID}/lock
// @Summary      Lock a wallet
// @Description  Closes the session and zeroes the in-memory seed
// @Tags         sessions
// @Produce      json
// @Param        walletID  path      string  true  "Wallet ID"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/lock [post]
func (h *WalletHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.LockWalletRequest{WalletID: r.PathValue("walletID")})
}

// Extend handles POST /wallets/{walletID}/extend
// @Summary      Extend a session
// @Description  Resets the auto-lock inactivity window
// @Tags         sessions
// @Produce      json
// @Param        walletID  path      string  true  "Wallet ID"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/extend [post]
func (h *WalletHandler) Extend(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.ExtendSessionRequest{WalletID: r.PathValue("walletID")})
}

// ExportSeed handles POST /wallets/{walletID}/export
// @Summary      Export the seed phrase
// @Description  Re-verifies the password and returns the mnemonic for backup
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Param        walletID  path      string                true  "Wallet ID"
// @Param        request   body      handler.PasswordBody  true  "Password"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/export [post]
func (h *WalletHandler) ExportSeed(w http.ResponseWriter, r *http.Request) {
	var body PasswordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, model.NewValidationError("body", err.Error()))
		return
	}
	h.dispatch(w, r, engine.ExportSeedPhraseRequest{WalletID: r.PathValue("walletID"), Password: body.Password})
}

// Accounts handles GET /wallets/{walletID}/accounts
// @Summary      List accounts
// @Description  Lists the wallet's accounts with cached addresses and balances
// @Tags         accounts
// @Produce      json
// @Param        walletID  path      string  true  "Wallet ID"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/accounts [get]
func (h *WalletHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.GetAccountsRequest{WalletID: r.PathValue("walletID")})
}

// AddAccount handles POST /wallets/{walletID}/accounts
// @Summary      Add an account
// @Description  Derives the wallet's next account index (requires an unlocked session)
// @Tags         accounts
// @Produce      json
// @Param        walletID  path      string  true  "Wallet ID"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/accounts [post]
func (h *WalletHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.AddAccountRequest{WalletID: r.PathValue("walletID")})
}

// RemoveAccount handles DELETE /wallets/{walletID}/accounts/{accountID}
// @Summary      Remove an account
// @Description  Deletes the account; the active flag moves to a remaining account
// @Tags         accounts
// @Produce      json
// @Param        walletID   path      string  true  "Wallet ID"
// @Param        accountID  path      string  true  "Account ID"
// @Success      200        {object}  model.Response
// @Router       /wallets/{walletID}/accounts/{accountID} [delete]
func (h *WalletHandler) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.RemoveAccountRequest{
		WalletID:  r.PathValue("walletID"),
		AccountID: r.PathValue("accountID"),
	})
}

// DeriveAddress handles POST /wallets/{walletID}/accounts/{accountID}/addresses/{network}
// @Summary      Derive a network address
// @Description  Returns the account's address on the network, deriving and caching it on first use
// @Tags         accounts
// @Produce      json
// @Param        walletID   path      string  true  "Wallet ID"
// @Param        accountID  path      string  true  "Account ID"
// @Param        network    path      string  true  "Network name (ethereum, bitcoin, solana, ...)"
// @Success      200        {object}  model.Response
// @Router       /wallets/{walletID}/accounts/{accountID}/addresses/{network} [post]
func (h *WalletHandler) DeriveAddress(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.DeriveAddressRequest{
		WalletID:  r.PathValue("walletID"),
		AccountID: r.PathValue("accountID"),
		Network:   r.PathValue("network"),
	})
}

// RefreshBalance handles POST /wallets/{walletID}/accounts/{accountID}/balance/{network}
// @Summary      Refresh a balance
// @Description  Queries the network for the live balance (and nonce, on EVM chains) and updates the cache
// @Tags         accounts
// @Produce      json
// @Param        walletID   path      string  true  "Wallet ID"
// @Param        accountID  path      string  true  "Account ID"
// @Param        network    path      string  true  "Network name"
// @Success      200        {object}  model.Response
// @Router       /wallets/{walletID}/accounts/{accountID}/balance/{network} [post]
func (h *WalletHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.RefreshBalanceRequest{
		WalletID:  r.PathValue("walletID"),
		AccountID: r.PathValue("accountID"),
		Network:   r.PathValue("network"),
	})
}

// ReceiveQR handles GET /wallets/{walletID}/accounts/{accountID}/qr/{network}
// @Summary      Receive QR code
// @Description  Renders the account's network address as a base64 PNG QR code
// @Tags         accounts
// @Produce      json
// @Param        walletID   path      string  true  "Wallet ID"
// @Param        accountID  path      string  true  "Account ID"
// @Param        network    path      string  true  "Network name"
// @Success      200        {object}  model.Response
// @Router       /wallets/{walletID}/accounts/{accountID}/qr/{network} [get]
func (h *WalletHandler) ReceiveQR(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.ReceiveQRRequest{
		WalletID:  r.PathValue("walletID"),
		AccountID: r.PathValue("accountID"),
		Network:   r.PathValue("network"),
	})
}

// Send handles POST /wallets/{walletID}/send
// @Summary      Send a transaction
// @Description  Signs and broadcasts a transfer from an owned account (requires an unlocked session)
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        walletID  path      string            true  "Wallet ID"
// @Param        request   body      handler.SendBody  true  "Transfer data"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body SendBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, model.NewValidationError("body", err.Error()))
		return
	}
	h.dispatch(w, r, engine.SendTransactionRequest{
		WalletID: r.PathValue("walletID"),
		Network:  body.Network,
		Params:   body.Params,
	})
}

// SignMessage handles POST /wallets/{walletID}/sign
// @Summary      Sign a message
// @Description  Signs an arbitrary message with the key behind an owned address (requires an unlocked session)
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        walletID  path      string            true  "Wallet ID"
// @Param        request   body      handler.SignBody  true  "Message data"
// @Success      200       {object}  model.Response
// @Router       /wallets/{walletID}/sign [post]
func (h *WalletHandler) SignMessage(w http.ResponseWriter, r *http.Request) {
	var body SignBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, model.NewValidationError("body", err.Error()))
		return
	}
	h.dispatch(w, r, engine.SignMessageRequest{
		WalletID: r.PathValue("walletID"),
		Network:  body.Network,
		Address:  body.Address,
		Message:  body.Message,
	})
}

// History handles GET /transactions
// @Summary      Transaction history
// @Description  Lists locally recorded transactions, newest first, optionally filtered by address
// @Tags         transactions
// @Produce      json
// @Param        address  query     string  false  "Filter by from/to address"
// @Success      200      {object}  model.Response
// @Router       /transactions [get]
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.TransactionHistoryRequest{Address: r.URL.Query().Get("address")})
}

// ActiveNetwork handles GET /network
// @Summary      Active network
// @Description  Gets the currently selected network
// @Tags         networks
// @Produce      json
// @Success      200  {object}  model.Response
// @Router       /network [get]
func (h *WalletHandler) ActiveNetwork(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.GetActiveNetworkRequest{})
}

// SetActiveNetwork handles PUT /network/{network}
// @Summary      Select the active network
// @Description  Records the selected network and notifies listeners
// @Tags         networks
// @Produce      json
// @Param        network  path      string  true  "Network name"
// @Success      200      {object}  model.Response
// @Router       /network/{network} [put]
func (h *WalletHandler) SetActiveNetwork(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, engine.SetActiveNetworkRequest{Network: r.PathValue("network")})
}

// Price handles GET /prices/{network}
// @Summary      Native coin price
// @Description  Gets the USD spot price of the network's native coin
// @Tags         prices
// @Produce      json
// @Param        network  path      string  true  "Network name"
// @Success      200      {object}  model.Response
// @Router       /prices/{network} [get]
func (h *WalletHandler) Price(w http.ResponseWriter, r *http.Request) {
	price, err := h.prices.USDPrice(r.Context(), r.PathValue("network"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, map[string]string{"network": r.PathValue("network"), "usd": price})
}

// PasswordBody carries a password for unlock and export requests.
type PasswordBody struct {
	Password string `json:"password"`
}

// SendBody is the transfer request payload.
type SendBody struct {
	Network string           `json:"network"`
	Params  model.SendParams `json:"params"`
}

// SignBody is the message-signing request payload.
type SignBody struct {
	Network string `json:"network"`
	Address string `json:"address"`
	Message string `json:"message"`
}
