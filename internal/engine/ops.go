package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/zap"

	"github.com/sentinelwallet/sentinel/internal/auth"
	"github.com/sentinelwallet/sentinel/internal/common"
	"github.com/sentinelwallet/sentinel/internal/crypto"
	"github.com/sentinelwallet/sentinel/internal/derive"
	"github.com/sentinelwallet/sentinel/internal/model"
)

const (
	minPasswordLen = 8

	// defaultNetwork is the network a new wallet's first account is
	// derived for.
	defaultNetwork = "ethereum"
)

// WalletInfo is the creation result. Mnemonic is set only when the engine
// generated a fresh one; it is shown once for backup and never stored in
// plaintext.
type WalletInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Address   string    `json:"address"`
	Mnemonic  string    `json:"mnemonic,omitempty"`
}

// CreateWallet creates (or imports, when seedPhrase is given) a wallet: the
// phrase is encrypted under the password, a password credential is stored,
// and the first account is derived for the default network.
func (e *Engine) CreateWallet(password, seedPhrase, name string) (*WalletInfo, error) {
	if len(password) < minPasswordLen {
		return nil, model.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if name == "" {
		name = "Wallet"
	}

	generated := seedPhrase == ""
	if generated {
		entropy, err := bip39.NewEntropy(128) // 12 words
		if err != nil {
			return nil, fmt.Errorf("failed to generate entropy: %w", err)
		}
		seedPhrase, err = bip39.NewMnemonic(entropy)
		if err != nil {
			return nil, fmt.Errorf("failed to generate mnemonic: %w", err)
		}
	} else {
		seedPhrase = strings.TrimSpace(seedPhrase)
		words := len(strings.Fields(seedPhrase))
		if words < 12 || words > 24 {
			return nil, model.NewValidationError("seedPhrase", "must contain 12-24 words")
		}
		if !bip39.IsMnemonicValid(seedPhrase) {
			return nil, model.NewValidationError("seedPhrase", "not a valid mnemonic")
		}
	}

	phraseBytes := []byte(seedPhrase)
	defer clear(phraseBytes)

	envelope, err := crypto.Encrypt(phraseBytes, []byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt seed: %w", err)
	}

	credential, err := auth.NewCredential([]byte(password))
	if err != nil {
		return nil, err
	}

	seed := bip39.NewSeed(seedPhrase, "")
	defer clear(seed)

	address, err := derive.Address(seed, defaultNetwork, 0)
	if err != nil {
		return nil, err
	}

	wallet := &model.Wallet{
		ID:        uuid.NewString(),
		Name:      name,
		Envelope:  envelope,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.PutWallet(wallet); err != nil {
		return nil, err
	}
	if err := e.store.PutCredential(wallet.ID, credential); err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:        uuid.NewString(),
		WalletID:  wallet.ID,
		Index:     0,
		IsActive:  true,
		Addresses: map[string]string{defaultNetwork: address},
		// A fresh account is known to be empty; the zero cache lets the
		// dispatcher reject sends offline until a refresh says otherwise.
		Balances: map[string]string{defaultNetwork: "0"},
	}
	if err := e.store.PutAccount(account); err != nil {
		return nil, err
	}

	e.logger.Info("wallet created",
		zap.String("wallet_id", wallet.ID),
		zap.Bool("imported", !generated))
	e.bus.AccountsChanged(wallet.ID)

	info := &WalletInfo{
		ID:        wallet.ID,
		Name:      wallet.Name,
		CreatedAt: wallet.CreatedAt,
		Address:   address,
	}
	if generated {
		info.Mnemonic = seedPhrase
	}
	return info, nil
}

// DeleteWallet locks and removes a wallet with everything it owns.
func (e *Engine) DeleteWallet(walletID string) error {
	e.sessions.Lock(walletID)
	if err := e.store.DeleteWallet(walletID); err != nil {
		return err
	}
	e.logger.Info("wallet deleted", zap.String("wallet_id", walletID))
	e.bus.AccountsChanged(walletID)
	return nil
}

// UnlockResult is returned by UnlockWallet.
type UnlockResult struct {
	Unlocked           bool `json:"unlocked"`
	CredentialRepaired bool `json:"credentialRepaired,omitempty"`
}

// UnlockWallet authenticates and opens a session.
func (e *Engine) UnlockWallet(walletID, password string) (*UnlockResult, error) {
	wallet, err := e.store.Wallet(walletID)
	if err != nil {
		return nil, err
	}
	result, err := e.sessions.Unlock(wallet, []byte(password))
	if err != nil {
		return nil, err
	}
	return &UnlockResult{Unlocked: true, CredentialRepaired: result.Repaired}, nil
}

// LockWallet closes the wallet's session.
func (e *Engine) LockWallet(walletID string) {
	e.sessions.Lock(walletID)
}

// ExtendSession refreshes the auto-lock clock on user activity.
func (e *Engine) ExtendSession(walletID string) error {
	if !e.sessions.Extend(walletID) {
		return model.ErrLocked
	}
	return nil
}

// WalletSummary is a listing row; session state is included so the UI can
// render lock indicators without extra round trips.
type WalletSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Unlocked  bool      `json:"unlocked"`
}

// ListWallets lists all wallets.
func (e *Engine) ListWallets() ([]WalletSummary, error) {
	wallets, err := e.store.Wallets()
	if err != nil {
		return nil, err
	}
	out := make([]WalletSummary, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, WalletSummary{
			ID:        w.ID,
			Name:      w.Name,
			CreatedAt: w.CreatedAt,
			Unlocked:  e.sessions.IsUnlocked(w.ID),
		})
	}
	return out, nil
}

// GetAccounts lists a wallet's accounts. Reads cached addresses only; never
// derives.
func (e *Engine) GetAccounts(walletID string) ([]*model.Account, error) {
	if _, err := e.store.Wallet(walletID); err != nil {
		return nil, err
	}
	return e.store.AccountsByWallet(walletID)
}

// DeriveNetworkAddress returns the account's address on a network, deriving
// and caching it on first use. Requires an unlocked session only when the
// cache misses.
func (e *Engine) DeriveNetworkAddress(walletID, accountID, network string) (string, error) {
	if _, ok := derive.Lookup(network); !ok {
		return "", model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}

	account, err := e.ownedAccount(walletID, accountID)
	if err != nil {
		return "", err
	}
	if cached := account.Address(network); cached != "" {
		return cached, nil
	}

	seed, err := e.sessions.RequireUnlocked(walletID)
	if err != nil {
		return "", err
	}

	seedBytes := seed.Bytes()
	defer clear(seedBytes)
	address, err := derive.Address(seedBytes, network, account.Index)
	if err != nil {
		return "", err
	}

	if account.Addresses == nil {
		account.Addresses = make(map[string]string)
	}
	account.Addresses[network] = address
	if err := e.store.PutAccount(account); err != nil {
		return "", err
	}

	e.bus.AccountsChanged(walletID)
	return address, nil
}

// AddAccount derives the wallet's next account index for the default
// network. Requires an unlocked session.
func (e *Engine) AddAccount(walletID string) (*model.Account, error) {
	seed, err := e.sessions.RequireUnlocked(walletID)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.AccountsByWallet(walletID)
	if err != nil {
		return nil, err
	}
	var next uint32
	for _, a := range existing {
		if a.Index >= next {
			next = a.Index + 1
		}
	}

	seedBytes := seed.Bytes()
	defer clear(seedBytes)
	address, err := derive.Address(seedBytes, defaultNetwork, next)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:        uuid.NewString(),
		WalletID:  walletID,
		Index:     next,
		IsActive:  len(existing) == 0,
		Addresses: map[string]string{defaultNetwork: address},
		Balances:  map[string]string{defaultNetwork: "0"},
	}
	if err := e.store.PutAccount(account); err != nil {
		return nil, err
	}

	e.bus.AccountsChanged(walletID)
	return account, nil
}

// RemoveAccount deletes an account; the store reassigns the active flag to a
// remaining account when needed.
func (e *Engine) RemoveAccount(walletID, accountID string) error {
	if _, err := e.ownedAccount(walletID, accountID); err != nil {
		return err
	}
	if err := e.store.DeleteAccount(accountID); err != nil {
		return err
	}
	e.bus.AccountsChanged(walletID)
	return nil
}

// BalanceInfo is the refresh result. Balance is in base units; Display is
// the same amount in the network's native coin.
type BalanceInfo struct {
	Network string `json:"network"`
	Address string `json:"address"`
	Balance string `json:"balance"` // base units, decimal string
	Display string `json:"display"`
	Nonce   uint64 `json:"nonce,omitempty"`
}

// RefreshBalance queries the network for the account's current balance (and
// nonce, for EVM) and updates the caches. The address comes from the cache:
// refreshing never needs the seed or an unlocked session.
func (e *Engine) RefreshBalance(ctx context.Context, walletID, accountID, network string) (*BalanceInfo, error) {
	net, ok := derive.Lookup(network)
	if !ok {
		return nil, model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}

	account, err := e.ownedAccount(walletID, accountID)
	if err != nil {
		return nil, err
	}
	address := account.Address(network)
	if address == "" {
		return nil, model.NewValidationError("network", "account has no address for this network yet")
	}

	info := &BalanceInfo{Network: network, Address: address}
	var balance *big.Int
	switch net.Family {
	case derive.FamilyEVM:
		balance, err = e.rpc.Balance(ctx, network, address)
		if err != nil {
			return nil, err
		}
		nonce, err := e.rpc.Nonce(ctx, network, address)
		if err != nil {
			return nil, err
		}
		info.Nonce = nonce
		if account.Nonces == nil {
			account.Nonces = make(map[string]uint64)
		}
		account.Nonces[network] = nonce
	case derive.FamilySolana:
		balance, err = e.rpc.SolanaBalance(ctx, network, address)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &model.UnsupportedOperationError{Network: network, Operation: "refreshBalance"}
	}
	info.Balance = balance.String()
	info.Display = common.FormatBaseUnits(balance, common.Decimals(net.Family))

	if account.Balances == nil {
		account.Balances = make(map[string]string)
	}
	account.Balances[network] = info.Balance
	account.BalancesUpdatedAt = time.Now().UTC()
	if err := e.store.PutAccount(account); err != nil {
		return nil, err
	}

	return info, nil
}

// ReceiveQR renders the account's address on a network as a base64 PNG QR
// code for receive screens.
func (e *Engine) ReceiveQR(walletID, accountID, network string) (string, error) {
	account, err := e.ownedAccount(walletID, accountID)
	if err != nil {
		return "", err
	}
	address := account.Address(network)
	if address == "" {
		return "", model.NewValidationError("network", "account has no address for this network yet")
	}

	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// ExportSeedPhrase re-verifies the password and returns the mnemonic for
// backup. The session alone is not enough for this operation.
func (e *Engine) ExportSeedPhrase(walletID, password string) (string, error) {
	wallet, err := e.store.Wallet(walletID)
	if err != nil {
		return "", err
	}
	phrase, err := crypto.Decrypt(wallet.Envelope, []byte(password))
	if err != nil {
		return "", model.ErrAuthentication
	}
	return string(phrase), nil
}

// SetActiveNetwork records the globally selected network and notifies
// listeners so they drop chain-scoped cached state.
func (e *Engine) SetActiveNetwork(network string) error {
	if _, ok := derive.Lookup(network); !ok {
		return model.NewValidationError("network", fmt.Sprintf("unknown network %q", network))
	}
	if err := e.store.SetActiveNetwork(network); err != nil {
		return err
	}
	e.logger.Info("active network changed", zap.String("network", network))
	e.bus.ChainChanged(network)
	return nil
}

// ActiveNetwork returns the selected network, defaulting to ethereum.
func (e *Engine) ActiveNetwork() (string, error) {
	return e.store.ActiveNetwork(defaultNetwork)
}

// ownedAccount loads an account and checks wallet ownership.
func (e *Engine) ownedAccount(walletID, accountID string) (*model.Account, error) {
	account, err := e.store.Account(accountID)
	if err != nil {
		return nil, err
	}
	if account.WalletID != walletID {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}
