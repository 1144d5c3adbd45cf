package api

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"go.uber.org/zap"
)

// Wallet tracks the outputs an Account owns and drives the multiuser
// protocol for it. It is not safe for concurrent use.
type Wallet struct {
	Account   *Account
	Config    *Config
	Logger    *zap.Logger
	Transfers []*TransferDetails

	verifier *VerifyCache
}

func NewWallet(account *Account, cfg *Config, logger *zap.Logger) (*Wallet, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	verifier, err := NewVerifyCache(cfg.VerifyCacheSize)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Account:  account,
		Config:   cfg,
		Logger:   logger,
		verifier: verifier,
	}, nil
}

func (w *Wallet) Address() *PublicAddress {
	return w.Account.PublicAddress()
}

// Scan records every output of tx paying this wallet. globalIndex is the
// global index of tx's first output.
func (w *Wallet) Scan(tx *Transaction, globalIndex uint64) ([]*TransferDetails, error) {
	extra, err := ParseTxExtra(tx.Extra)
	if err != nil {
		return nil, err
	}
	if len(tx.Vout) != len(tx.Rct.EcdhInfo) || len(tx.Vout) != len(tx.Rct.OutPk) {
		return nil, fmt.Errorf("Scan invalid rct sizes %d, %d, %d", len(tx.Vout), len(tx.Rct.EcdhInfo), len(tx.Rct.OutPk))
	}

	spend := PublicKey(w.Account.SpendPrivateKey)
	var received []*TransferDetails
	for n := range tx.Vout {
		var R Key
		if n < len(extra.AdditionalPubKeys) {
			R = extra.AdditionalPubKeys[n]
		} else if extra.PubKey != nil {
			R = *extra.PubKey
		} else {
			continue
		}
		pub, err := R.Point()
		if err != nil {
			continue
		}
		shared := derivationToScalar(createSharedSecret(pub, w.Account.ViewPrivateKey), uint64(n))
		if pointKey(derivePublicKey(shared, spend)) != tx.Vout[n].Key {
			continue
		}
		mask, amount, ok := ecdhDecode(tx.Rct.EcdhInfo[n], shared)
		if !ok || pointKey(pedersenGens.CommitAmount(amount, mask)) != tx.Rct.OutPk[n] {
			w.Logger.Warn("output with bad amount encoding", zap.Int("index", n))
			continue
		}
		x := deriveSecretKey(shared, w.Account.SpendPrivateKey)
		td := &TransferDetails{
			TxPublicKey: R,
			OutputIndex: uint64(n),
			GlobalIndex: globalIndex + uint64(n),
			Key:         tx.Vout[n].Key,
			Commitment:  tx.Rct.OutPk[n],
			Amount:      amount,
			Mask:        scalarKey(mask),
			KeyImage:    pointKey(keyImageFromPrivate(x)),
		}
		w.Transfers = append(w.Transfers, td)
		received = append(received, td)
		w.Logger.Debug("received output",
			zap.Int("index", n),
			zap.String("amount", FormatAmount(amount)))
	}
	return received, nil
}

// BuildTransaction spends inputs to dests, sending change back to w.
func (w *Wallet) BuildTransaction(inputs []*InputCredential, dests []Destination, fee, unlockTime uint64) (*PendingTx, *MultiuserOut, error) {
	tb := &TransactionBuilder{
		Inputs:     inputs,
		Dests:      dests,
		Change:     *w.Address(),
		Fee:        fee,
		UnlockTime: unlockTime,
		RingSize:   w.Config.RingSize,
	}
	return tb.Build()
}

func (w *Wallet) findTransfer(keyImage Key) *TransferDetails {
	for _, td := range w.Transfers {
		if td.KeyImage == keyImage {
			return td
		}
	}
	return nil
}

func (w *Wallet) onetimePrivateKey(td *TransferDetails) (*ristretto.Scalar, error) {
	pub, err := td.TxPublicKey.Point()
	if err != nil {
		return nil, err
	}
	shared := derivationToScalar(createSharedSecret(pub, w.Account.ViewPrivateKey), td.OutputIndex)
	x := deriveSecretKey(shared, w.Account.SpendPrivateKey)
	if pointKey(PublicKey(x)) != td.Key {
		return nil, fmt.Errorf("onetime key mismatch for %s", td.Key)
	}
	return x, nil
}
