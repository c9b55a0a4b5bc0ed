package api

import (
	"net/http"
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
	"github.com/labstack/echo/v4"
	"github.com/tendermint/tendermint/libs/common"
)

func (s *Server) health(c echo.Context) error {
	height, err := s.ledger.Height()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"chain_id": s.ledger.ChainID(),
		"height":   height,
	})
}

func (s *Server) wallet(c echo.Context) error {
	var view *multisig.WalletView
	err := s.ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		view, err = multisig.NewStore().QueryWallet(db)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) transactions(c echo.Context) error {
	var views []multisig.TransactionView
	err := s.ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		views, err = multisig.NewStore().QueryTransactions(db)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) transaction(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "transaction id")
	}
	var view *multisig.TransactionView
	err = s.ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		view, err = multisig.NewStore().QueryTransaction(db, id)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// BalanceResponse is the balance of a single account.
type BalanceResponse struct {
	Address vault.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

func (s *Server) balance(c echo.Context) error {
	addr, err := addressParam(c)
	if err != nil {
		return err
	}
	res := BalanceResponse{Address: addr}
	err = s.ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		res.Balance, err = cash.NewController(cash.NewBucket()).Balance(db, addr)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// NonceResponse is the nonce the next signature of an account must use.
type NonceResponse struct {
	Address vault.Address `json:"address"`
	Nonce   int64         `json:"nonce"`
}

func (s *Server) nonce(c echo.Context) error {
	addr, err := addressParam(c)
	if err != nil {
		return err
	}
	res := NonceResponse{Address: addr}
	err = s.ledger.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		res.Nonce, err = sigs.NextNonce(db, addr)
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func addressParam(c echo.Context) (vault.Address, error) {
	addr, err := vault.ParseAddress(c.Param("address"))
	if err != nil {
		return nil, errors.Wrap(err, "address")
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// TxRequest carries a serialized app.Tx. Bytes are base64 encoded in JSON.
type TxRequest struct {
	Tx []byte `json:"tx"`
}

// TxResponse is the result of a processed transaction.
type TxResponse struct {
	Height int64           `json:"height,omitempty"`
	Data   []byte          `json:"data,omitempty"`
	Log    string          `json:"log,omitempty"`
	Tags   []common.KVPair `json:"tags,omitempty"`
}

func (s *Server) deliverTx(c echo.Context) error {
	tx, err := decodeTxRequest(c)
	if err != nil {
		return err
	}
	res, err := s.ledger.Deliver(c.Request().Context(), tx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TxResponse{
		Height: res.Height,
		Data:   res.Data,
		Log:    res.Log,
		Tags:   res.Tags,
	})
}

func (s *Server) checkTx(c echo.Context) error {
	tx, err := decodeTxRequest(c)
	if err != nil {
		return err
	}
	res, err := s.ledger.Check(c.Request().Context(), tx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TxResponse{Data: res.Data, Log: res.Log})
}

func decodeTxRequest(c echo.Context) (vault.Tx, error) {
	var req TxRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode request")
	}
	return app.DecodeTx(req.Tx)
}
