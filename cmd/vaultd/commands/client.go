package commands

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/cmd/vaultd/api"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
)

// nodeClient talks to the HTTP API of a running node.
type nodeClient struct {
	base string
	http *http.Client
}

func newNodeClient(base string) *nodeClient {
	return &nodeClient{
		base: strings.TrimSuffix(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// get decodes the JSON response into dest. When dest is nil the raw
// response is returned.
func (c *nodeClient) get(path string, dest interface{}) ([]byte, error) {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "node: %s", err)
	}
	return c.read(resp, dest)
}

func (c *nodeClient) post(path string, body, dest interface{}) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "node: %s", err)
	}
	return c.read(resp, dest)
}

func (c *nodeClient) read(resp *http.Response, dest interface{}) ([]byte, error) {
	defer resp.Body.Close()
	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read response: %s", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e api.ErrorResponse
		if err := json.Unmarshal(raw, &e); err != nil || e.Error == "" {
			return nil, errors.Wrapf(errors.ErrState, "node response %d", resp.StatusCode)
		}
		return nil, errors.Wrapf(errors.ErrState, "node response %d: %s (code %d)", resp.StatusCode, e.Error, e.Code)
	}
	if dest != nil {
		if err := json.Unmarshal(raw, dest); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "decode response: %s", err)
		}
	}
	return raw, nil
}

// broadcast signs the message with the next nonce of the key and delivers
// it.
func (c *nodeClient) broadcast(key *crypto.PrivateKey, msg vault.Msg) (*api.TxResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	var health struct {
		ChainID string `json:"chain_id"`
	}
	if _, err := c.get("/health", &health); err != nil {
		return nil, err
	}
	var nonce api.NonceResponse
	if _, err := c.get("/nonce/"+key.PublicKey().Address().String(), &nonce); err != nil {
		return nil, err
	}

	tx := app.NewTx(msg)
	if err := tx.Sign(key, health.ChainID, nonce.Nonce); err != nil {
		return nil, err
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, err
	}
	var res api.TxResponse
	if _, err := c.post("/tx", api.TxRequest{Tx: raw}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
