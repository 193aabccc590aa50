package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/store/iavl"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

func defaultHome() string {
	return env("ESCROWD_HOME", filepath.Join(os.Getenv("HOME"), ".escrowd"))
}

const homeFlDesc = "Directory holding the application state. You can use ESCROWD_HOME environment variable to set it."

// openApp opens the application stored in the home directory. Returned
// cleanup function must be called to release the database.
func openApp(home string, verbose bool) (*app.Application, func(), error) {
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	db, err := iavl.NewCommitStore(filepath.Join(home, "data"), "state")
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	if verbose {
		logger = log.NewFilter(logger, log.AllowDebug())
	} else {
		logger = log.NewFilter(logger, log.AllowError())
	}

	a, err := app.NewEscrowApplication(db, logger, nil, verbose)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return a, func() { db.Close() }, nil
}

// deliver signs a transaction carrying given message with the key and
// delivers it as a new block.
func deliver(a *app.Application, key *crypto.PrivateKey, msg escrowd.Msg) (app.Result, error) {
	var tx app.Tx
	if err := tx.SetMsg(msg); err != nil {
		return app.Result{}, err
	}
	nonce, err := signerNonce(a, key.PublicKey().Address())
	if err != nil {
		return app.Result{}, err
	}
	sig, err := sigs.SignTx(key, &tx, a.GetChainID(), nonce)
	if err != nil {
		return app.Result{}, fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	raw, err := proto.Marshal(&tx)
	if err != nil {
		return app.Result{}, fmt.Errorf("cannot serialize transaction: %s", err)
	}
	res := a.DeliverTx(raw)
	if !res.IsOK() {
		return res, fmt.Errorf("transaction failed (code %d): %s", res.Code, res.Log)
	}
	return res, nil
}

func signerNonce(a *app.Application, signer escrowd.Address) (int64, error) {
	models, _, err := a.Query("/auth", signer)
	if err != nil {
		return 0, fmt.Errorf("cannot query signer: %s", err)
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := proto.Unmarshal(models[0].Value, &user); err != nil {
		return 0, fmt.Errorf("cannot decode signer: %s", err)
	}
	return user.Sequence, nil
}

func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
