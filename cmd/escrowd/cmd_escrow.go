package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/x/escrow"
)

// txFlags registers flags shared by all commands delivering a transaction.
type txFlags struct {
	home    *string
	key     *string
	verbose *bool
}

func newTxFlags(fl *flag.FlagSet) txFlags {
	return txFlags{
		home:    fl.String("home", defaultHome(), homeFlDesc),
		key:     fl.String("key", defaultKeyPath(), keyFlDesc),
		verbose: fl.Bool("verbose", false, "Log debug information."),
	}
}

// deliverMsg signs the message with the key and delivers it to the
// application stored in the home directory.
func (f txFlags) deliverMsg(msg escrowd.Msg, fill func(signer escrowd.Address)) (escrowdResult, error) {
	key, err := readKey(*f.key)
	if err != nil {
		return escrowdResult{}, err
	}
	if fill != nil {
		fill(key.PublicKey().Address())
	}
	a, cleanup, err := openApp(*f.home, *f.verbose)
	if err != nil {
		return escrowdResult{}, err
	}
	defer cleanup()

	res, err := deliver(a, key, msg)
	if err != nil {
		return escrowdResult{}, err
	}
	return escrowdResult{Height: res.Height, Log: res.Log, data: res.Data}, nil
}

// escrowdResult is printed out after a successful transaction.
type escrowdResult struct {
	EscrowID uint64 `json:"escrow_id,omitempty"`
	Height   int64  `json:"height"`
	Log      string `json:"log"`
	data     []byte
}

func cmdCreateEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a new escrow, signed by the buyer. The buyer defaults to the address of
the signing key. The assigned escrow ID is printed out.
`)
		fl.PrintDefaults()
	}
	var (
		txFl     = newTxFlags(fl)
		buyerFl  = flAddress(fl, "buyer", "Address of the buyer. Defaults to the signer address.")
		sellerFl = flAddress(fl, "seller", "Address of the seller.")
		amountFl = fl.Int64("amount", 0, "Amount held by the escrow.")
	)
	fl.Parse(args)

	msg := &escrow.CreateMsg{
		Buyer:  buyerFl.addr,
		Seller: sellerFl.addr,
		Amount: *amountFl,
	}
	res, err := txFl.deliverMsg(msg, func(signer escrowd.Address) {
		if msg.Buyer == nil {
			msg.Buyer = signer
		}
	})
	if err != nil {
		return err
	}
	id, err := orm.DecodeSequence(res.data)
	if err != nil {
		return fmt.Errorf("cannot decode escrow id: %s", err)
	}
	res.EscrowID = id
	return writeJSON(output, res)
}

func cmdReleaseEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Release an active escrow to the seller. Must be signed by the buyer.
`)
		fl.PrintDefaults()
	}
	var (
		txFl     = newTxFlags(fl)
		escrowFl = fl.Uint64("escrow", 0, "ID of the escrow that is to be released.")
	)
	fl.Parse(args)

	res, err := txFl.deliverMsg(&escrow.ReleaseMsg{EscrowID: *escrowFl}, nil)
	if err != nil {
		return err
	}
	res.EscrowID = *escrowFl
	return writeJSON(output, res)
}

func cmdRefundEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Refund an active escrow to the buyer. The caller must be the buyer or the
seller and must sign the transaction. The caller defaults to the address of
the signing key.
`)
		fl.PrintDefaults()
	}
	var (
		txFl     = newTxFlags(fl)
		escrowFl = fl.Uint64("escrow", 0, "ID of the escrow that is to be refunded.")
		callerFl = flAddress(fl, "caller", "Address of the party requesting the refund. Defaults to the signer address.")
	)
	fl.Parse(args)

	msg := &escrow.RefundMsg{
		EscrowID: *escrowFl,
		Caller:   callerFl.addr,
	}
	res, err := txFl.deliverMsg(msg, func(signer escrowd.Address) {
		if msg.Caller == nil {
			msg.Caller = signer
		}
	})
	if err != nil {
		return err
	}
	res.EscrowID = *escrowFl
	return writeJSON(output, res)
}

// escrowView is the printed representation of an escrow.
type escrowView struct {
	*escrow.Escrow
	State string `json:"state"`
}

func cmdViewEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the current state of an escrow.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = fl.String("home", defaultHome(), homeFlDesc)
		escrowFl  = fl.Uint64("escrow", 0, "ID of the escrow.")
		verboseFl = fl.Bool("verbose", false, "Log debug information.")
	)
	fl.Parse(args)

	a, cleanup, err := openApp(*homeFl, *verboseFl)
	if err != nil {
		return err
	}
	defer cleanup()

	models, _, err := a.Query("/escrows", orm.EncodeSequence(*escrowFl))
	if err != nil {
		return fmt.Errorf("cannot query escrow: %s", err)
	}
	if len(models) == 0 {
		return fmt.Errorf("escrow %d not found", *escrowFl)
	}
	var e escrow.Escrow
	if err := proto.Unmarshal(models[0].Value, &e); err != nil {
		return fmt.Errorf("cannot decode escrow: %s", err)
	}
	return writeJSON(output, escrowView{Escrow: &e, State: e.State().String()})
}
