package escrowd

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/escrowd/crypto/bech32"
	"github.com/iov-one/escrowd/errors"
)

// AddressLength is the size of every address in bytes.
const AddressLength = 20

// conditionFormat matches "<extension>/<type>/<data>". The (?s) flag lets the
// binary data section contain newlines.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition describes who can authorize an action, for example the holder of
// an ed25519 key: "sigs/ed25519/<public key>". Only the Address derived from
// a condition is ever stored in an escrow.
type Condition []byte

// NewCondition builds a condition from its sections.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse returns the extension, type and data sections.
func (c Condition) Parse() (ext string, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address returns the digest of this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String keeps the extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	if !conditionFormat.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

// MarshalJSON uses the String form. A nil condition is an empty string.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	cond, err := decodeCondition(s)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// decodeCondition reverses Condition.String. An empty string is a nil
// condition.
func decodeCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	sections := strings.Split(s, "/")
	if len(sections) != 3 {
		return nil, errors.Wrap(errors.ErrInput, "invalid condition format")
	}
	data, err := hex.DecodeString(sections[2])
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "malformed condition data: %s", err)
	}
	return NewCondition(sections[0], sections[1], data), nil
}

// Address identifies a buyer, a seller or any other party. It is a truncated
// sha256 digest of a Condition and always AddressLength bytes long.
type Address []byte

// NewAddress hashes data into an address. Nil data gives a nil address.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

func (a Address) Equals(other Address) bool {
	return bytes.Equal(a, other)
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address: %v", a)
	}
	return nil
}

// String returns upper case hex. Use Bech32 for a checksummed form.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with given human readable part.
func (a Address) Bech32(hrp string) (string, error) {
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// MarshalJSON writes upper case hex instead of the default base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts every format understood by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders maps a ParseAddress prefix to its decoder. Decoders are
// never called with an empty string.
var addressDecoders = map[string]func(string) (Address, error){
	"hex": func(s string) (Address, error) {
		raw, err := hex.DecodeString(s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		return Address(raw), nil
	},
	"cond": func(s string) (Address, error) {
		c, err := decodeCondition(s)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c.Address(), nil
	},
	"bech32": func(s string) (Address, error) {
		_, payload, err := bech32.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "deserialize bech32: %s", err)
		}
		return Address(payload), nil
	},
}

// ParseAddress decodes an address written as one of
//
//   <hex>, hex:<hex>, cond:<ext>/<type>/<hex data>, bech32:<bech32>
//
// The CLI uses it for the --buyer and --seller flags. An empty value, with or
// without a prefix, is a nil address.
func ParseAddress(s string) (Address, error) {
	format := "hex"
	if i := strings.Index(s, ":"); i >= 0 {
		format, s = s[:i], s[i+1:]
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
	if s == "" {
		return nil, nil
	}
	addr, err := decode(s)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
