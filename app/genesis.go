package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Genesis file format
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState escrowd.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}

	if err := json.Unmarshal(bytes, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...escrowd.Initializer) escrowd.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []escrowd.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts escrowd.Options, kv escrowd.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
