package gconf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// ReadStore is a subset of escrowd.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is a subset of escrowd.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is a protobuf message holding the settings of one extension.
type Configuration interface {
	proto.Message
	Validate() error
}

// Key is "_c:" followed by the package name.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and stores it as the configuration of pkg.
func Save(db Store, pkg string, src Configuration) error {
	key := Key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := proto.Marshal(src)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "marshal: key %q: %s", key, err)
	}
	return db.Set(key, raw)
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned if the configuration was never saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	key := Key(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := proto.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal: key %q: %s", key, err)
	}
	return nil
}

// InitConfig loads the genesis section conf.<pkg> into conf and saves it.
func InitConfig(db Store, opts escrowd.Options, pkg string, conf Configuration) error {
	var confOptions escrowd.Options
	if err := opts.ReadOptions("conf", &confOptions); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if confOptions[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := confOptions.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	if err := Save(db, pkg, conf); err != nil {
		return errors.Wrapf(err, "save configuration for %s", pkg)
	}
	return nil
}
