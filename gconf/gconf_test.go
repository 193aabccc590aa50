package gconf

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	owner := escrowd.NewAddress([]byte("owner"))

	cases := map[string]struct {
		Conf        *testConfig
		WantSaveErr *errors.Error
	}{
		"all values": {
			Conf: &testConfig{Number: 852151421, Text: "foobar", Owner: owner},
		},
		"only owner": {
			Conf: &testConfig{Owner: owner},
		},
		"invalid address cannot be saved": {
			Conf:        &testConfig{Owner: escrowd.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "test", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got testConfig
			if err := Load(db, "test", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, tc.Conf.Number, got.Number)
			assert.Equal(t, tc.Conf.Text, got.Text)
			assert.Equal(t, true, tc.Conf.Owner.Equals(got.Owner))
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var conf testConfig
	err := Load(db, "test", &conf)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInitConfig(t *testing.T) {
	owner := escrowd.NewAddress([]byte("owner"))
	rawOwner, err := json.Marshal(owner)
	assert.Nil(t, err)

	genesis := `{"conf": {"test": {"number": 7, "text": "hi", "owner": ` + string(rawOwner) + `}}}`
	var opts escrowd.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var conf testConfig
	assert.Nil(t, InitConfig(db, opts, "test", &conf))

	var got testConfig
	assert.Nil(t, Load(db, "test", &got))
	assert.Equal(t, int64(7), got.Number)
	assert.Equal(t, "hi", got.Text)

	err = InitConfig(db, opts, "unknown", &conf)
	assert.IsErr(t, errors.ErrNotFound, err)
}

type testConfig struct {
	Number int64           `protobuf:"varint,1,opt,name=number,proto3" json:"number,omitempty"`
	Text   string          `protobuf:"bytes,2,opt,name=text,proto3" json:"text,omitempty"`
	Owner  escrowd.Address `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner,omitempty"`
}

func (c *testConfig) Reset()         { *c = testConfig{} }
func (c *testConfig) String() string { return proto.CompactTextString(c) }
func (*testConfig) ProtoMessage()    {}

func (c *testConfig) Validate() error {
	return c.Owner.Validate()
}
