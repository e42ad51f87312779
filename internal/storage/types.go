package storage

import (
	"encoding"

	"github.com/vmihailenco/msgpack/v5"
)

type Storeable interface {
	Key() []byte
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// DBDevice is the registry record of one browser.
type DBDevice struct {
	ID        string `msgpack:"id"`
	CreatedAt int64  `msgpack:"createdAt"`
	LastSeen  int64  `msgpack:"lastSeen"`
}

func (d *DBDevice) Key() []byte {
	return []byte(d.ID)
}

func (d *DBDevice) MarshalBinary() (data []byte, err error) {
	type alias DBDevice
	return msgpack.Marshal((*alias)(d))
}

func (d *DBDevice) UnmarshalBinary(data []byte) error {
	type alias DBDevice
	return msgpack.Unmarshal(data, (*alias)(d))
}
