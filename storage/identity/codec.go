// Package identity implements session.IdentityStore over a JSON file, Redis or memory.
package identity

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/core/user"
)

// Key is the entry holding the signed-in user.
const Key = "user"

// ErrMalformed is returned by Load when the stored identity cannot be decoded.
var ErrMalformed = errors.New("malformed identity")

var (
	_ session.IdentityStore = (*FileStore)(nil)
	_ session.IdentityStore = (*RedisStore)(nil)
	_ session.IdentityStore = (*MemoryStore)(nil)
)

func encode(usr user.User) ([]byte, error) {
	data, err := json.Marshal(usr)
	return data, errors.Wrap(err, "encoding identity")
}

func decode(data []byte) (*user.User, error) {
	var usr user.User
	if err := json.Unmarshal(data, &usr); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if usr.ID == "" || !usr.Role.IsValid() {
		return nil, ErrMalformed
	}
	return &usr, nil
}
