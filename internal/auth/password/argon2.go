package password

import (
	"errors"

	"github.com/alexedwards/argon2id"
)

type Hasher struct {
	params *argon2id.Params
}

func NewDefault() *Hasher {
	return &Hasher{params: argon2id.DefaultParams}
}

func New(p *argon2id.Params) *Hasher { return &Hasher{params: p} }

// Hash returns the encoded $argon2id$v=19$m=... string stored in the DB.
func (h *Hasher) Hash(plain string) (string, error) {
	if h == nil || h.params == nil {
		return "", errors.New("argon2id params not set")
	}
	return argon2id.CreateHash(plain, h.params)
}

func (h *Hasher) Verify(plain, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plain, encodedHash)
}
