package orders

import (
	"crypto/rand"

	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
)

// oidAlphabet omits ambiguous characters (I, L, O, U) so the identifier
// survives being read over the phone or typed from a packing slip.
const (
	oidAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	oidLength   = 12
)

// NewOID generates the external order identifier.
func NewOID() (string, error) {
	buf := make([]byte, oidLength)
	if _, err := rand.Read(buf); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order id")
	}
	for i, b := range buf {
		buf[i] = oidAlphabet[int(b)%len(oidAlphabet)]
	}
	return string(buf), nil
}
