package identitysvc

import (
	"context"
	"strings"

	"github.com/darasahq/backend/core"
)

// DummyVerifier treats the bearer token itself as the attested email.
// Tests only.
type DummyVerifier struct{}

var _ core.IdentityVerifier = (*DummyVerifier)(nil)

func NewDummyVerifier() *DummyVerifier { return &DummyVerifier{} }

func (v *DummyVerifier) Verify(_ context.Context, bearerToken string) (string, error) {
	if !strings.Contains(bearerToken, "@") {
		return "", ErrUnverified
	}
	return core.CleanString(bearerToken, true /* lower */), nil
}
