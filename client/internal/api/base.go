package api

import (
	"errors"
	"fmt"

	clienterrors "github.com/vitaltrack/vitaltrack/client/internal/errors"
	"github.com/vitaltrack/vitaltrack/client/internal/types"
)

// authFailure drops the stored token when the backend rejects it, so the
// next run starts from a clean login.
func authFailure(tokens types.TokenStore, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, clienterrors.ErrUnauthorized) && tokens != nil {
		if clearErr := tokens.Clear(); clearErr != nil {
			return fmt.Errorf("%s: %w (clearing token: %v)", op, err, clearErr)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
