package ports

import (
	"errors"

	"github.com/dracory/mole/internal/store"
	"github.com/dracory/mole/shared/constants"
)

// ErrorMessage maps store errors to the messages shown to API clients.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return constants.MessageConnectionNotFound
	case errors.Is(err, store.ErrSampleReadOnly):
		return "The sample connection cannot be modified"
	default:
		return err.Error()
	}
}
