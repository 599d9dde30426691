package ports_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dracory/mole/internal/ports"
	"github.com/dracory/mole/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not found", err: fmt.Errorf("get: %w", store.ErrNotFound), want: "Database connection not found"},
		{name: "sample", err: store.ErrSampleReadOnly, want: "The sample connection cannot be modified"},
		{name: "validation", err: fmt.Errorf("%w: name is required", store.ErrValidation), want: "invalid connection: name is required"},
		{name: "other", err: errors.New("disk full"), want: "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ports.ErrorMessage(tt.err))
		})
	}
}
