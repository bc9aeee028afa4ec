package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSQLiteConflictError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", errors.New("sqlite: step: SQLITE_BUSY"), true},
		{"locked", errors.New("database is locked (5)"), true},
		{"wrapped", fmt.Errorf("save history: %w", errors.New("database table is locked")), true},
		{"other", errors.New("no such table: users"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSQLiteConflictError(tt.err))
		})
	}
}
