package xerrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	base := New(ParseError, "go.obo:12", fmt.Errorf("unexpected token"))
	wrapped := fmt.Errorf("loading ontology: %w", base)

	assert.True(t, Is(wrapped, ParseError))
	assert.False(t, Is(wrapped, ConfigError))
}

func TestErrorMessage(t *testing.T) {
	err := New(InputMissing, "obo_path", nil)
	assert.Equal(t, "InputMissing: obo_path", err.Error())
}
