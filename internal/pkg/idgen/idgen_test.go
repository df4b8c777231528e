package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/trenchturn/internal/pkg/idgen"
)

func TestSequential(t *testing.T) {
	gen := idgen.NewSequential("sess")
	assert.Equal(t, "sess_1", gen.Generate())
	assert.Equal(t, "sess_2", gen.Generate())

	bare := idgen.NewSequential("")
	assert.Equal(t, "1", bare.Generate())
}

func TestUUID(t *testing.T) {
	gen := idgen.NewUUID("battle")
	first := gen.Generate()
	second := gen.Generate()

	assert.True(t, strings.HasPrefix(first, "battle_"))
	assert.NotEqual(t, first, second)
	assert.Len(t, strings.TrimPrefix(first, "battle_"), 36)
}
