package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKeepsLastText(t *testing.T) {
	var w Writer = &Memory{}

	require.NoError(t, w.WriteText("first"))
	require.NoError(t, w.WriteText("second"))
	assert.Equal(t, "second", w.(*Memory).Text)
}

func TestMemoryError(t *testing.T) {
	boom := errors.New("boom")
	m := &Memory{Text: "kept", Err: boom}

	assert.ErrorIs(t, m.WriteText("lost"), boom)
	assert.Equal(t, "kept", m.Text)
}
