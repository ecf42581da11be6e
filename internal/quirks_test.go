package internal

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestQuirksPresets(t *testing.T) {
	reference := DefaultQuirks()
	modern := ModernQuirks()

	assert.Equal(t, "shift-vy=true jump-vx=false index-wrap=true", reference.String())
	assert.Equal(t, "shift-vy=false jump-vx=true index-wrap=false", modern.String())
	assert.Equal(t, reference, DefaultConfig().Quirks)
	assert.Equal(t, DefaultStackDepth, DefaultConfig().StackDepth)
}
