package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMouseLookIgnoresFirstSample(t *testing.T) {
	look := mouseLook{firstMouse: true}

	look.move(100, 100, true)
	dx, dy := look.consume()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	look.move(110, 95, true)
	look.move(115, 90, true)
	dx, dy = look.consume()
	assert.Equal(t, float32(15), dx)
	assert.Equal(t, float32(10), dy, "moving the cursor up looks up")

	dx, dy = look.consume()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestMouseLookResetsWhenReleased(t *testing.T) {
	look := mouseLook{firstMouse: true}
	look.move(0, 0, true)
	look.move(10, 0, true)
	look.move(500, 500, false)
	look.move(600, 600, true)

	dx, dy := look.consume()
	assert.Equal(t, float32(10), dx, "the jump while released is not counted")
	assert.Zero(t, dy)
}
