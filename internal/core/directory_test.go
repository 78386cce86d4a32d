package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectory(t *testing.T) {
	d := Directory()
	assert.Len(t, d, 8)
	assert.Equal(t, "Cardiologist", d[0].Name)
	assert.Equal(t, "Endocrinologist", d[7].Name)

	d[0].Name = "changed"
	assert.Equal(t, "Cardiologist", Directory()[0].Name)
}

func TestPopular(t *testing.T) {
	assert.Len(t, Popular(3), 3)
	assert.Len(t, Popular(100), 8)
	assert.Len(t, Popular(-1), 8)
	assert.Empty(t, Popular(0))
}
