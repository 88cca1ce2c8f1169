package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectFileGroupLookup(t *testing.T) {
	p := &Project{
		ID: "app",
		FileGroups: map[string]*FileGroup{
			"source": {DeclaredGlobs: anchored("src/**/*.ts")},
		},
	}

	fg, ok := p.FileGroup("source")
	assert.True(t, ok)
	assert.Len(t, fg.DeclaredGlobs, 1)

	_, ok = p.FileGroup("missing")
	assert.False(t, ok)
}
