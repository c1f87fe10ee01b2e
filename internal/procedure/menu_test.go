package procedure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Menu(t *testing.T) {
	reg := NewRegistry(nil)
	noop := func(context.Context, *Call) error { return nil }

	require.NoError(t, reg.Register(&Procedure{
		Name: "detect", MenuLabel: "Detect Faces", MenuPath: "<Image>/Image/Craig's Utilities/", Run: noop,
	}))
	require.NoError(t, reg.Register(&Procedure{
		Name: "blur", MenuLabel: "Blur Faces", MenuPath: "<Image>/Image/Craig's Utilities/", Run: noop,
	}))
	require.NoError(t, reg.Register(&Procedure{
		Name: "about", MenuPath: "<Toolbox>/Help/", Run: noop,
	}))
	require.NoError(t, reg.Register(&Procedure{Name: "hidden", Run: noop}))

	roots := reg.Menu()
	require.Len(t, roots, 2)

	image := roots[0]
	assert.Equal(t, "<Image>", image.Label)
	require.Len(t, image.Children, 1)
	assert.Equal(t, "Image", image.Children[0].Label)

	utilities := image.Children[0].Children[0]
	assert.Equal(t, "Craig's Utilities", utilities.Label)
	require.Len(t, utilities.Children, 2)
	assert.Equal(t, "Blur Faces", utilities.Children[0].Label)
	assert.Equal(t, "detect", utilities.Children[1].Procedure)
	assert.True(t, utilities.Children[1].IsLeaf())

	toolbox := roots[1]
	assert.Equal(t, "<Toolbox>", toolbox.Label)
	help := toolbox.Children[0]
	assert.Equal(t, "about", help.Children[0].Label)
}
