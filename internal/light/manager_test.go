package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlab/ledsignal/internal/color"
)

func TestManager_AddAndListInCreationOrder(t *testing.T) {
	m := NewManager(10)
	for _, id := range []string{"c", "a", "b"} {
		_, err := m.AddScene(id)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"c", "a", "b"}, m.ListScenes())
	assert.Equal(t, "c", m.ActiveSceneID(), "first scene added becomes active")
}

func TestManager_AddScene_Duplicate(t *testing.T) {
	m := NewManager(10)
	_, err := m.AddScene("one")
	require.NoError(t, err)
	_, err = m.AddScene("one")
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestManager_RemoveScene(t *testing.T) {
	m := NewManager(10)
	_, _ = m.AddScene("one")
	_, _ = m.AddScene("two")

	assert.ErrorIs(t, m.RemoveScene("missing"), ErrNotFound)
	assert.ErrorIs(t, m.RemoveScene("one"), ErrActiveScene, "active scene cannot be removed")

	require.NoError(t, m.SwitchScene("two"))
	require.NoError(t, m.RemoveScene("one"))
	assert.Equal(t, []string{"two"}, m.ListScenes())
}

func TestManager_SwitchScene(t *testing.T) {
	m := NewManager(10)
	_, _ = m.AddScene("one")
	_, _ = m.AddScene("two")

	assert.ErrorIs(t, m.SwitchScene("missing"), ErrNotFound)
	require.NoError(t, m.SwitchScene("two"))
	assert.Equal(t, "two", m.ActiveSceneID())
}

func TestManager_RenderBlankWithoutScenes(t *testing.T) {
	m := NewManager(4)
	buf := []color.RGB{{R: 9}, {G: 9}, {B: 9}, {R: 9}}
	m.Render(buf)
	for i, c := range buf {
		assert.Equal(t, color.Black, c, "led %d", i)
	}
}

func TestManager_RenderActiveScene(t *testing.T) {
	m := NewManager(4)
	sc, _ := m.AddScene("one")
	e := NewEffect("fx", 4)
	require.NoError(t, e.AddSegment(solidSegment("s", 0, 4, color.RGB{G: 77})))
	require.NoError(t, sc.AddEffect(e))

	buf := make([]color.RGB, 4)
	m.Render(buf)
	for _, c := range buf {
		assert.Equal(t, color.RGB{G: 77}, c)
	}
}

func TestManager_ReplaceAll(t *testing.T) {
	m := NewManager(4)
	_, _ = m.AddScene("old")

	m.ReplaceAll([]*Scene{NewScene("x"), NewScene("y")})
	assert.Equal(t, []string{"x", "y"}, m.ListScenes())
	assert.Equal(t, "x", m.ActiveSceneID())

	m.ReplaceAll(nil)
	assert.Empty(t, m.ListScenes())
	assert.Equal(t, "", m.ActiveSceneID())
}

func TestManager_ReplaceScene(t *testing.T) {
	m := NewManager(4)
	_, _ = m.AddScene("one")

	fresh := NewScene("whatever")
	require.NoError(t, m.ReplaceScene("one", fresh))
	got, ok := m.Scene("one")
	require.True(t, ok)
	assert.Equal(t, "one", got.ID, "replacement adopts the slot id")

	assert.ErrorIs(t, m.ReplaceScene("missing", NewScene("z")), ErrNotFound)
}
