package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.txt")
	content := "P1,Widget,9.99,100\n" +
		"not a product line\n" +
		"P2,Gadget,5.00,0\n" +
		"\n" +
		"P3,Gizmo,-1.00,5\n" // negative price, skipped
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path, nil)
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "P1", list[0].ID)
	assert.Equal(t, "P2", list[1].ID)

	p, ok := c.Get("P1")
	require.True(t, ok)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "9.99", p.Price.StringFixed(2))
	assert.Equal(t, 100, p.Stock)

	_, ok = c.Get("P3")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.txt"), nil)
	require.NoError(t, err)
	assert.Empty(t, c.List())
}

func TestParseProduct(t *testing.T) {
	p, err := ParseProduct("P1, Widget , 9.99 , 10")
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 10, p.Stock)

	_, err = ParseProduct("P1,Widget,9.99")
	assert.Error(t, err)
	_, err = ParseProduct("P1,Widget,free,10")
	assert.Error(t, err)
	_, err = ParseProduct("P1,Widget,9.99,many")
	assert.Error(t, err)
}

func TestPutReplaces(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.txt"), nil)
	require.NoError(t, err)

	p, err := ParseProduct("P1,Widget,9.99,10")
	require.NoError(t, err)
	c.Put(p)
	p.Stock = 3
	c.Put(p)

	got, ok := c.Get("P1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Stock)
	assert.Len(t, c.List(), 1)
}
