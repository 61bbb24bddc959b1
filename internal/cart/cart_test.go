package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenova/shopcore/internal/models"
)

func product(id, name, price string, stock int) models.Product {
	return models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Stock: stock}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	c := New()
	p := product("P1", "Widget", "9.99", 100)
	c.AddItem(p, 2)
	c.AddItem(p, 3)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 5, c.Quantity("P1"))
}

func TestAddItemPutsNewProductsFirst(t *testing.T) {
	c := New()
	c.AddItem(product("P1", "Widget", "1.00", 10), 1)
	c.AddItem(product("P2", "Gadget", "2.00", 10), 1)
	c.AddItem(product("P3", "Gizmo", "3.00", 10), 1)
	// merging must not change position
	c.AddItem(product("P2", "Gadget", "2.00", 10), 1)

	var ids []string
	for p := range c.All() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P3", "P2", "P1"}, ids)
}

func TestAllIsRestartable(t *testing.T) {
	c := New()
	c.AddItem(product("P1", "Widget", "1.00", 10), 1)
	c.AddItem(product("P2", "Gadget", "2.00", 10), 1)

	seq := c.All()
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(product("P1", "Widget", "9.99", 100), 4)
	c.RemoveItem("P1")

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())

	// removing an absent product is a no-op
	c.RemoveItem("P1")
	assert.True(t, c.IsEmpty())
}

func TestTotal(t *testing.T) {
	c := New()
	c.AddItem(product("P1", "Widget", "9.99", 100), 2)
	c.AddItem(product("P2", "Gadget", "0.10", 100), 3)

	assert.Equal(t, "20.28", c.Total().StringFixed(2))
}

func TestSnapshotPreservesOrder(t *testing.T) {
	c := New()
	c.AddItem(product("P1", "Widget", "9.99", 100), 2)
	c.AddItem(product("P2", "Gadget", "1.50", 100), 1)

	items := c.Snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, "P2", items[0].ProductID)
	assert.Equal(t, "P1", items[1].ProductID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, "9.99", items[1].Price.StringFixed(2))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Do("alice", func(c *Cart) {
		c.AddItem(product("P1", "Widget", "9.99", 100), 1)
	})
	r.Do("bob", func(c *Cart) {
		assert.True(t, c.IsEmpty())
	})
	r.Do("alice", func(c *Cart) {
		assert.Equal(t, 1, c.Len())
	})

	r.Reset("alice")
	r.Do("alice", func(c *Cart) {
		assert.True(t, c.IsEmpty())
	})
}
