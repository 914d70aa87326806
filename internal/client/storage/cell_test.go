package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Tags  []string `json:"tags"`
	Email string   `json:"email"`
}

func TestCell_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMedium()

	want := profile{Name: "Ada", Age: 36, Tags: []string{"a", "b"}, Email: "ada@example.com"}

	c := NewCell(ctx, m, "profile", profile{})
	c.Set(ctx, want)
	assert.Equal(t, want, c.Get())

	// A fresh cell on the same medium sees the persisted value.
	c2 := NewCell(ctx, m, "profile", profile{})
	assert.Equal(t, want, c2.Get())
}

func TestCell_UnsetKeyReturnsDefault(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMedium()

	def := profile{Name: "default"}
	c := NewCell(ctx, m, "missing", def)
	assert.Equal(t, def, c.Get())
}

func TestCell_CorruptPayloadReturnsDefault(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMedium()
	require.NoError(t, m.Write(ctx, "profile", "{not json"))

	def := profile{Name: "default"}
	c := NewCell(ctx, m, "profile", def)
	assert.Equal(t, def, c.Get())
}

func TestCell_NilMediumStillUpdatesInMemory(t *testing.T) {
	ctx := context.Background()

	c := NewCell[profile](ctx, nil, "profile", profile{})
	c.Set(ctx, profile{Name: "Ada"})
	assert.Equal(t, "Ada", c.Get().Name)

	require.NoError(t, c.StartWatch(ctx))
}

func TestCell_UpdateAppliesFunctionOfPrevious(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMedium()

	c := NewCell(ctx, m, "counter", 10)
	c.Update(ctx, func(v int) int { return v + 5 })
	assert.Equal(t, 15, c.Get())

	raw, found, err := m.Read(ctx, "counter")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "15", raw)
}

func TestCell_ResyncsOnExternalChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemoryMedium()
	c := NewCell(ctx, m, "profile", profile{})
	require.NoError(t, c.StartWatch(ctx))

	changed := make(chan profile, 1)
	c.OnChange(func(v profile) { changed <- v })

	m.ExternalWrite("profile", `{"name":"External"}`)

	select {
	case v := <-changed:
		assert.Equal(t, "External", v.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("cell did not resync from external change")
	}
	assert.Equal(t, "External", c.Get().Name)
}

func TestCell_IgnoresChangesToOtherKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemoryMedium()
	c := NewCell(ctx, m, "profile", profile{Name: "mine"})
	require.NoError(t, c.StartWatch(ctx))

	changed := make(chan profile, 1)
	c.OnChange(func(v profile) { changed <- v })

	m.ExternalWrite("other", `{"name":"theirs"}`)

	select {
	case <-changed:
		t.Fatal("cell resynced on an unrelated key")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, "mine", c.Get().Name)
}
