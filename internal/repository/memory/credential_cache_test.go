package memory

import (
	"testing"
	"time"

	"ea-licensing-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCredentialCache(t *testing.T) {
	c := NewCredentialCache(50 * time.Millisecond)
	p := &entity.Principal{UserId: uuid.New(), Username: "trader"}

	_, ok := c.Get("hash")
	assert.False(t, ok)

	c.Save("hash", p)
	got, ok := c.Get("hash")
	assert.True(t, ok)
	assert.Equal(t, p, got)

	c.Delete("hash")
	_, ok = c.Get("hash")
	assert.False(t, ok)

	c.Save("a", p)
	c.Save("b", p)
	c.Flush()
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Save("ttl", p)
	assert.Eventually(t, func() bool {
		_, ok := c.Get("ttl")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
