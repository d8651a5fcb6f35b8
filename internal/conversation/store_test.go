package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("5554984011516")
	assert.False(t, ok)

	store.Set("5554984011516", Session{Step: StepFinanceMenu, FaturaID: "F-1"})
	sess, ok := store.Get("5554984011516")
	assert.True(t, ok)
	assert.Equal(t, StepFinanceMenu, sess.Step)
	assert.Equal(t, "F-1", sess.FaturaID)
	assert.Equal(t, 1, store.Len())

	store.Clear("5554984011516")
	_, ok = store.Get("5554984011516")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreClearUnknownContact(t *testing.T) {
	store := NewMemoryStore()
	store.Clear("000")
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("55%011d", n)
			store.Set(id, Session{Step: StepSupportMenu})
			store.Get(id)
			if n%2 == 0 {
				store.Clear(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, store.Len())
}
