package lock

import (
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestSerializedSessionWritesProperty checks that concurrent
// read-modify-write cycles on one chat's session counter behave as if
// executed sequentially when run under the chat's lock.
func TestSerializedSessionWritesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Int64Range(0, 100000).Draw(t, "initial")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")

		deltas := make([]int64, numOps)
		expected := initial
		for i := range deltas {
			deltas[i] = rapid.Int64Range(-500, 500).Draw(t, "delta")
			expected += deltas[i]
		}

		cl := NewChatLock()
		value := initial

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, d := range deltas {
			go func(delta int64) {
				defer wg.Done()
				_ = cl.WithLock(chatID, func() error {
					value += delta
					return nil
				})
			}(d)
		}
		wg.Wait()

		if value != expected {
			t.Fatalf("lost update: expected %d, got %d", expected, value)
		}
	})
}

// TestIndependentChatsProperty checks that locks of different chats do
// not interfere with each other's serialization.
func TestIndependentChatsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numChats := rapid.IntRange(2, 10).Draw(t, "numChats")
		opsPerChat := rapid.IntRange(5, 20).Draw(t, "opsPerChat")

		cl := NewChatLock()
		values := make([]int64, numChats)

		var wg sync.WaitGroup
		wg.Add(numChats * opsPerChat)
		for chat := 0; chat < numChats; chat++ {
			for op := 0; op < opsPerChat; op++ {
				go func(idx int) {
					defer wg.Done()
					cl.Lock(int64(idx + 1))
					defer cl.Unlock(int64(idx + 1))
					values[idx] += 10
				}(chat)
			}
		}
		wg.Wait()

		for chat := 0; chat < numChats; chat++ {
			if want := int64(opsPerChat) * 10; values[chat] != want {
				t.Fatalf("chat %d: expected %d, got %d", chat+1, want, values[chat])
			}
		}
	})
}

// TestTryLockExclusionProperty checks that simultaneous TryLock calls
// admit at least one caller and leave the lock free afterwards.
func TestTryLockExclusionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		cl := NewChatLock()

		var successes atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)
		start := make(chan struct{})

		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-start
				if cl.TryLock(chatID) {
					successes.Add(1)
					cl.Unlock(chatID)
				}
			}()
		}

		close(start)
		wg.Wait()

		if successes.Load() < 1 {
			t.Fatalf("at least one TryLock should succeed, got %d", successes.Load())
		}

		if !cl.TryLock(chatID) {
			t.Fatal("lock should be free after all attempts finished")
		}
		cl.Unlock(chatID)
	})
}

// TestLockUnlockSymmetryProperty checks that repeated lock/unlock
// cycles leave the lock available.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chatID := rapid.Int64Range(1, 1000000).Draw(t, "chatID")
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		cl := NewChatLock()
		for i := 0; i < numCycles; i++ {
			cl.Lock(chatID)
			cl.Unlock(chatID)
		}

		if !cl.TryLock(chatID) {
			t.Fatal("lock should be available after symmetric cycles")
		}
		cl.Unlock(chatID)
	})
}
