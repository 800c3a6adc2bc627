package sse

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRegistrySubscribeQueuesConnectEvent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	conn, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case ev := <-conn.Events():
		if ev.Name != connectEventName {
			t.Fatalf("first event = %s, want %s", ev.Name, connectEventName)
		}
	default:
		t.Fatal("connect control event should be queued")
	}

	if got, ok := registry.Lookup("alice"); !ok || got != conn {
		t.Fatal("Lookup() should return the subscribed connection")
	}
}

func TestRegistryDistinctRecipientsAreIndependent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	alice, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe(alice) error = %v", err)
	}
	bob, err := registry.Subscribe("bob")
	if err != nil {
		t.Fatalf("Subscribe(bob) error = %v", err)
	}

	registry.Remove("alice")

	if _, ok := registry.Lookup("alice"); ok {
		t.Fatal("alice should be removed")
	}
	if got, ok := registry.Lookup("bob"); !ok || got != bob {
		t.Fatal("bob should be unaffected by alice's removal")
	}
	if !alice.IsClosed() {
		t.Fatal("removed connection should be closed")
	}
	if bob.IsClosed() {
		t.Fatal("bob's connection should stay open")
	}
}

func TestRegistryResubscribeReplacesAndClosesPrevious(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	first, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	second, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if got, ok := registry.Lookup("alice"); !ok || got != second {
		t.Fatal("Lookup() should return the newest connection")
	}
	if !first.IsClosed() {
		t.Fatal("superseded connection should be closed")
	}
	if second.IsClosed() {
		t.Fatal("newest connection should stay open")
	}
	if registry.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", registry.Count())
	}
}

func TestRegistryStaleTeardownDoesNotEvictReplacement(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	first, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Hold a reference, replace the registration, then fire the stale
	// handle's teardown as a late timeout callback would.
	second, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	first.Close()

	if got, ok := registry.Lookup("alice"); !ok || got != second {
		t.Fatal("stale teardown must not evict the replacement")
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	if _, err := registry.Subscribe("alice"); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	registry.Remove("alice")
	registry.Remove("alice")
	registry.Remove("never-subscribed")

	if registry.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", registry.Count())
	}
}

func TestRegistryConnectionCloseDeregistersItself(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	conn, err := registry.Subscribe("alice")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	conn.Close()

	if _, ok := registry.Lookup("alice"); ok {
		t.Fatal("closed connection should be deregistered")
	}
}

func TestRegistryConcurrentSubscribeAndRemove(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		recipient := fmt.Sprintf("user-%d", i%4)
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := registry.Subscribe(recipient); err != nil {
				t.Errorf("Subscribe(%s) error = %v", recipient, err)
			}
		}()
		go func() {
			defer wg.Done()
			registry.Remove(recipient)
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, the registry must be internally
	// consistent: every remaining entry maps to an open connection.
	for i := 0; i < 4; i++ {
		recipient := fmt.Sprintf("user-%d", i)
		if conn, ok := registry.Lookup(recipient); ok && conn.IsClosed() {
			t.Fatalf("registry holds a closed connection for %s", recipient)
		}
	}
}
