// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeNow(t *testing.T) {
	initial := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := Fake(initial)

	if got := fake.Now(); !got.Equal(initial) {
		t.Fatalf("Now() = %v, want %v", got, initial)
	}

	fake.Advance(90 * time.Second)
	if got := fake.Now(); !got.Equal(initial.Add(90 * time.Second)) {
		t.Fatalf("Now() after Advance = %v, want %v", got, initial.Add(90*time.Second))
	}
}

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	channel := fake.After(time.Minute)

	select {
	case fired := <-channel:
		t.Fatalf("waiter fired before Advance: %v", fired)
	default:
	}

	fake.Advance(30 * time.Second)
	select {
	case fired := <-channel:
		t.Fatalf("waiter fired before its deadline: %v", fired)
	default:
	}

	fake.Advance(30 * time.Second)
	select {
	case fired := <-channel:
		if !fired.Equal(fake.Now()) {
			t.Fatalf("fire time = %v, want %v", fired, fake.Now())
		}
	default:
		t.Fatal("waiter did not fire at its deadline")
	}
}

func TestFakeAfterNonPositiveFiresImmediately(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeAfterFiresOnlyOnce(t *testing.T) {
	fake := Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	channel := fake.After(time.Second)

	fake.Advance(time.Second)
	<-channel
	fake.Advance(time.Second)

	select {
	case fired := <-channel:
		t.Fatalf("waiter fired twice, second fire at %v", fired)
	default:
	}
}
