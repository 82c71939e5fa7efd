package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestVehicleLockSerializesAccess(t *testing.T) {
	locks := NewVehicleLockService()
	vehicleID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(vehicleID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestVehicleLockIndependentVehicles(t *testing.T) {
	locks := NewVehicleLockService()
	a, b := uuid.New(), uuid.New()

	unlockA := locks.Lock(a)
	defer unlockA()

	// A lock on one vehicle must not block another.
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock(b)
		unlockB()
		close(done)
	}()
	<-done
}

func TestVehicleLockPairOrderIndependent(t *testing.T) {
	locks := NewVehicleLockService()
	a, b := uuid.New(), uuid.New()

	// Opposite acquisition orders must not deadlock.
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := locks.LockPair(a, b)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := locks.LockPair(b, a)
			unlock()
		}()
	}
	wg.Wait()
}

func TestVehicleLockPairSameVehicle(t *testing.T) {
	locks := NewVehicleLockService()
	a := uuid.New()

	unlock := locks.LockPair(a, a)
	unlock()

	// Lock must be reacquirable after a same-vehicle pair unlock.
	unlock = locks.Lock(a)
	unlock()
}
