package services

import (
	"sync"

	"fleetdesk/internal/logger"

	"github.com/google/uuid"
)

// VehicleLockService serializes mutating operations per vehicle. Holding the
// lock across the whole read-validate-write transaction makes "one mutator
// per vehicle at a time" an explicit contract; operations on different
// vehicles proceed in parallel.
type VehicleLockService struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*vehicleLock
	log   logger.Logger
}

type vehicleLock struct {
	mu   sync.Mutex
	refs int
}

func NewVehicleLockService() *VehicleLockService {
	return &VehicleLockService{
		locks: make(map[uuid.UUID]*vehicleLock),
		log:   logger.New("VehicleLockService"),
	}
}

// Lock acquires the mutex for one vehicle, blocking while another operation
// on the same vehicle is in flight. The returned function releases it.
func (s *VehicleLockService) Lock(vehicleID uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[vehicleID]
	if !ok {
		lock = &vehicleLock{}
		s.locks[vehicleID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, vehicleID)
		}
		s.mu.Unlock()
	}
}

// LockPair acquires two vehicle locks in a stable order so an assignment
// moving between vehicles cannot deadlock against the reverse move.
func (s *VehicleLockService) LockPair(a, b uuid.UUID) func() {
	if a == b {
		return s.Lock(a)
	}

	first, second := a, b
	if second.String() < first.String() {
		first, second = second, first
	}

	unlockFirst := s.Lock(first)
	unlockSecond := s.Lock(second)

	return func() {
		unlockSecond()
		unlockFirst()
	}
}
