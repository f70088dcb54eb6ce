package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"hospital-queue/internal/domain/queue"
	"hospital-queue/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// allocateScript seeds the doctor's counter from the store maximum (ARGV[1])
// when the key is missing or behind, then increments it. Runs atomically in
// Redis, so concurrent callers on different processes never share a number.
var allocateScript = redis.NewScript(`
	local floor = tonumber(ARGV[1])
	local current = tonumber(redis.call('GET', KEYS[1]) or '-1')
	if current < floor then
		redis.call('SET', KEYS[1], floor)
	end
	return redis.call('INCR', KEYS[1])
`)

// releaseScript hands a number back only while it is still the counter head.
var releaseScript = redis.NewScript(`
	local current = redis.call('GET', KEYS[1])
	if current and tonumber(current) == tonumber(ARGV[1]) then
		return redis.call('DECR', KEYS[1])
	end
	return -1
`)

const (
	RedisSequenceKeyPrefix = "appointment:seq:"

	// Batch size for startup sync
	sequenceSyncBatchSize = 500

	// scanCount is the COUNT hint used when deleting sequence keys
	scanCount = 100

	mutexCleanupInterval = 10 * time.Minute
	mutexStaleThreshold  = 10 * time.Minute
)

// SequenceService allocates per-doctor appointment numbers.
//
// Allocation holds a per-doctor mutex from the read of the current maximum
// until the registering transaction finishes, so registrations for the same
// doctor inside one process are serialized. With a Redis client the number
// comes from an atomic counter shared by every process; without one it is
// the store maximum plus one.
//
// Lock ordering: resetMu, then the doctor mutex, then a database connection.
type SequenceService struct {
	redisClient     *redis.Client
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository

	resetMu  sync.RWMutex
	doctorMu sync.Map // map[uint]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSequenceService creates a SequenceService. redisClient may be nil.
// Starts the background mutex cleanup; call Stop during shutdown.
func NewSequenceService(redisClient *redis.Client, log *logrus.Logger, appointmentRepo repository.AppointmentRepository) *SequenceService {
	svc := &SequenceService{
		redisClient:     redisClient,
		log:             log,
		appointmentRepo: appointmentRepo,
		stopChan:        make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupMutexMapLoop()

	return svc
}

// Stop gracefully shuts down the service.
// Safe to call multiple times.
func (s *SequenceService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SequenceService stopped")
	}
}

// WithNextNumber opens a transaction on db, allocates the next appointment
// number for doctorID and passes both to fn. The doctor's queue stays locked
// until the transaction has finished, so the number is never handed out
// twice. When fn fails the transaction rolls back and a Redis-issued number is
// given back if nothing was allocated after it.
func (s *SequenceService) WithNextNumber(ctx context.Context, db *gorm.DB, doctorID uint, fn func(tx *gorm.DB, number int) error) (int, error) {
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	mt := s.getDoctorMutex(doctorID)
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var (
		number      int
		fromCounter bool
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		max, err := s.appointmentRepo.MaxNumberByDoctor(tx, doctorID)
		if err != nil {
			s.log.Warnf("Failed to read max appointment number for doctor %d: %+v", doctorID, err)
			return fmt.Errorf("read max appointment number for doctor %d: %w", doctorID, err)
		}

		number, err = s.next(ctx, doctorID, max)
		if err != nil {
			return err
		}
		fromCounter = s.redisClient != nil

		return fn(tx, number)
	})
	if err != nil {
		if fromCounter {
			relCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if relErr := s.release(relCtx, doctorID, number); relErr != nil {
				s.log.Errorf("Failed to release appointment number %d for doctor %d: %+v", number, doctorID, relErr)
			}
		}
		return 0, err
	}

	return number, nil
}

// next computes the number following max, through the shared Redis counter
// when one is configured.
func (s *SequenceService) next(ctx context.Context, doctorID uint, max int) (int, error) {
	if s.redisClient == nil {
		return queue.NextNumber(max), nil
	}

	number, err := allocateScript.Run(ctx, s.redisClient, []string{sequenceKey(doctorID)}, max).Int()
	if err != nil {
		s.log.Warnf("Failed Lua allocate for doctor %d: %+v", doctorID, err)
		return 0, fmt.Errorf("lua allocate for doctor %d: %w", doctorID, err)
	}

	s.log.Debugf("Allocated appointment number %d for doctor %d", number, doctorID)
	return number, nil
}

// ResetWith runs fn while no allocation is in flight so numbering restarts at
// queue.FirstNumber. Sequence counters are dropped before fn touches the
// store: when Redis is unreachable the reset is refused and the store is left
// as it was. A missing counter is reseeded from the store maximum, so a
// failing fn leaves numbering consistent too.
func (s *SequenceService) ResetWith(ctx context.Context, fn func() error) error {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	if err := s.deleteSequenceKeys(ctx); err != nil {
		s.log.Warnf("Reset refused, sequence counters not cleared: %+v", err)
		return err
	}

	if err := fn(); err != nil {
		return err
	}

	// Counters seeded by other processes since the first delete.
	if err := s.deleteSequenceKeys(ctx); err != nil {
		s.log.Errorf("Failed to clear sequence counters after reset: %+v", err)
	}
	return nil
}

// SyncOnStartup replaces the Redis counters with each doctor's highest stored
// appointment number. Should be called before accepting traffic.
func (s *SequenceService) SyncOnStartup(ctx context.Context, db *gorm.DB) error {
	if s.redisClient == nil {
		return nil
	}

	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	s.log.Info("Starting appointment sequence sync from database...")
	startTime := time.Now()

	// Counters for doctors without appointments would otherwise survive a
	// recreated store.
	if err := s.deleteSequenceKeys(ctx); err != nil {
		s.log.Errorf("Failed to clear stale sequence counters: %+v", err)
		return err
	}

	offset := 0
	totalSynced := 0
	for {
		results, err := s.appointmentRepo.MaxNumbers(db.WithContext(ctx), sequenceSyncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to query appointment maxima at offset %d: %+v", offset, err)
			return fmt.Errorf("query appointment maxima at offset %d: %w", offset, err)
		}

		if len(results) == 0 {
			break
		}

		// New pipeline per batch
		pipe := s.redisClient.TxPipeline()
		for _, result := range results {
			pipe.Set(ctx, sequenceKey(result.DoctorID), result.MaxNumber, 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute pipeline for batch at offset %d: %+v", offset, err)
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(results)
		if len(results) < sequenceSyncBatchSize {
			break
		}
		offset += sequenceSyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Appointment sequence sync completed: %d doctors synced in %v", totalSynced, time.Since(startTime))
	return nil
}

func (s *SequenceService) release(ctx context.Context, doctorID uint, number int) error {
	res, err := releaseScript.Run(ctx, s.redisClient, []string{sequenceKey(doctorID)}, number).Int()
	if err != nil {
		return fmt.Errorf("lua release for doctor %d: %w", doctorID, err)
	}
	if res < 0 {
		s.log.Warnf("Appointment number %d for doctor %d left unused: counter moved on", number, doctorID)
		return nil
	}
	s.log.Debugf("Released appointment number %d for doctor %d", number, doctorID)
	return nil
}

func (s *SequenceService) deleteSequenceKeys(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}

	var keys []string
	iter := s.redisClient.Scan(ctx, 0, RedisSequenceKeyPrefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sequence keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sequence keys: %w", err)
	}
	s.log.Debugf("Deleted %d appointment sequence keys", len(keys))
	return nil
}

func sequenceKey(doctorID uint) string {
	return fmt.Sprintf("%s%d", RedisSequenceKeyPrefix, doctorID)
}

func (s *SequenceService) getDoctorMutex(doctorID uint) *mutexWithTimestamp {
	mt, _ := s.doctorMu.LoadOrStore(doctorID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (s *SequenceService) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes drops mutexes unused since cutoff. lastUsed is checked
// while holding the lock so a concurrent getDoctorMutex is never lost.
func (s *SequenceService) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	s.doctorMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				s.doctorMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
