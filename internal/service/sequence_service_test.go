package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"hospital-queue/internal/domain/entity"
	"hospital-queue/internal/repository"
	"hospital-queue/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sequenceFixture struct {
	db  *gorm.DB
	svc *SequenceService
	mr  *miniredis.Miniredis
}

func newSequenceFixture(t *testing.T, withRedis bool) *sequenceFixture {
	t.Helper()
	log, _ := testutil.NewLogger()
	f := &sequenceFixture{db: testutil.NewDB(t)}

	var client *redis.Client
	if withRedis {
		f.mr = miniredis.RunT(t)
		client = redis.NewClient(&redis.Options{Addr: f.mr.Addr()})
		t.Cleanup(func() { client.Close() })
	}

	f.svc = NewSequenceService(client, log, repository.NewAppointmentRepository())
	t.Cleanup(f.svc.Stop)
	return f
}

func (f *sequenceFixture) addDoctor(t *testing.T, name string) uint {
	t.Helper()
	doctor := &entity.Doctor{Name: name, Specialization: "General"}
	require.NoError(t, f.db.Create(doctor).Error)
	return doctor.ID
}

func (f *sequenceFixture) register(t *testing.T, doctorID uint) (int, error) {
	t.Helper()
	return f.svc.WithNextNumber(context.Background(), f.db, doctorID, func(tx *gorm.DB, number int) error {
		patient := &entity.Patient{Name: "p", Age: 1}
		if err := tx.Create(patient).Error; err != nil {
			return err
		}
		return tx.Create(&entity.Appointment{PatientID: patient.ID, DoctorID: doctorID, AppointmentNumber: number}).Error
	})
}

func TestWithNextNumber_DatabaseOnly(t *testing.T) {
	f := newSequenceFixture(t, false)
	lee := f.addDoctor(t, "Dr. Lee")
	park := f.addDoctor(t, "Dr. Park")

	for _, tc := range []struct {
		doctorID uint
		want     int
	}{
		{lee, 1}, {park, 1}, {lee, 2}, {lee, 3}, {park, 2},
	} {
		got, err := f.register(t, tc.doctorID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestWithNextNumber_FailureRollsBack(t *testing.T) {
	f := newSequenceFixture(t, false)
	doctorID := f.addDoctor(t, "Dr. Lee")

	boom := errors.New("boom")
	_, err := f.svc.WithNextNumber(context.Background(), f.db, doctorID, func(tx *gorm.DB, number int) error {
		require.NoError(t, tx.Create(&entity.Patient{Name: "ghost"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var patients int64
	require.NoError(t, f.db.Model(&entity.Patient{}).Count(&patients).Error)
	assert.Zero(t, patients)

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestWithNextNumber_ConcurrentSameDoctor(t *testing.T) {
	for _, withRedis := range []bool{false, true} {
		f := newSequenceFixture(t, withRedis)
		doctorID := f.addDoctor(t, "Dr. Lee")

		const n = 20
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			numbers []int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := f.register(t, doctorID)
				assert.NoError(t, err)
				mu.Lock()
				numbers = append(numbers, got)
				mu.Unlock()
			}()
		}
		wg.Wait()

		sort.Ints(numbers)
		want := make([]int, n)
		for i := range want {
			want[i] = i + 1
		}
		assert.Equal(t, want, numbers, "redis=%v", withRedis)
	}
}

func TestWithNextNumber_RedisCounter(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	f.mr.CheckGet(t, sequenceKey(doctorID), "1")

	got, err = f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	f.mr.CheckGet(t, sequenceKey(doctorID), "2")
}

func TestWithNextNumber_RedisCounterBehindStoreIsRaised(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")

	for i := 0; i < 3; i++ {
		_, err := f.register(t, doctorID)
		require.NoError(t, err)
	}
	f.mr.FlushAll()

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestWithNextNumber_RedisReleaseOnFailure(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")

	_, err := f.svc.WithNextNumber(context.Background(), f.db, doctorID, func(tx *gorm.DB, number int) error {
		assert.Equal(t, 1, number)
		return errors.New("insert failed")
	})
	require.Error(t, err)
	f.mr.CheckGet(t, sequenceKey(doctorID), "0")

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestResetWith(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")
	_, err := f.register(t, doctorID)
	require.NoError(t, err)
	require.NoError(t, f.mr.Set("unrelated", "x"))

	err = f.svc.ResetWith(context.Background(), func() error {
		if err := f.db.Exec("DELETE FROM appointments").Error; err != nil {
			return err
		}
		return f.db.Exec("DELETE FROM patients").Error
	})
	require.NoError(t, err)

	assert.False(t, f.mr.Exists(sequenceKey(doctorID)))
	assert.True(t, f.mr.Exists("unrelated"))

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestResetWith_FnFailureReseedsFromStore(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")
	_, err := f.register(t, doctorID)
	require.NoError(t, err)

	err = f.svc.ResetWith(context.Background(), func() error { return errors.New("nope") })
	require.Error(t, err)

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestResetWith_RedisUnavailableLeavesStore(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")
	for i := 0; i < 3; i++ {
		_, err := f.register(t, doctorID)
		require.NoError(t, err)
	}

	f.mr.SetError("LOADING")
	called := false
	err := f.svc.ResetWith(context.Background(), func() error {
		called = true
		return f.db.Exec("DELETE FROM appointments").Error
	})
	f.mr.SetError("")

	require.Error(t, err)
	assert.False(t, called)
	var count int64
	require.NoError(t, f.db.Model(&entity.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestResetWith_RedisFailureAfterCommitStillRestarts(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")
	for i := 0; i < 3; i++ {
		_, err := f.register(t, doctorID)
		require.NoError(t, err)
	}

	err := f.svc.ResetWith(context.Background(), func() error {
		if err := f.db.Exec("DELETE FROM appointments").Error; err != nil {
			return err
		}
		f.mr.SetError("LOADING")
		return nil
	})
	f.mr.SetError("")
	require.NoError(t, err)

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestSyncOnStartup(t *testing.T) {
	f := newSequenceFixture(t, true)
	lee := f.addDoctor(t, "Dr. Lee")
	park := f.addDoctor(t, "Dr. Park")
	for _, id := range []uint{lee, lee, park} {
		_, err := f.register(t, id)
		require.NoError(t, err)
	}
	f.mr.FlushAll()

	require.NoError(t, f.svc.SyncOnStartup(context.Background(), f.db))

	f.mr.CheckGet(t, sequenceKey(lee), "2")
	f.mr.CheckGet(t, sequenceKey(park), "1")
}

func TestSyncOnStartup_DropsStaleCounters(t *testing.T) {
	f := newSequenceFixture(t, true)
	doctorID := f.addDoctor(t, "Dr. Lee")
	require.NoError(t, f.mr.Set(sequenceKey(doctorID), "5"))
	require.NoError(t, f.mr.Set(sequenceKey(99), "12"))

	require.NoError(t, f.svc.SyncOnStartup(context.Background(), f.db))

	assert.False(t, f.mr.Exists(sequenceKey(doctorID)))
	assert.False(t, f.mr.Exists(sequenceKey(99)))

	got, err := f.register(t, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestSyncOnStartup_NoRedis(t *testing.T) {
	f := newSequenceFixture(t, false)
	assert.NoError(t, f.svc.SyncOnStartup(context.Background(), f.db))
}

func TestCleanupStaleMutexes(t *testing.T) {
	f := newSequenceFixture(t, false)
	f.svc.getDoctorMutex(1)
	busy := f.svc.getDoctorMutex(2)
	busy.mu.Lock()
	defer busy.mu.Unlock()

	cleaned := f.svc.cleanupStaleMutexes(time.Now().Add(time.Hour))

	assert.Equal(t, 1, cleaned)
	_, ok := f.svc.doctorMu.Load(uint(2))
	assert.True(t, ok)
}
