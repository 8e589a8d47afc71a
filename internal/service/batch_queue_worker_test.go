package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medrep/internal/domain"
	"medrep/internal/service"
	"medrep/mocks"
)

func TestBatchQueueWorker_DispatchesClaimedRuns(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	batchSvc := new(mocks.MockBatchService)

	run := domain.BatchRun{ID: uuid.New(), Status: domain.BatchStatusRunning}
	dispatched := make(chan struct{})

	batchRepo.On("ClaimQueued", mock.Anything, 1).Return([]domain.BatchRun{run}, nil).Once()
	batchRepo.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.BatchRun{}, nil)
	batchSvc.On("RunBatch", mock.Anything, mock.MatchedBy(func(r *domain.BatchRun) bool {
		return r.ID == run.ID
	})).Run(func(mock.Arguments) {
		close(dispatched)
	}).Return(nil).Once()

	worker := service.NewBatchQueueWorker(batchRepo, batchSvc, service.BatchQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("run was never dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	batchSvc.AssertExpectations(t)
}

func TestBatchQueueWorker_StopsOnCancel(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	batchSvc := new(mocks.MockBatchService)
	batchRepo.On("ClaimQueued", mock.Anything, mock.Anything).Return([]domain.BatchRun{}, nil)

	worker := service.NewBatchQueueWorker(batchRepo, batchSvc, service.BatchQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	batchSvc.AssertNotCalled(t, "RunBatch", mock.Anything, mock.Anything)
}

func TestBatchQueueWorker_ClaimErrorDoesNotCrash(t *testing.T) {
	batchRepo := new(mocks.MockBatchRepo)
	batchSvc := new(mocks.MockBatchService)
	batchRepo.On("ClaimQueued", mock.Anything, mock.Anything).Return(nil, errObjectMissing)

	worker := service.NewBatchQueueWorker(batchRepo, batchSvc, service.BatchQueueConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, batchRepo.AssertCalled(t, "ClaimQueued", mock.Anything, 1))
}
