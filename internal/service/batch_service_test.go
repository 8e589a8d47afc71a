package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medrep/internal/analysis"
	"medrep/internal/domain"
	"medrep/internal/port"
	"medrep/internal/service"
	"medrep/mocks"
)

var errObjectMissing = errors.New("object missing")

func newRunner(extractor *mocks.MockTextExtractor, client *mocks.MockAnalysisClient) *analysis.BatchRunner {
	return analysis.NewBatchRunner(extractor, analysis.NewAnalyzer(client), 2)
}

func expectBattery(client *mocks.MockAnalysisClient, text string) {
	for _, q := range analysis.Battery {
		client.On("Complete", mock.Anything, text+"\n\n"+q.Prompt).Return("findings", nil)
	}
}

func uploadedMeta(id uuid.UUID, name string) *domain.FileMeta {
	return &domain.FileMeta{
		ID:           id,
		OriginalName: name,
		Kind:         domain.KindCSV,
		S3Bucket:     "bucket",
		S3Key:        "reports/" + id.String() + "/" + name,
		Status:       domain.FileStatusUploaded,
	}
}

func TestCreateBatch_EmptyRejected(t *testing.T) {
	svc := service.NewBatchService(new(mocks.MockBatchRepo), new(mocks.MockFileMetaRepo), nil, nil, nil)

	_, err := svc.CreateBatch(context.Background(), service.CreateBatchInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestCreateBatch_FileNotReady(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	fileID := uuid.New()
	meta := uploadedMeta(fileID, "a.csv")
	meta.Status = domain.FileStatusPending
	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)

	svc := service.NewBatchService(new(mocks.MockBatchRepo), fileRepo, nil, nil, nil)
	_, err := svc.CreateBatch(context.Background(), service.CreateBatchInput{FileIDs: []uuid.UUID{fileID}})
	assert.ErrorIs(t, err, domain.ErrFileNotReady)
}

func TestCreateBatch_PreservesInputOrder(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	batchRepo := new(mocks.MockBatchRepo)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		fileRepo.On("GetByID", mock.Anything, id).
			Return(uploadedMeta(id, "report-"+string(rune('a'+i))+".csv"), nil)
	}

	var captured []domain.BatchItem
	batchRepo.On("CreateRun", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]domain.BatchItem)
		}).Return(nil)

	svc := service.NewBatchService(batchRepo, fileRepo, nil, nil, nil)
	run, err := svc.CreateBatch(context.Background(), service.CreateBatchInput{FileIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, domain.BatchStatusQueued, run.Status)

	require.Len(t, captured, 3)
	for i, item := range captured {
		assert.Equal(t, i, item.Idx)
		assert.Equal(t, ids[i], item.FileID)
		assert.Equal(t, domain.OutcomePending, item.Status)
	}
}

func TestRunBatch_CompletesAndAggregates(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	batchRepo := new(mocks.MockBatchRepo)
	storage := new(mocks.MockObjectStorage)
	extractor := new(mocks.MockTextExtractor)
	client := new(mocks.MockAnalysisClient)
	sender := new(mocks.MockEmailSender)

	run := &domain.BatchRun{ID: uuid.New(), Status: domain.BatchStatusRunning, NotifyEmail: "doc@example.com"}
	fileA, fileB := uuid.New(), uuid.New()
	items := []domain.BatchItem{
		{ID: uuid.New(), BatchID: run.ID, Idx: 0, FileID: fileA, FileName: "a.csv", Status: domain.OutcomePending},
		{ID: uuid.New(), BatchID: run.ID, Idx: 1, FileID: fileB, FileName: "b.csv", Status: domain.OutcomePending},
	}
	batchRepo.On("ListItems", mock.Anything, run.ID).Return(items, nil)

	metaA, metaB := uploadedMeta(fileA, "a.csv"), uploadedMeta(fileB, "b.csv")
	fileRepo.On("GetByID", mock.Anything, fileA).Return(metaA, nil)
	fileRepo.On("GetByID", mock.Anything, fileB).Return(metaB, nil)
	storage.On("Download", mock.Anything, "bucket", metaA.S3Key).Return([]byte("data a"), nil)
	storage.On("Download", mock.Anything, "bucket", metaB.S3Key).Return([]byte("data b"), nil)

	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "a.csv"
	})).Return("text a", nil)
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "b.csv"
	})).Return("text b", nil)
	expectBattery(client, "text a")
	expectBattery(client, "text b")

	var updatedItems []domain.BatchItem
	batchRepo.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updatedItems = append(updatedItems, *args.Get(1).(*domain.BatchItem))
		}).Return(nil)
	batchRepo.On("UpdateRun", mock.Anything, run).Return(nil)
	sender.On("SendBatchSummary", mock.Anything, "doc@example.com", mock.Anything).Return(nil)

	svc := service.NewBatchService(batchRepo, fileRepo, storage, newRunner(extractor, client), sender)
	require.NoError(t, svc.RunBatch(context.Background(), run))

	assert.Equal(t, domain.BatchStatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)

	agg := analysis.NewGroupAggregate()
	require.NoError(t, json.Unmarshal(run.Aggregate, agg))
	assert.Equal(t, 2, agg.Documents())

	require.Len(t, updatedItems, 2)
	for _, item := range updatedItems {
		assert.Equal(t, domain.OutcomeSuccess, item.Status)
		assert.NotEmpty(t, item.Answers)
	}
	sender.AssertExpectations(t)
}

func TestRunBatch_FailedDocumentIsolated(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	batchRepo := new(mocks.MockBatchRepo)
	storage := new(mocks.MockObjectStorage)
	extractor := new(mocks.MockTextExtractor)
	client := new(mocks.MockAnalysisClient)

	run := &domain.BatchRun{ID: uuid.New(), Status: domain.BatchStatusRunning}
	fileA, fileB := uuid.New(), uuid.New()
	items := []domain.BatchItem{
		{ID: uuid.New(), BatchID: run.ID, Idx: 0, FileID: fileA, FileName: "good.csv", Status: domain.OutcomePending},
		{ID: uuid.New(), BatchID: run.ID, Idx: 1, FileID: fileB, FileName: "bad.pdf", Status: domain.OutcomePending},
	}
	batchRepo.On("ListItems", mock.Anything, run.ID).Return(items, nil)

	metaA, metaB := uploadedMeta(fileA, "good.csv"), uploadedMeta(fileB, "bad.pdf")
	fileRepo.On("GetByID", mock.Anything, fileA).Return(metaA, nil)
	fileRepo.On("GetByID", mock.Anything, fileB).Return(metaB, nil)
	storage.On("Download", mock.Anything, "bucket", metaA.S3Key).Return([]byte("data"), nil)
	storage.On("Download", mock.Anything, "bucket", metaB.S3Key).Return([]byte("scan"), nil)

	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "good.csv"
	})).Return("good text", nil)
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "bad.pdf"
	})).Return("", domain.ErrUnreadableFormat)
	expectBattery(client, "good text")

	updated := map[int]domain.BatchItem{}
	batchRepo.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			item := *args.Get(1).(*domain.BatchItem)
			updated[item.Idx] = item
		}).Return(nil)
	batchRepo.On("UpdateRun", mock.Anything, run).Return(nil)

	svc := service.NewBatchService(batchRepo, fileRepo, storage, newRunner(extractor, client), new(mocks.MockEmailSender))
	require.NoError(t, svc.RunBatch(context.Background(), run))

	// One unreadable document never fails the run.
	assert.Equal(t, domain.BatchStatusCompleted, run.Status)
	assert.Equal(t, domain.OutcomeSuccess, updated[0].Status)
	assert.Equal(t, domain.OutcomeFailed, updated[1].Status)
	assert.Equal(t, domain.FailureUnreadableFormat, updated[1].FailureKind)

	agg := analysis.NewGroupAggregate()
	require.NoError(t, json.Unmarshal(run.Aggregate, agg))
	assert.Equal(t, 1, agg.Documents())
}

func TestRunBatch_DownloadFailureRecorded(t *testing.T) {
	fileRepo := new(mocks.MockFileMetaRepo)
	batchRepo := new(mocks.MockBatchRepo)
	storage := new(mocks.MockObjectStorage)
	extractor := new(mocks.MockTextExtractor)
	client := new(mocks.MockAnalysisClient)

	run := &domain.BatchRun{ID: uuid.New(), Status: domain.BatchStatusRunning}
	fileID := uuid.New()
	items := []domain.BatchItem{
		{ID: uuid.New(), BatchID: run.ID, Idx: 0, FileID: fileID, FileName: "gone.csv", Status: domain.OutcomePending},
	}
	batchRepo.On("ListItems", mock.Anything, run.ID).Return(items, nil)

	meta := uploadedMeta(fileID, "gone.csv")
	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("Download", mock.Anything, "bucket", meta.S3Key).Return(nil, errObjectMissing)

	var updated domain.BatchItem
	batchRepo.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updated = *args.Get(1).(*domain.BatchItem)
		}).Return(nil)
	batchRepo.On("UpdateRun", mock.Anything, run).Return(nil)

	svc := service.NewBatchService(batchRepo, fileRepo, storage, newRunner(extractor, client), new(mocks.MockEmailSender))
	require.NoError(t, svc.RunBatch(context.Background(), run))

	assert.Equal(t, domain.BatchStatusCompleted, run.Status)
	assert.Equal(t, domain.OutcomeFailed, updated.Status)
	assert.Contains(t, updated.FailureReason, "loading document")
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}
