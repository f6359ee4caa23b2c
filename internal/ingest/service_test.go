package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/ingest"
	"github.com/jonesrussell/fundwatch/internal/logger"
	"github.com/jonesrussell/fundwatch/internal/parser"
	ingestmocks "github.com/jonesrussell/fundwatch/testutils/mocks/ingest"
)

const articleURL = "https://www.returnonsecurity.com/p/security-funded-2025-08-01"

func sampleItems() []parser.Item {
	return []parser.Item{
		{
			Description: "Acme raised a $12M Series B Round from Example Ventures.",
			CompanyName: "Acme",
			CompanyURL:  "https://acme.io/",
			Amount:      12_000_000,
			Round:       "Series B",
			Investors:   []parser.Investor{{Name: "Example Ventures", URL: "https://examplevc.com/"}},
			StoryLink:   "https://www.techcrunch.com/story",
			Source:      "TECHCRUNCH",
			Date:        "2025-08-01",
			CompanyType: domain.CompanyTypeProduct,
			Reference:   articleURL,
		},
	}
}

func TestService_Run_ProcessesNewArticle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(false, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), articleURL).Return(sampleItems(), nil)
	store.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, records []domain.FundingRecord) (int, error) {
			require.Len(t, records, 1)
			assert.Equal(t, "Acme", records[0].CompanyName)
			assert.Equal(t, articleURL, records[0].Reference)
			assert.NotEmpty(t, records[0].ID)
			assert.False(t, records[0].CreatedAt.IsZero())
			return len(records), nil
		})

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Processed: 1}, summary)
}

func TestService_Run_SkipsIngestedArticle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(true, nil)

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Skipped: 1}, summary)
}

func TestService_Run_CountsFetchFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	other := "https://www.returnonsecurity.com/p/security-funded-2025-07-25"

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL, other})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(false, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), articleURL).Return(nil, errors.New("connection reset"))
	store.EXPECT().ExistsByReference(gomock.Any(), other).Return(false, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), other).Return(sampleItems(), nil)
	store.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(1, nil)

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Processed: 1, Errors: 1}, summary)
}

func TestService_Run_EmptyParseCountsAsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(false, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), articleURL).Return([]parser.Item{}, nil)

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunSummary{Errors: 1}, summary)
}

func TestService_Run_InsertFailureAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	other := "https://www.returnonsecurity.com/p/security-funded-2025-07-25"

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL, other})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(false, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), articleURL).Return(sampleItems(), nil)
	store.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(0, errors.New("bulk rejected"))

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	summary, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bulk rejected")
	assert.Equal(t, domain.RunSummary{}, summary)
}

func TestService_Run_ExistenceCheckFailureAbortsRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(false, errors.New("cluster red"))

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster red")
}

func TestService_Run_StorageUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(errors.New("no nodes available"))

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage connection")
}

func TestService_Run_RejectsConcurrentRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).DoAndReturn(func(context.Context) []string {
		close(entered)
		<-release
		return nil
	})

	svc := ingest.NewService(store, discoverer, fetcher, nil, logger.NewNoOp())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background())
		done <- err
	}()

	<-entered
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, ingest.ErrAlreadyRunning)

	close(release)
	require.NoError(t, <-done)
}

func TestService_Run_RecordsRunHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)
	recorder := ingestmocks.NewMockRunRecorder(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(nil)
	discoverer.EXPECT().Discover(gomock.Any()).Return([]string{articleURL})
	store.EXPECT().ExistsByReference(gomock.Any(), articleURL).Return(true, nil)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, run domain.IngestionRun) error {
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, domain.RunStatusSuccess, run.Status)
			assert.Equal(t, 1, run.Skipped)
			require.NotNil(t, run.FinishedAt)
			return nil
		})

	svc := ingest.NewService(store, discoverer, fetcher, recorder, logger.NewNoOp())

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
}

func TestService_Run_RecordsFailedRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := ingestmocks.NewMockStorage(ctrl)
	discoverer := ingestmocks.NewMockLinkDiscoverer(ctrl)
	fetcher := ingestmocks.NewMockArticleFetcher(ctrl)
	recorder := ingestmocks.NewMockRunRecorder(ctrl)

	store.EXPECT().TestConnection(gomock.Any()).Return(errors.New("no nodes available"))
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, run domain.IngestionRun) error {
			assert.Equal(t, domain.RunStatusFailed, run.Status)
			assert.Contains(t, run.Error, "no nodes available")
			return nil
		})

	svc := ingest.NewService(store, discoverer, fetcher, recorder, logger.NewNoOp())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
}
