package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDeployment(t *testing.T) {
	deploymentsTotal.Reset()
	deploymentDuration.Reset()

	RecordDeployment(true, 2*time.Second)
	RecordDeployment(false, time.Second)
	RecordDeployment(true, time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(deploymentsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(deploymentsTotal.WithLabelValues("error")))
	assert.Equal(t, 2, testutil.CollectAndCount(deploymentDuration))
}

func TestRecordProgressReport(t *testing.T) {
	before := testutil.ToFloat64(progressReportsTotal)

	RecordProgressReport()

	assert.Equal(t, before+1, testutil.ToFloat64(progressReportsTotal))
}

func TestRecordTransactionStepAndRollback(t *testing.T) {
	transactionStepsTotal.Reset()
	rollbacksTotal.Reset()

	RecordTransactionStep("CreateKubernetes", true)
	RecordTransactionStep("DeleteKubernetes", false)
	RecordRollback(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(transactionStepsTotal.WithLabelValues("CreateKubernetes", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(transactionStepsTotal.WithLabelValues("DeleteKubernetes", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rollbacksTotal.WithLabelValues("error")))
}

func TestRecordHCloudAPICall(t *testing.T) {
	hcloudAPICallsTotal.Reset()
	hcloudAPILatency.Reset()

	RecordHCloudAPICall("network.create", true, 300*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(hcloudAPICallsTotal.WithLabelValues("network.create", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(hcloudAPILatency))
}

func TestRecordArchiveUpload(t *testing.T) {
	archiveUploadsTotal.Reset()

	RecordArchiveUpload(true)

	assert.Equal(t, float64(1), testutil.ToFloat64(archiveUploadsTotal.WithLabelValues("success")))
}

func TestHandler(t *testing.T) {
	RecordArchiveUpload(true)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "engine_object_storage_archive_uploads_total")
}
