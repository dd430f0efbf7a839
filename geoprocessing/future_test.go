package geoprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func launchJob(t *testing.T, svc *fakeToolService, reg *fakeRegistry) (*Job, *OutputServiceHandle) {
	t.Helper()
	runner := newTestRunner(svc, reg)
	handle := provisionFor(t, reg, "Clusters_Test")
	job, err := runner.Launch(context.Background(), clusterDescriptor(), preparedWire(t, handle), handle)
	require.NoError(t, err)
	return job, handle
}

func TestLaunch_ReturnsImmediately(t *testing.T) {
	svc := newFakeToolService()
	defer svc.Close()
	reg := newFakeRegistry()
	svc.statusSeq = []string{"Pending"}

	job, handle := launchJob(t, svc, reg)

	assert.Equal(t, "j-1", job.Ticket.JobID)
	assert.Same(t, handle, job.Handle)
	assert.Len(t, svc.submitted(), 1)

	// nothing is polled until the caller asks
	assert.Zero(t, svc.pollCount())
}

func TestJob_NeverAwaitedDoesNothing(t *testing.T) {
	svc := newFakeToolService()
	defer svc.Close()
	reg := newFakeRegistry()
	svc.statusSeq = []string{"Pending"}

	_, handle := launchJob(t, svc, reg)

	assert.Zero(t, svc.pollCount())
	assert.Zero(t, reg.deleteCount())
	assert.Empty(t, reg.updates)
	assert.False(t, handle.Deleted())
}

func TestJob_StatusCachesTerminal(t *testing.T) {
	svc := newFakeToolService()
	defer svc.Close()
	reg := newFakeRegistry()
	svc.statusSeq = []string{"Pending", "Completed"}

	job, handle := launchJob(t, svc, reg)
	svc.results["output"] = map[string]interface{}{
		"value": map[string]interface{}{"url": handle.URL},
	}

	status, err := job.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
	assert.Equal(t, 1, svc.pollCount())

	status, err = job.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
	assert.Equal(t, 2, svc.pollCount())

	// terminal status is cached, not re-polled
	status, err = job.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
	assert.Equal(t, 2, svc.pollCount())
}

func TestJob_ResultReusesCachedTerminalPayload(t *testing.T) {
	svc := newFakeToolService()
	defer svc.Close()
	reg := newFakeRegistry()
	svc.statusSeq = []string{"Completed"}

	job, handle := launchJob(t, svc, reg)
	svc.results["output"] = map[string]interface{}{
		"value": map[string]interface{}{"url": handle.URL, "itemId": handle.ItemID},
	}

	status, err := job.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)

	bundle, err := job.Result(context.Background())
	require.NoError(t, err)
	assert.Same(t, handle, bundle.Value("output"))

	// Result worked off the payload Status already fetched
	assert.Equal(t, 1, svc.pollCount())
	require.Len(t, reg.updates[handle.ItemID], 1)
}

func TestJob_ResultIsMemoized(t *testing.T) {
	svc := newFakeToolService()
	defer svc.Close()
	reg := newFakeRegistry()
	svc.statusSeq = []string{"Completed"}

	job, handle := launchJob(t, svc, reg)
	svc.results["output"] = map[string]interface{}{
		"value": map[string]interface{}{"url": handle.URL},
	}

	first, err := job.Result(context.Background())
	require.NoError(t, err)
	polls := svc.pollCount()

	second, err := job.Result(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, polls, svc.pollCount())
	require.Len(t, reg.updates[handle.ItemID], 1)
}

func TestJob_ResultFailureRollsBackOnce(t *testing.T) {
	svc := newFakeToolService()
	defer svc.Close()
	reg := newFakeRegistry()
	svc.statusSeq = []string{"Failed"}
	svc.messages = []interface{}{
		map[string]interface{}{"type": "error", "description": "out of memory"},
	}

	job, handle := launchJob(t, svc, reg)

	_, err := job.Result(context.Background())
	require.Error(t, err)
	assert.True(t, IsRemoteFailure(err))
	assert.Equal(t, 1, reg.deleteCount())
	assert.True(t, handle.Deleted())

	// the memoized error comes back without another delete
	_, err2 := job.Result(context.Background())
	assert.Equal(t, err, err2)
	assert.Equal(t, 1, reg.deleteCount())
}
