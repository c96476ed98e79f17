package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/go-workqueue/pkg/datastructs/queue"
)

var (
	_ Source = (*queue.UnboundedQueue[int])(nil)
	_ Source = (*queue.BlockingQueue[int])(nil)
	_ Source = (*queue.DroppingQueue[int])(nil)
)

func TestCollector_Collect(t *testing.T) {
	jobs := queue.NewUnbounded[int](queue.Config{Name: "jobs"})
	jobs.Append(1, 2, 3)
	jobs.PopOne()

	events := queue.NewDropping[string](2, queue.Config{Name: "events"})
	events.Append("a", "b")
	events.Push("c")

	c := NewCollector(jobs)
	c.Add(events)

	assert.Equal(t, 14, testutil.CollectAndCount(c))

	expected := `
# HELP workqueue_dropped_total Items discarded by the dropping policy
# TYPE workqueue_dropped_total counter
workqueue_dropped_total{queue="events"} 2
workqueue_dropped_total{queue="jobs"} 0
# HELP workqueue_length Number of items waiting in the queue
# TYPE workqueue_length gauge
workqueue_length{queue="events"} 1
workqueue_length{queue="jobs"} 2
# HELP workqueue_max_size Bound of the queue, 0 when unbounded
# TYPE workqueue_max_size gauge
workqueue_max_size{queue="events"} 2
workqueue_max_size{queue="jobs"} 0
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"workqueue_dropped_total", "workqueue_length", "workqueue_max_size")
	assert.NoError(t, err)
}

func TestHandler(t *testing.T) {
	q := queue.NewBlocking[int](4, queue.Config{Name: "bounded"})
	q.Push(1)

	srv := httptest.NewServer(Handler(NewCollector(q)))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `workqueue_pushed_total{queue="bounded"} 1`)
	assert.Contains(t, string(body), `workqueue_producer_waits_total{queue="bounded"} 0`)
}
