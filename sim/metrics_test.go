package sim

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Print_WritesSummaryToStdout(t *testing.T) {
	// GIVEN metrics from a finished run
	m := NewMetrics()
	m.Scheduled = 7
	m.Delivered = 7
	m.FinalClock = 1500
	m.PerNodeDelivered[1] = 3
	m.PerNodeDelivered[0] = 4

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// WHEN printed
	m.Print()

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	// THEN the header, totals and per-node lines appear in node order
	assert.Contains(t, output, "=== Simulation Metrics ===")
	assert.Contains(t, output, "Delivered Events     : 7")
	assert.Contains(t, output, "1.500 ms")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("node 0")), bytes.Index(buf.Bytes(), []byte("node 1")))
}
