package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableReprintsHeaderEveryTenRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	for i := 0; i < 11; i++ {
		table.Row(i, 1.0, 0.1, 0.01, 0.001, 0, false)
	}
	headers := strings.Count(buf.String(), "objective")
	assert.Equal(t, 2, headers)
}

func TestTableMarksLineSearchFailure(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.Row(0, 1.0, 0.1, 0.01, 0.001, 0, true)
	assert.True(t, strings.HasSuffix(strings.TrimRight(buf.String(), "\n"), "F"))
}

func TestTableRegularizationColumn(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.Row(0, 1.0, 0.1, 0.01, 0.001, 0, false)
	assert.Contains(t, buf.String(), "-")

	buf.Reset()
	table.Row(1, 1.0, 0.1, 0.01, 0.001, 100, false)
	assert.NotContains(t, buf.String(), " - ")
}

func TestDisabledTableIsSilent(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.Enabled = false
	table.Header()
	table.Row(0, 1, 0, 0, 0, 0, false)
	table.Status("done", 1)
	assert.Empty(t, buf.String())
}
