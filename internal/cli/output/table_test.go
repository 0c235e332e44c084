package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Name", "Type")

	assert.Equal(t, []string{"Name", "Type"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("ctx/sys", "sys")
	table.AddRow("ctx/help", "help")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ctx/sys", "sys"}, rows[0])
	assert.Equal(t, []string{"ctx/help", "help"}, rows[1])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("Name", "Type")
	table.AddRow("ctx/sys", "sys")
	table.AddRow("ctx/http", "http_broker")

	var buf bytes.Buffer
	err := PrintTable(&buf, table)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "TYPE")
	assert.Contains(t, output, "ctx/sys")
	assert.Contains(t, output, "http_broker")
}
