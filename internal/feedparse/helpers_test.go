package feedparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const pickAColor = `{"items":[{"Q_ID":"1","Q_NAME":"Pick a color","Q_ANS":"Red","childItems":[{"OP_ID":1,"OP_NAME":"Red"},{"OP_ID":2,"OP_NAME":"Blue"}]}]}`

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}
