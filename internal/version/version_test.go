package version

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "filtertags dev")
}

func TestInfo_JSON(t *testing.T) {
	raw, err := GetInfo().JSON()
	require.NoError(t, err)

	var decoded Info
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, GetInfo(), decoded)
}

func TestShortCommit(t *testing.T) {
	assert.Equal(t, "abcdef1", shortCommit("abcdef1234567"))
	assert.Equal(t, "abc", shortCommit("abc"))
}
