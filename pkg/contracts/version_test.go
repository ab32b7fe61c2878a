package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Architecture)
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString("processor")

	assert.Contains(t, s, "svcpulse processor v"+Version)
	assert.Contains(t, s, "commit: "+GitCommit)
	assert.Contains(t, s, "data format: v1")
}
