// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/api-router/pkg/types"
)

func TestAPIFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	apiFlag(fs, "api", "")

	assert.Equal(t, types.APIName(""), getAPI(fs, "api"))

	require.NoError(t, fs.Parse([]string{"--api", "stock-data"}))
	assert.Equal(t, types.APIStockData, getAPI(fs, "api"))

	require.NoError(t, fs.Set("api", "Weather"))
	assert.Equal(t, types.APIWeather, getAPI(fs, "api"))
	assert.Equal(t, "api", fs.Lookup("api").Value.Type())

	assert.Error(t, fs.Set("api", "translate"))
	assert.Equal(t, types.APIName(""), getAPI(fs, "missing"))
}
