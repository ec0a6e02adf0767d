/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	verifyLevels := func(t *testing.T, expected Level, levels []string) {
		t.Helper()

		for _, level := range levels {
			actual, err := ParseLevel(level)
			require.NoError(t, err)
			require.Equal(t, expected, actual)
		}
	}

	verifyLevels(t, CRITICAL, []string{"critical", "CRITICAL", "CriticAL"})
	verifyLevels(t, ERROR, []string{"error", "ERROR", "ErroR"})
	verifyLevels(t, WARNING, []string{"warning", "WARNING", "WarninG"})
	verifyLevels(t, INFO, []string{"info", "INFO", "iNFo"})
	verifyLevels(t, DEBUG, []string{"debug", "DEBUG", "DebUg"})

	_, err := ParseLevel("invalid")
	require.Error(t, err)
}

func TestParseString(t *testing.T) {
	require.Equal(t, "CRITICAL", ParseString(CRITICAL))
	require.Equal(t, "ERROR", ParseString(ERROR))
	require.Equal(t, "WARNING", ParseString(WARNING))
	require.Equal(t, "INFO", ParseString(INFO))
	require.Equal(t, "DEBUG", ParseString(DEBUG))
}

func TestSetGetLevel(t *testing.T) {
	const module = "sample-module-levels"

	// INFO is the default for an unconfigured module
	require.Equal(t, INFO, GetLevel(module))
	require.True(t, IsEnabledFor(module, WARNING))
	require.False(t, IsEnabledFor(module, DEBUG))

	SetLevel(module, DEBUG)
	require.Equal(t, DEBUG, GetLevel(module))
	require.True(t, IsEnabledFor(module, DEBUG))

	SetLevel(module, ERROR)
	require.False(t, IsEnabledFor(module, WARNING))
	require.True(t, IsEnabledFor(module, CRITICAL))
}

func TestCallerInfo(t *testing.T) {
	const module = "sample-module-caller"

	// caller info is on for every level by default
	require.True(t, IsCallerInfoEnabled(module, DEBUG))
	require.True(t, IsCallerInfoEnabled(module, ERROR))

	HideCallerInfo(module, DEBUG)
	require.False(t, IsCallerInfoEnabled(module, DEBUG))
	require.True(t, IsCallerInfoEnabled(module, ERROR))

	ShowCallerInfo(module, DEBUG)
	require.True(t, IsCallerInfoEnabled(module, DEBUG))
}
