// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package apifootball

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func rawFixtureFrom(t *testing.T, s string) rawFixture {
	t.Helper()
	var r rawFixture
	require.NoError(t, json.Unmarshal([]byte(s), &r))
	return r
}
