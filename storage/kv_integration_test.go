//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/c360studio/nidmcheck/storage"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/stretchr/testify/require"
)

func TestKVStore(t *testing.T) {
	tc := natsclient.NewTestClient(t, natsclient.WithJetStream())

	js, err := tc.Client.JetStream()
	require.NoError(t, err)

	s, err := storage.NewKVStore(context.Background(), js, "NIDMCHECK_RUNS_TEST")
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}
