//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suparena/delta/errors"
)

func getAccountStore(t *testing.T) *DynamodbDataStore[Account] {
	t.Helper()
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Skipf("DynamoDB not configured: %v", err)
	}

	store, err := FromConfig[Account](context.Background(), cfg)
	require.NoError(t, err)
	return store
}

func TestDynamoDBStorageLifecycle(t *testing.T) {
	store := getAccountStore(t)
	ctx := context.Background()

	account := Account{ID: "it-oakville", Email: "oakville@example.com", Balance: 100}
	require.NoError(t, store.Put(ctx, account))

	got, err := store.GetOne(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, account, *got)

	err = store.UpdateWithCondition(ctx, account.ID, map[string]any{"Balance": 150}, "attribute_exists(PK)")
	require.NoError(t, err)

	got, err = store.GetOne(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, 150, got.Balance)
	t.Logf("Account: %+v", got)

	require.NoError(t, store.Delete(ctx, account.ID))

	err = store.UpdateWithCondition(ctx, account.ID, map[string]any{"Balance": 1}, "attribute_exists(PK)")
	require.True(t, errors.IsConditionFailed(err))
}
