// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// RedisCodeLedger implements [CodeLedger] with SETNX keys that expire with the code.
type RedisCodeLedger struct {
	client *redis.Client
}

// NewCodeLedger creates a new Redis-backed CodeLedger.
func NewCodeLedger(client *redis.Client) *RedisCodeLedger {
	return &RedisCodeLedger{client: client}
}

/*
Redeem records the code and reports whether it had not been recorded before.

Description: The key is a digest of the code so the ledger never stores a
usable credential. A non-positive ttl means the code is about to expire and
there is nothing left to protect, so it is treated as already spent.
*/
func (repository *RedisCodeLedger) Redeem(context context.Context, code string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}

	digest := sha256.Sum256([]byte(code))
	key := constants.RedisPrefixRedeemedCode + hex.EncodeToString(digest[:])

	first, err := repository.client.SetNX(context, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_code_ledger_redeem_failed: %w", err)
	}
	return first, nil
}
