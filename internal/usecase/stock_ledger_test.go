package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	repo "kainpos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepleteFIFOTakesOldestFirst(t *testing.T) {
	s := newMemState()
	p := seedProduct(s, "Katun Premium", 50_000)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	b1 := seedBatch(s, p.ID, 30_000, 5, base)
	b2 := seedBatch(s, p.ID, 31_000, 5, base.Add(time.Hour))
	b3 := seedBatch(s, p.ID, 32_000, 5, base.Add(2*time.Hour))

	var usages []BatchUsage
	err := newFakeTxManager(s).WithinTx(context.Background(), func(r repo.TxRepos) error {
		var err error
		usages, err = depleteFIFO(context.Background(), r, p.ID, 7)
		return err
	})
	require.NoError(t, err)

	//一番古いバッチを使い切ってから次へ
	require.Len(t, usages, 2)
	assert.Equal(t, BatchUsage{BatchID: b1.ID, UnitPrice: 30_000, Quantity: 5}, usages[0])
	assert.Equal(t, BatchUsage{BatchID: b2.ID, UnitPrice: 31_000, Quantity: 2}, usages[1])

	assert.Equal(t, int64(0), s.batches[b1.ID].Quantity)
	assert.Equal(t, int64(3), s.batches[b2.ID].Quantity)
	assert.Equal(t, int64(5), s.batches[b3.ID].Quantity)
}

func TestDepleteFIFOSameTimestampOrdersByID(t *testing.T) {
	s := newMemState()
	p := seedProduct(s, "Linen", 40_000)

	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	b1 := seedBatch(s, p.ID, 20_000, 3, at)
	b2 := seedBatch(s, p.ID, 21_000, 3, at)

	var usages []BatchUsage
	err := newFakeTxManager(s).WithinTx(context.Background(), func(r repo.TxRepos) error {
		var err error
		usages, err = depleteFIFO(context.Background(), r, p.ID, 4)
		return err
	})
	require.NoError(t, err)

	require.Len(t, usages, 2)
	assert.Equal(t, b1.ID, usages[0].BatchID)
	assert.Equal(t, b2.ID, usages[1].BatchID)
}

func TestDepleteFIFOInsufficientStockLeavesNoTrace(t *testing.T) {
	s := newMemState()
	p := seedProduct(s, "Katun", 50_000)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	b1 := seedBatch(s, p.ID, 30_000, 5, base)
	b2 := seedBatch(s, p.ID, 31_000, 5, base.Add(time.Hour))

	err := newFakeTxManager(s).WithinTx(context.Background(), func(r repo.TxRepos) error {
		_, err := depleteFIFO(context.Background(), r, p.ID, 11)
		return err
	})

	ae, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindInsufficientStock, ae.Kind)

	//rollbackで部分消化も消えている
	assert.Equal(t, int64(5), s.batches[b1.ID].Quantity)
	assert.Equal(t, int64(5), s.batches[b2.ID].Quantity)
}

func TestDepleteFIFORejectsNonPositiveQuantity(t *testing.T) {
	s := newMemState()
	p := seedProduct(s, "Katun", 50_000)

	err := newFakeTxManager(s).WithinTx(context.Background(), func(r repo.TxRepos) error {
		_, err := depleteFIFO(context.Background(), r, p.ID, 0)
		return err
	})

	ae, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidInput, ae.Kind)
}

func TestNewBatchCode(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	code := newBatchCode("Katun Premium", at)
	assert.True(t, strings.HasPrefix(code, "KATUN-PREMIUM-202608-"), code)

	//末尾トークンで一意
	other := newBatchCode("Katun Premium", at)
	assert.NotEqual(t, code, other)

	//名前が記号だけでも空スラグにならない
	code = newBatchCode("###", at)
	assert.True(t, strings.HasPrefix(code, "BATCH-202608-"), code)
}
