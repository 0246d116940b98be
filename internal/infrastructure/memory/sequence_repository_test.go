package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/infrastructure/memory"
)

// Propiedad: bajo N llamadores concurrentes, los ordinales de un (tipo, año)
// son enteros estrictamente crecientes sin huecos ni duplicados.
func TestSequenceRepository_ConcurrenciaSinDuplicadosNiHuecos(t *testing.T) {
	const (
		workers    = 50
		perWorker  = 4
		totalCalls = workers * perWorker
	)

	repo := memory.NewSequenceRepository(memory.NewStore())
	ctx := context.Background()

	var mu sync.Mutex
	seen := make(map[int64]bool, totalCalls)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n, err := repo.Next(ctx, "SAL", 2026)
				assert.NoError(t, err)
				mu.Lock()
				assert.False(t, seen[n], "ordinal duplicado: %d", n)
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, totalCalls)
	// Sin huecos: debe estar exactamente 1..totalCalls
	for i := int64(1); i <= totalCalls; i++ {
		assert.True(t, seen[i], "falta el ordinal %d", i)
	}
}

func TestSequenceRepository_ContadoresIndependientesPorTipoYAnio(t *testing.T) {
	repo := memory.NewSequenceRepository(memory.NewStore())
	ctx := context.Background()

	n1, err := repo.Next(ctx, "SAL", 2026)
	require.NoError(t, err)
	n2, err := repo.Next(ctx, "ING", 2026)
	require.NoError(t, err)
	n3, err := repo.Next(ctx, "SAL", 2027)
	require.NoError(t, err)
	n4, err := repo.Next(ctx, "SAL", 2026)
	require.NoError(t, err)

	assert.Equal(t, int64(1), n1)
	assert.Equal(t, int64(1), n2)
	assert.Equal(t, int64(1), n3)
	assert.Equal(t, int64(2), n4)
}

func TestFormatCode_CeroRelleno(t *testing.T) {
	assert.Equal(t, "SOL-2026-0001", entity.FormatCode("SOL", 2026, 1))
	assert.Equal(t, "SAL-2026-0042", entity.FormatCode("SAL", 2026, 42))
	assert.Equal(t, "ING-2026-12345", entity.FormatCode("ING", 2026, 12345))
}
