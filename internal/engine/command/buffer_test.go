package command

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferKeepsOrder(t *testing.T) {
	b := NewBuffer(4)
	b.Push(Command{Subject: SubjectRenderModel, Kind: Create, ID: 1})
	b.Push(Command{Subject: SubjectRenderModel, Kind: LayerChanged, ID: 1, Layer: 3})
	b.Push(Command{Subject: SubjectRenderModel, Kind: EnabledChanged, ID: 1})
	assert.Equal(t, 3, b.Len())

	got := b.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, Create, got[0].Kind)
	assert.Equal(t, LayerChanged, got[1].Kind)
	assert.Equal(t, uint32(3), got[1].Layer)
	assert.Equal(t, EnabledChanged, got[2].Kind)

	assert.Nil(t, b.Drain())
	assert.Equal(t, 0, b.Len())
}

func TestBufferPerProducerOrder(t *testing.T) {
	b := NewBuffer(0)

	const producers, perProducer = 4, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Push(Command{Subject: SubjectCamera, ID: id, Layer: uint32(i)})
			}
		}(uint64(p))
	}
	wg.Wait()

	next := make(map[uint64]uint32)
	for _, cmd := range b.Drain() {
		require.Equal(t, next[cmd.ID], cmd.Layer, "producer %d out of order", cmd.ID)
		next[cmd.ID]++
	}
	for p := 0; p < producers; p++ {
		assert.Equal(t, uint32(perProducer), next[uint64(p)])
	}
}

func TestCommandString(t *testing.T) {
	cmd := Command{Subject: SubjectLight, Kind: EnabledChanged, ID: 7}
	assert.Equal(t, "light#7 enabled-changed", cmd.String())
}
