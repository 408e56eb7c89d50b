package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/stock"
)

func TestCompute_SinMovimientosEsCero(t *testing.T) {
	assert.Equal(t, int64(0), stock.Compute(nil, nil, nil))
}

func TestCompute_Formula(t *testing.T) {
	got := stock.Compute([]int64{100}, []int64{30}, []int64{-5})
	assert.Equal(t, int64(65), got)
}

func TestCompute_IndependienteDelOrden(t *testing.T) {
	entries := []int64{10, 25, 5}
	exits := []int64{7, 3}
	adjustments := []int64{2, -1}

	a := stock.Compute(entries, exits, adjustments)
	b := stock.Compute(
		[]int64{5, 10, 25},
		[]int64{3, 7},
		[]int64{-1, 2},
	)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(31), a)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		current   int64
		requested int64
		want      stock.Sufficiency
	}{
		{
			name: "suficiente", current: 65, requested: 60,
			want: stock.Sufficiency{ArticleID: 1, Requested: 60, CurrentStock: 65, Remaining: 5, Sufficient: true},
		},
		{
			name: "exacto", current: 10, requested: 10,
			want: stock.Sufficiency{ArticleID: 1, Requested: 10, CurrentStock: 10, Remaining: 0, Sufficient: true},
		},
		{
			name: "insuficiente con restante negativo", current: 65, requested: 70,
			want: stock.Sufficiency{ArticleID: 1, Requested: 70, CurrentStock: 65, Remaining: -5, Sufficient: false},
		},
		{
			name: "stock cero", current: 0, requested: 1,
			want: stock.Sufficiency{ArticleID: 1, Requested: 1, CurrentStock: 0, Remaining: -1, Sufficient: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stock.Check(1, tt.current, tt.requested))
		})
	}
}

func TestDemand_AgrupaPorArticulo(t *testing.T) {
	d := stock.NewDemand()
	d.Add(7, 5)
	d.Add(3, 2)
	d.Add(7, 4)

	assert.Equal(t, []int64{7, 3}, d.ArticleIDs())
	assert.Equal(t, int64(9), d.Total(7))
	assert.Equal(t, int64(2), d.Total(3))
	assert.Equal(t, int64(0), d.Total(99))
}
