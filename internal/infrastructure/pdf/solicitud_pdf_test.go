package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"999.9", "999,90"},
		{"25000.5", "25.000,50"},
		{"1000000", "1.000.000,00"},
		{"-1234.567", "-1.234,57"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestItemsTotal(t *testing.T) {
	p := decimal.RequireFromString("12.50")
	total, ok := itemsTotal([]entity.SolicitudItem{
		{Cantidad: 2, PrecioUnitario: &p},
		{Cantidad: 5},
	})
	require.True(t, ok)
	assert.True(t, total.Equal(decimal.RequireFromString("25")))

	_, ok = itemsTotal([]entity.SolicitudItem{{Cantidad: 1}})
	assert.False(t, ok)
}

func TestGenerate_ProducesPDF(t *testing.T) {
	p := decimal.RequireFromString("3.10")
	s := &entity.Solicitud{
		Folio:             "SALIDA-2025-123456",
		Tipo:              entity.TipoSalida,
		Fecha:             time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Estado:            entity.EstadoAutorizada,
		SolicitanteNombre: "Ana",
		Observaciones:     "Obra norte\n--- AUTORIZACIÓN ---\nok",
		Items: []entity.SolicitudItem{
			{ArticleID: 1, ArticleCode: "TOR-001", ArticleName: "Tornillo", Cantidad: 10, PrecioUnitario: &p},
		},
	}
	out, err := NewSolicitudPDFGenerator("Almacén Central").Generate(s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_Nil(t *testing.T) {
	_, err := NewSolicitudPDFGenerator("").Generate(nil)
	assert.Error(t, err)
}
