package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestReadArticulos_Latin1(t *testing.T) {
	raw := "codigo;nombre;medida;grupo;clave;unidad;min;max\n" +
		"tor-001;Tornillo cabeza hexagonal;1/4;FER;M;PZA;10;100\n" +
		"TOR-001;Duplicado;;;;;;\n" +
		";Sin código;;;;;;\n" +
		"CAN-002;Caño de 2\";2;PLO;M;TRAMO;x;5\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	items, skipped, err := readArticulos(transform.NewReader(strings.NewReader(encoded), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, "TOR-001", items[0].code)
	assert.Equal(t, int64(10), items[0].stockMin)
	assert.Equal(t, "Caño de 2\"", items[1].name)
	assert.Equal(t, int64(0), items[1].stockMin)
}

func TestWriteMigration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMigration(&buf, []articulo{{code: "A-1", name: "O'Brien", unit: "PZA", stockMax: 3}}))
	sql := buf.String()
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	assert.Contains(t, sql, "'O''Brien'")
	assert.Contains(t, sql, "ON CONFLICT (code) DO NOTHING;")
}

func TestRun_CSVInexistente(t *testing.T) {
	err := run("no-existe/articulos.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abrir CSV")
}
