// seed_articulos genera una migración goose con el catálogo de artículos a partir
// de la exportación CSV del sistema anterior (ISO-8859-1, separador ';').
//
// Columnas: codigo;nombre;medida;grupo;clave_medida;unidad;stock_min;stock_max
//
// Uso: go run ./cmd/seed_articulos [ruta/articulos.csv]
// Por defecto busca articulos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/00003_seed_articulos.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type articulo struct {
	code, name, size, group, measure, unit string
	stockMin, stockMax                     int64
}

func main() {
	csvPath := "articulos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if err := run(csvPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	defer f.Close()

	items, skipped, err := readArticulos(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return fmt.Errorf("leer CSV: %w", err)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "00003_seed_articulos.sql")
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("crear archivo: %w", err)
	}
	defer out.Close()

	if err := writeMigration(out, items); err != nil {
		return fmt.Errorf("escribir SQL: %w", err)
	}
	fmt.Printf("Generado %s: %d artículos (%d filas omitidas)\n", outPath, len(items), skipped)
	return nil
}

// readArticulos lee el CSV ya decodificado a UTF-8. Omite el encabezado, filas
// sin código o nombre y códigos repetidos (gana el primero).
func readArticulos(r io.Reader) ([]articulo, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var (
		out     []articulo
		skipped int
		seen    = make(map[string]bool)
	)
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("línea %d: %w", line+1, err)
		}
		if line == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) < 2 {
			skipped++
			continue
		}
		a := articulo{code: strings.ToUpper(field(rec, 0)), name: field(rec, 1)}
		if a.code == "" || a.name == "" || seen[a.code] {
			skipped++
			continue
		}
		a.size, a.group, a.measure, a.unit = field(rec, 2), field(rec, 3), field(rec, 4), field(rec, 5)
		a.stockMin, a.stockMax = number(field(rec, 6)), number(field(rec, 7))
		seen[a.code] = true
		out = append(out, a)
	}
	return out, skipped, nil
}

func writeMigration(w io.Writer, items []articulo) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de artículos importado del sistema anterior\n")
	b.WriteString("-- Generado por cmd/seed_articulos\n\n")
	b.WriteString("-- +goose Up\n")
	if len(items) > 0 {
		b.WriteString("INSERT INTO articulos (code, name, size, group_code, measure_code, unit_code, stock_min, stock_max) VALUES\n")
		for i, a := range items {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', '%s', %d, %d)",
				escapeSQL(a.code), escapeSQL(a.name), escapeSQL(a.size), escapeSQL(a.group),
				escapeSQL(a.measure), escapeSQL(a.unit), a.stockMin, a.stockMax)
			if i < len(items)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (code) DO NOTHING;\n")
	}
	b.WriteString("\n-- +goose Down\n")
	if len(items) > 0 {
		b.WriteString("DELETE FROM articulos WHERE code IN (\n")
		for i, a := range items {
			fmt.Fprintf(&b, "  '%s'", escapeSQL(a.code))
			if i < len(items)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(");\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// number entero no negativo; vacío o inválido → 0.
func number(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
