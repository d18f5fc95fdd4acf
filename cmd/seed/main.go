// seed genera el script SQL que puebla categorías y productos a partir de un CSV del catálogo.
//
// Formato (separador ';', con o sin cabecera, UTF-8 o ISO-8859-1):
//
//	codigo;nome;categoria;preco_compra;preco_venda;estoque
//
// Uso: go run ./cmd/seed [catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv y escribe internal/infrastructure/postgres/migrations/002_seed_catalog.up.sql
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ampliart/ampliart-api/internal/domain/entity"
	"github.com/ampliart/ampliart-api/internal/domain/money"
)

type catalogRow struct {
	Code          string
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Stock         int
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.up.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ler CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseCatalog(decodeCatalog(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Processar CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Criar arquivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	categories := writeSeedSQL(w, rows)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escrever SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Gerado %s: %d categorias, %d produtos\n", outPath, categories, len(rows))
}

// decodeCatalog devuelve un lector UTF-8: si el contenido no es UTF-8 válido se asume ISO-8859-1.
func decodeCatalog(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\uFEFF"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseCatalog lee las filas; la cabecera (primera celda "codigo") se salta.
// Filas sin código o nombre se ignoran. Precios aceptan coma decimal.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []catalogRow
	seen := make(map[string]int)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("linha %d: esperadas 6 colunas, recebidas %d", line, len(rec))
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", line, err)
		}
		if row.Code == "" || row.Name == "" {
			continue
		}
		// Código repetido: vale la última fila.
		if i, ok := seen[row.Code]; ok {
			rows[i] = row
			continue
		}
		seen[row.Code] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	row := catalogRow{
		Code:     strings.TrimSpace(rec[0]),
		Name:     strings.TrimSpace(rec[1]),
		Category: strings.TrimSpace(rec[2]),
	}
	if row.Category == "" {
		row.Category = entity.DefaultCategoryName
	}
	var err error
	if row.PurchasePrice, err = parsePrice(rec[3]); err != nil {
		return row, fmt.Errorf("preco_compra: %w", err)
	}
	if row.SalePrice, err = parsePrice(rec[4]); err != nil {
		return row, fmt.Errorf("preco_venda: %w", err)
	}
	stock := strings.TrimSpace(rec[5])
	if stock != "" {
		if row.Stock, err = strconv.Atoi(stock); err != nil || row.Stock < 0 {
			return row, fmt.Errorf("estoque inválido %q", stock)
		}
	}
	return row, nil
}

// parsePrice acepta "12,50", "12.50", "R$ 1.234,56" o vacío (0).
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %q", s)
	}
	return money.Round(d), nil
}

// writeSeedSQL escribe categorías (siempre incluye "Sem categoria") y productos.
// Devuelve la cantidad de categorías.
func writeSeedSQL(w io.Writer, rows []catalogRow) int {
	names := map[string]string{strings.ToLower(entity.DefaultCategoryName): entity.DefaultCategoryName}
	for _, r := range rows {
		key := strings.ToLower(r.Category)
		if _, ok := names[key]; !ok {
			names[key] = r.Category
		}
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "-- Catálogo inicial Ampliart")
	fmt.Fprintln(w, "-- Gerado por cmd/seed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- 1. Categorias")
	fmt.Fprintln(w, "INSERT INTO categories (name) VALUES")
	for i, k := range keys {
		sep := ","
		if i == len(keys)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "  ('%s')%s\n", escapeSQL(names[k]), sep)
	}
	fmt.Fprintln(w, "ON CONFLICT DO NOTHING;")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "-- 2. Produtos")
	for _, r := range rows {
		fmt.Fprintln(w, "INSERT INTO products (code, name, category_id, purchase_price, sale_price, stock_quantity)")
		fmt.Fprintf(w, "SELECT '%s', '%s', id, %s, %s, %d FROM categories WHERE lower(name) = lower('%s')\n",
			escapeSQL(r.Code), escapeSQL(r.Name), r.PurchasePrice.StringFixed(2), r.SalePrice.StringFixed(2), r.Stock, escapeSQL(r.Category))
		fmt.Fprintln(w, "ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id,")
		fmt.Fprintln(w, "  purchase_price = EXCLUDED.purchase_price, sale_price = EXCLUDED.sale_price;")
	}
	return len(keys)
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
