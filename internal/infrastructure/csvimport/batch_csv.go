// Package csvimport lee lotes de producción exportados desde planillas del taller.
//
// Encabezado obligatorio (orden libre, sin distinguir mayúsculas):
//
//	order_ref, product, variant, quantity, worker_id
//
// variant puede faltar o estar vacía. Las planillas viejas suelen venir en ISO-8859-1 o Windows-1252.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/domain"
)

// Options formato del archivo.
type Options struct {
	Charset string // utf-8 (defecto), iso-8859-1/latin1, windows-1252/cp1252
	Comma   rune   // separador; 0 = ','
}

var requiredColumns = []string{"order_ref", "product", "quantity", "worker_id"}

// decoder devuelve un lector UTF-8 para el charset indicado.
func decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		// Quita el BOM que agregan algunas planillas.
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("charset no soportado %q: %w", charset, domain.ErrInvalidInput)
}

// ReadBatches decodifica el archivo completo. Cualquier fila inválida invalida la importación.
func ReadBatches(r io.Reader, opts Options) ([]inventory.RecordBatchInput, error) {
	in, err := decoder(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(in)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("archivo vacío: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q: %w", c, domain.ErrInvalidInput)
		}
	}
	variantCol, hasVariant := idx["variant"]

	var rows []inventory.RecordBatchInput
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		qtyText := strings.TrimSpace(rec[idx["quantity"]])
		qty, err := strconv.ParseInt(qtyText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: cantidad %q: %w", line, qtyText, domain.ErrInvalidInput)
		}
		row := inventory.RecordBatchInput{
			OrderRef: rec[idx["order_ref"]],
			Product:  rec[idx["product"]],
			Quantity: qty,
			WorkerID: rec[idx["worker_id"]],
		}
		if hasVariant {
			v := rec[variantCol]
			row.Variant = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
