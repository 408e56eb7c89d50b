package solicitud

import (
	"context"
	"fmt"
)

// PDFUseCase comprobante imprimible de una solicitud.
type PDFUseCase struct {
	query     *QueryUseCase
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(query *QueryUseCase, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{query: query, generator: generator}
}

// Render devuelve el PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) Render(ctx context.Context, id int64) ([]byte, string, error) {
	s, err := uc.query.Entity(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.generator.Generate(s)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf de %s: %w", s.Folio, err)
	}
	return b, s.Folio + ".pdf", nil
}
