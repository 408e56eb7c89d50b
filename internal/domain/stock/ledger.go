// Package stock contiene las reglas puras de existencias:
// stock = Σentradas − Σsalidas + Σajustes, y la suficiencia para una salida.
package stock

// Totals suma de cantidades por tabla de movimientos de un artículo.
type Totals struct {
	Entries     int64
	Exits       int64
	Adjustments int64 // con signo
}

// Stock aplica la fórmula de existencias.
func (t Totals) Stock() int64 {
	return t.Entries - t.Exits + t.Adjustments
}

// Compute calcula el stock a partir de las cantidades crudas de cada tabla.
// Sin filas el resultado es 0.
func Compute(entries, exits, adjustments []int64) int64 {
	return Totals{
		Entries:     sum(entries),
		Exits:       sum(exits),
		Adjustments: sum(adjustments),
	}.Stock()
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// Sufficiency resultado de comparar el stock actual contra una cantidad.
// Remaining puede ser negativo; no es un error por sí mismo.
type Sufficiency struct {
	ArticleID    int64
	Requested    int64
	CurrentStock int64
	Remaining    int64
	Sufficient   bool
}

// Check evalúa si current alcanza para requested.
func Check(articleID, current, requested int64) Sufficiency {
	return Sufficiency{
		ArticleID:    articleID,
		Requested:    requested,
		CurrentStock: current,
		Remaining:    current - requested,
		Sufficient:   current >= requested,
	}
}

// Demand agrupa cantidades solicitadas por artículo conservando el orden de aparición.
type Demand struct {
	order  []int64
	totals map[int64]int64
}

// NewDemand construye un acumulador vacío.
func NewDemand() *Demand {
	return &Demand{totals: make(map[int64]int64)}
}

// Add suma qty al artículo.
func (d *Demand) Add(articleID, qty int64) {
	if _, ok := d.totals[articleID]; !ok {
		d.order = append(d.order, articleID)
	}
	d.totals[articleID] += qty
}

// ArticleIDs artículos en orden de aparición.
func (d *Demand) ArticleIDs() []int64 {
	out := make([]int64, len(d.order))
	copy(out, d.order)
	return out
}

// Total cantidad acumulada del artículo.
func (d *Demand) Total(articleID int64) int64 {
	return d.totals[articleID]
}
