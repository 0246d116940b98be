package ledger

import "github.com/shopspring/decimal"

// ReferencePrice calcula la moda de una lista de costos unitarios ordenada
// del más reciente al más antiguo. Ante empate de frecuencia gana el valor
// visto primero en ese orden (el de mayor frecuencia encontrado antes en
// recencia descendente). Devuelve cero si la lista está vacía.
//
// Es una función pura para mantenerla trivialmente testeable; la capa de
// aplicación decide de dónde salen los costos (las últimas N líneas de
// INGRESO aprobadas).
func ReferencePrice(costs []decimal.Decimal) decimal.Decimal {
	if len(costs) == 0 {
		return decimal.Zero
	}
	type bucket struct {
		value decimal.Decimal
		count int
		order int
	}
	buckets := make(map[string]*bucket, len(costs))
	for i, c := range costs {
		key := c.String()
		if b, ok := buckets[key]; ok {
			b.count++
			continue
		}
		buckets[key] = &bucket{value: c, count: 1, order: i}
	}
	var best *bucket
	for _, b := range buckets {
		if best == nil || b.count > best.count || (b.count == best.count && b.order < best.order) {
			best = b
		}
	}
	return best.value
}
