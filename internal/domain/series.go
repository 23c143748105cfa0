package domain

import "time"

// PricePoint es una observación (timestamp, precio) de la serie de un token.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// PriceBefore devuelve el precio del punto con mayor timestamp estrictamente
// anterior a cutoff. Si no existe tal punto devuelve (0, false) — el dato
// está ausente, y el caller nunca debe tratarlo como precio cero.
//
// Precondición: la serie está ordenada ascendente por timestamp. Ordenar es
// responsabilidad del caller (el fetcher ordena tras decodificar); esta
// función solo busca.
func PriceBefore(series []PricePoint, cutoff time.Time) (float64, bool) {
	// Búsqueda binaria del primer punto >= cutoff; el anterior es el resultado.
	lo, hi := 0, len(series)
	for lo < hi {
		mid := (lo + hi) / 2
		if series[mid].Timestamp.Before(cutoff) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0, false
	}
	return series[lo-1].Price, true
}
