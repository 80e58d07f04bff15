package analytics

// Variation es la variación porcentual curr vs prev. Desde base cero vale 100
// si hay algo en el período actual, 0 si no.
func Variation(curr, prev float64) float64 {
	if prev == 0 {
		if curr > 0 {
			return 100
		}
		return 0
	}
	return (curr - prev) / prev * 100
}

// Rate devuelve num/den*100, 0 si den es 0.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func max1(i int) int {
	if i <= 0 {
		return 1
	}
	return i
}
