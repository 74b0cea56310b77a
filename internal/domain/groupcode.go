package domain

import "regexp"

var (
	simpleCodePattern = regexp.MustCompile(`^[A-Z]\d{3}$`)
	doubleCodePattern = regexp.MustCompile(`^[A-Z]{2}\d{3}$`)
)

// IsSimpleCode reports whether code names a single-degree lab group,
// one uppercase letter followed by three digits (A404).
func IsSimpleCode(code string) bool {
	return simpleCodePattern.MatchString(code)
}

// IsDoubleCode reports whether code names a double-degree lab group,
// two uppercase letters followed by three digits (EE408).
func IsDoubleCode(code string) bool {
	return doubleCodePattern.MatchString(code)
}

// SplitCodes separates a cell's group codes into simple and double codes,
// preserving order. Codes matching neither pattern are dropped.
func SplitCodes(codes []string) (simples, doubles []string) {
	for _, c := range codes {
		switch {
		case IsSimpleCode(c):
			simples = append(simples, c)
		case IsDoubleCode(c):
			doubles = append(doubles, c)
		}
	}
	return simples, doubles
}
