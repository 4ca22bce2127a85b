// Package mapping translates between the remote API's wire DTOs and the
// portal's UI models. Every list mapping preserves cardinality.
package mapping

import "strconv"

func mapAll[D any, M any](dtos []D, fn func(D) M) []M {
	out := make([]M, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, fn(d))
	}
	return out
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
