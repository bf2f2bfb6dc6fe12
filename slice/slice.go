package slice

func Map[T any, U any](input []T, pred func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = pred(v)
	}
	return result
}

type number interface {
	~int | ~int64 | ~float64
}

func Sum[T number](input []T) T {
	var total T
	for _, v := range input {
		total += v
	}
	return total
}

// Max returns the largest value, or zero for an empty slice.
func Max[T number](input []T) T {
	var result T
	for i, v := range input {
		if i == 0 || v > result {
			result = v
		}
	}
	return result
}
