package generics

//barexp:export
type Box[T any] struct {
	Value T
}

//barexp:export
func Map[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
