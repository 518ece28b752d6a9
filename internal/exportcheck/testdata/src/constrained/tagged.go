//go:build go1.18

package constrained

//barexp:export
type Tagged struct{}
