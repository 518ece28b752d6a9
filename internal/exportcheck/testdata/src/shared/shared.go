package shared

//barexp:export
type Thing struct{}
