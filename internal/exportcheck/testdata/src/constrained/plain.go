package constrained

//barexp:export
type Plain struct{}
