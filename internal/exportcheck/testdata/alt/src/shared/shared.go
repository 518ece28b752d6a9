package shared

// Thing is a second declaration under an already claimed key.
//
//barexp:export
type Thing struct{} // want `export collision: shared::Thing \(struct\) is already exported at`
