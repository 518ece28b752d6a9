// SPDX-License-Identifier: MPL-2.0

package modgen

import "context"

// Build generates aggregator files below DefaultRoot with default options.
// It is meant to be called from a build script:
//
//	func main() {
//		if err := modgen.Build(); err != nil {
//			log.Fatal(err)
//		}
//	}
func Build() error {
	return GenerateModFiles(DefaultRoot)
}

// GenerateModFiles generates aggregator files below root with default options.
func GenerateModFiles(root string) error {
	_, err := New().Scan(context.Background(), root)
	return err
}
