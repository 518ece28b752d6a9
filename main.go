// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/barexp/barexp/cmd/barexp"

func main() {
	cmd.Execute()
}
