// SPDX-License-Identifier: MPL-2.0

package main

import cmd "pluginc-cli/cmd/pluginc"

func main() {
	cmd.Execute()
}
