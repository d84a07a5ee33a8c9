// Command btfdump is a thin CLI over the btf package: it owns ELF
// loading, flag parsing, and output formatting, none of which the core
// packages do themselves (see SPEC_FULL.md's domain-stack notes).
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.StandardLogger().Errorln(err)
		os.Exit(1)
	}
}
